package domain

// Webhook topics the app subscribes to
const (
	TopicAppUninstalled = "app/uninstalled"
	TopicProductsUpdate = "products/update"
)

// WebhookEvent represents a verified inbound webhook
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}
