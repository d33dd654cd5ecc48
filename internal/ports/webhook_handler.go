package ports

import (
	"context"

	"shopify-embedded-app/internal/domain"
)

// WebhookHandler processes verified webhook events for the topics it accepts
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}
