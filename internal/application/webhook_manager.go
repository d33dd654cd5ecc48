package application

import (
	"context"
	"errors"
	"fmt"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookSubscription maps a topic to the callback path suffix under the webhook prefix
type WebhookSubscription struct {
	Topic  string
	Suffix string
}

// DefaultSubscriptions are registered for every shop on install
var DefaultSubscriptions = []WebhookSubscription{
	{Topic: domain.TopicAppUninstalled, Suffix: "/uninstalled"},
	{Topic: domain.TopicProductsUpdate, Suffix: "/products/update"},
}

// WebhookManager registers the app's webhook subscriptions with Shopify
type WebhookManager struct {
	client        ports.ShopifyClient
	baseURL       string
	subscriptions []WebhookSubscription
	logger        zerolog.Logger
}

// NewWebhookManager creates a manager that registers at baseURL + suffix
func NewWebhookManager(client ports.ShopifyClient, baseURL string, logger zerolog.Logger) *WebhookManager {
	return &WebhookManager{
		client:        client,
		baseURL:       baseURL,
		subscriptions: DefaultSubscriptions,
		logger:        logger,
	}
}

// Register creates every subscription for shop. Subscriptions left over from an earlier install are kept.
func (m *WebhookManager) Register(ctx context.Context, shop, accessToken string) error {
	for _, sub := range m.subscriptions {
		address := m.baseURL + sub.Suffix
		webhook, err := m.client.CreateWebhook(ctx, shop, accessToken, sub.Topic, address)
		if errors.Is(err, domain.ErrWebhookExists) {
			m.logger.Info().Str("shop", shop).Str("topic", sub.Topic).Msg("Webhook already registered")
			continue
		}
		if err != nil {
			m.logger.Error().Err(err).Str("shop", shop).Str("topic", sub.Topic).Msg("Failed to register webhook")
			return fmt.Errorf("failed to register %s webhook: %w", sub.Topic, err)
		}
		m.logger.Info().
			Str("shop", shop).
			Str("topic", sub.Topic).
			Str("address", address).
			Uint64("webhookId", webhook.Id).
			Msg("Registered webhook")
	}
	return nil
}
