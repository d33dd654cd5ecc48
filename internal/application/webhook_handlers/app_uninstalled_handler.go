package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// AppUninstalledHandler handles app uninstalled webhook events
type AppUninstalledHandler struct {
	logger   zerolog.Logger
	sessions ports.SessionRepository
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, sessions ports.SessionRepository) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

// Handle deletes the shop's offline session
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var shop goshopify.Shop
	if err := json.Unmarshal(event.Payload, &shop); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	shopDomain := event.Shop
	if shopDomain == "" {
		shopDomain = shop.MyshopifyDomain
	}
	if shopDomain == "" {
		return fmt.Errorf("%w: missing shop domain", domain.ErrMalformedPayload)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", shopDomain).
		Msg("Processing app uninstalled webhook event")

	deleted, err := h.sessions.Delete(ctx, domain.GetSessionID(shopDomain))
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("shop", shopDomain).
		Bool("sessionDeleted", deleted).
		Msg("App uninstalled - cleanup completed")
	return nil
}
