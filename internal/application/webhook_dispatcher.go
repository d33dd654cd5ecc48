package application

import (
	"context"
	"fmt"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookDispatcher routes webhook events to the first handler that accepts the topic
type WebhookDispatcher struct {
	handlers []ports.WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a dispatcher over handlers
func NewWebhookDispatcher(logger zerolog.Logger, handlers ...ports.WebhookHandler) *WebhookDispatcher {
	return &WebhookDispatcher{handlers: handlers, logger: logger}
}

// Dispatch processes a Shopify webhook event
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		if err := h.Handle(ctx, event); err != nil {
			d.logger.Error().Err(err).Str("topic", event.Topic).Str("shop", event.Shop).Msg("Webhook handler failed")
			return err
		}
		d.logger.Info().Str("topic", event.Topic).Str("shop", event.Shop).Bool("verified", event.Verified).Msg("Webhook processed")
		return nil
	}

	d.logger.Warn().Str("topic", event.Topic).Str("shop", event.Shop).Msg("No handler for webhook topic")
	return fmt.Errorf("no handler registered for topic %s", event.Topic)
}
