package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"shopify-embedded-app/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ProductHandler handles product update webhook events
type ProductHandler struct {
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductsUpdate
}

// Handle processes a product webhook event
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var product goshopify.Product
	if err := json.Unmarshal(event.Payload, &product); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Uint64("productId", product.Id).
		Str("title", product.Title).
		Str("handle", product.Handle).
		Str("vendor", product.Vendor).
		Str("productType", product.ProductType).
		Msg("Product updated")

	return nil
}
