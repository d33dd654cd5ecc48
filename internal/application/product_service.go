package application

import (
	"context"
	"fmt"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ProductService proxies product reads for the embedded frontend
type ProductService struct {
	client ports.ShopifyClient
	logger zerolog.Logger
}

// NewProductService creates a new product service
func NewProductService(client ports.ShopifyClient, logger zerolog.Logger) *ProductService {
	return &ProductService{client: client, logger: logger}
}

// ListProducts lists products for the session attached to ctx
func (s *ProductService) ListProducts(ctx context.Context) ([]goshopify.Product, error) {
	session, ok := domain.GetSessionFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	products, err := s.client.ListProducts(ctx, session.Shop, session.AccessToken())
	if err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}
