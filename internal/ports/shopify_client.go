package ports

import (
	"context"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// ShopifyClient defines the Shopify Admin API operations the app uses
type ShopifyClient interface {
	// Authentication
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)

	// Access scopes granted to the token; also used to check the token is still live
	ListAccessScopes(ctx context.Context, shop string, accessToken string) ([]shopify.AccessScope, error)

	// Product API
	ListProducts(ctx context.Context, shop string, accessToken string) ([]shopify.Product, error)

	// Webhook API
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) (*shopify.Webhook, error)
}
