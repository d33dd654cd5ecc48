package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/metrics"
	"shopify-embedded-app/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

type client struct {
	app        goshopify.App
	apiVersion string
	options    []goshopify.Option
	logger     zerolog.Logger
}

// NewClient creates a new Shopify client adapter
func NewClient(apiKey, apiSecret, apiVersion string, logger zerolog.Logger, options ...goshopify.Option) ports.ShopifyClient {
	return &client{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		apiVersion: apiVersion,
		options:    options,
		logger:     logger,
	}
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	opts := make([]goshopify.Option, 0, len(c.options)+1)
	if c.apiVersion != "" {
		opts = append(opts, goshopify.WithVersion(c.apiVersion))
	}
	opts = append(opts, c.options...)

	client, err := goshopify.NewClient(c.app, shopDomain, accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Authentication methods

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	client, err := c.createClient(shop, "")
	if err != nil {
		return "", err
	}
	app := c.app
	app.Client = client

	token, err := app.GetAccessToken(ctx, shop, code)
	metrics.RecordRemoteCall("exchange_token", err)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", classifyError(err))
	}
	c.logger.Debug().Str("shop", shop).Msg("Exchanged OAuth code for access token")
	return token, nil
}

// Access scope API

func (c *client) ListAccessScopes(ctx context.Context, shop string, accessToken string) ([]goshopify.AccessScope, error) {
	client, err := c.createClient(shop, accessToken)
	if err != nil {
		return nil, err
	}
	scopes, err := client.AccessScopes.List(ctx, nil)
	metrics.RecordRemoteCall("list_access_scopes", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list access scopes: %w", classifyError(err))
	}
	return scopes, nil
}

// Product API

func (c *client) ListProducts(ctx context.Context, shop string, accessToken string) ([]goshopify.Product, error) {
	client, err := c.createClient(shop, accessToken)
	if err != nil {
		return nil, err
	}
	products, err := client.Product.List(ctx, nil)
	metrics.RecordRemoteCall("list_products", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", classifyError(err))
	}
	return products, nil
}

// Webhook API

func (c *client) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) (*goshopify.Webhook, error) {
	client, err := c.createClient(shop, accessToken)
	if err != nil {
		return nil, err
	}
	webhook := goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	}
	created, err := client.Webhook.Create(ctx, webhook)
	metrics.RecordRemoteCall("create_webhook", err)
	if err != nil {
		if isAddressTaken(err) {
			return nil, fmt.Errorf("webhook %s at %s: %w: %w", topic, address, domain.ErrWebhookExists, err)
		}
		return nil, fmt.Errorf("failed to create webhook %s: %w", topic, classifyError(err))
	}
	return created, nil
}

// isAddressTaken reports the 422 Shopify returns when the topic already has a subscription at the address
func isAddressTaken(err error) bool {
	var respErr goshopify.ResponseError
	if !errors.As(err, &respErr) {
		var respErrPtr *goshopify.ResponseError
		if !errors.As(err, &respErrPtr) || respErrPtr == nil {
			return false
		}
		respErr = *respErrPtr
	}
	return respErr.Status == http.StatusUnprocessableEntity && strings.Contains(respErr.Error(), "already been taken")
}

// classifyError maps go-shopify errors onto the domain taxonomy by response status.
func classifyError(err error) error {
	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) && respErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	var respErrPtr *goshopify.ResponseError
	if errors.As(err, &respErrPtr) && respErrPtr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrRemoteAPI, err)
}
