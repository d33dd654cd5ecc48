package shopify

import (
	"fmt"
	"net/http"
	"net/url"

	"shopify-embedded-app/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// HeaderHmac carries the webhook signature
const HeaderHmac = "X-Shopify-Hmac-Sha256"

// Verifier checks Shopify request signatures with the app's shared secret
type Verifier struct {
	app goshopify.App
}

// NewVerifier creates a verifier for the given client secret
func NewVerifier(apiKey, apiSecret string) *Verifier {
	return &Verifier{app: goshopify.App{ApiKey: apiKey, ApiSecret: apiSecret}}
}

// VerifyQuery checks the hmac query parameter of an OAuth or app-load URL.
// The message is every parameter except hmac and signature, sorted and unescaped.
func (v *Verifier) VerifyQuery(u *url.URL) error {
	ok, err := v.app.VerifyAuthorizationURL(u)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if !ok {
		return domain.ErrInvalidSignature
	}
	return nil
}

// VerifyWebhook checks X-Shopify-Hmac-Sha256 against the raw body.
// The body is buffered and restored so later handlers can read it again.
func (v *Verifier) VerifyWebhook(r *http.Request) error {
	if r.Header.Get(HeaderHmac) == "" {
		return fmt.Errorf("%w: missing %s header", domain.ErrInvalidSignature, HeaderHmac)
	}
	if !v.app.VerifyWebhookRequest(r) {
		return domain.ErrInvalidSignature
	}
	return nil
}
