package ports

import (
	"net/http"
	"net/url"
)

// RequestVerifier checks Shopify signatures on inbound requests
type RequestVerifier interface {
	// VerifyQuery checks the hmac query parameter
	VerifyQuery(u *url.URL) error

	// VerifyWebhook checks the body signature and leaves the body readable
	VerifyWebhook(r *http.Request) error
}
