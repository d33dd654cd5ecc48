package middleware

import (
	"net/http"

	"shopify-embedded-app/internal/infrastructure/metrics"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// HeaderTopic carries the webhook topic
const HeaderTopic = "X-Shopify-Topic"

// WebhookAuthMiddleware rejects webhooks whose HMAC does not match the raw body.
// Rejected requests get a 401 with an empty body.
func WebhookAuthMiddleware(verifier ports.RequestVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := verifier.VerifyWebhook(r); err != nil {
				logger.Warn().
					Err(err).
					Str("topic", r.Header.Get(HeaderTopic)).
					Str("path", r.URL.Path).
					Msg("Webhook is not authentic")
				metrics.RecordWebhook(r.Header.Get(HeaderTopic), "unauthorized")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
