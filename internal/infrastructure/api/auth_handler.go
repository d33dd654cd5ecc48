package api

import (
	"net/http"

	"shopify-embedded-app/internal/application"
	"shopify-embedded-app/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// AuthHandler serves the OAuth begin and callback endpoints
type AuthHandler struct {
	auth   *application.AuthService
	logger zerolog.Logger
}

// NewAuthHandler creates a new OAuth handler
func NewAuthHandler(auth *application.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Begin redirects to Shopify's grant screen, or to the exit-iframe page for embedded requests
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.logger.Debug().Str("query", r.URL.RawQuery).Msg("Auth query string")

	target, err := h.auth.BeginAuth(r.Context(), q.Get("shop"), q.Get("host"), q.Get("embedded"))
	if err != nil {
		h.logger.Warn().Err(err).Str("shop", q.Get("shop")).Msg("Failed to begin auth")
		writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback completes OAuth and redirects into the app
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.logger.Debug().Str("query", r.URL.RawQuery).Msg("Callback query string")

	target, err := h.auth.Callback(r.Context(), application.CallbackParams{
		Code:     q.Get("code"),
		Shop:     q.Get("shop"),
		Host:     q.Get("host"),
		Embedded: q.Get("embedded"),
		State:    q.Get("state"),
		URL:      r.URL,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("shop", q.Get("shop")).Msg("OAuth callback failed")
		if application.IsClientError(err) {
			metrics.RecordOAuthCallback("rejected")
			writeError(w, err)
			return
		}
		metrics.RecordOAuthCallback("error")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.RecordOAuthCallback("success")
	http.Redirect(w, r, target, http.StatusFound)
}
