package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/shopify"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// SessionTokenParser validates an App Bridge session token
type SessionTokenParser interface {
	Parse(raw string) (*shopify.SessionTokenClaims, error)
}

// SessionTokenMiddleware authenticates embedded frontend calls and attaches the shop's offline session.
// authURL is the absolute OAuth entry point shops without a session are sent to.
func SessionTokenMiddleware(parser SessionTokenParser, sessions ports.SessionRepository, authURL string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeMessage(w, http.StatusUnauthorized, "missing session token")
				return
			}

			claims, err := parser.Parse(raw)
			if err != nil {
				logger.Debug().Err(err).Msg("Rejected session token")
				writeMessage(w, http.StatusUnauthorized, "invalid session token")
				return
			}
			if claims.Dest == "" {
				writeMessage(w, http.StatusUnauthorized, "Missing dest claim")
				return
			}

			shop := domain.ShopFromDest(claims.Dest)
			session, err := sessions.Get(r.Context(), domain.GetSessionID(shop))
			if err != nil {
				logger.Error().Err(err).Str("shop", shop).Msg("Failed to load session")
				writeMessage(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if session == nil {
				redirect := authURL + "?shop=" + url.QueryEscape(shop)
				logger.Info().Str("shop", shop).Str("redirect", redirect).Msg("Session not found for shop")
				http.Redirect(w, r, redirect, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
