package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// Decision is the outcome of an install check. An empty Redirect means the request may proceed.
type Decision struct {
	Shop     string
	Redirect string
}

// Allowed reports whether the page may be rendered
func (d *Decision) Allowed() bool {
	return d.Redirect == ""
}

// ContentSecurityPolicy returns the frame-ancestors policy for the shop
func (d *Decision) ContentSecurityPolicy() string {
	return fmt.Sprintf("frame-ancestors https://%s https://%s;", html.EscapeString(d.Shop), domain.AdminDomain)
}

// InstallValidator gates page loads on an installed, live offline session
type InstallValidator struct {
	sessions   ports.SessionRepository
	client     ports.ShopifyClient
	verifier   ports.RequestVerifier
	authPath   string
	exitIframe *regexp.Regexp
	logger     zerolog.Logger
}

// NewInstallValidator creates a validator. exitIframePattern is matched against the request path.
func NewInstallValidator(
	sessions ports.SessionRepository,
	client ports.ShopifyClient,
	verifier ports.RequestVerifier,
	authPath string,
	exitIframePattern string,
	logger zerolog.Logger,
) (*InstallValidator, error) {
	re, err := regexp.Compile(exitIframePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid exit iframe pattern: %w", err)
	}
	return &InstallValidator{
		sessions:   sessions,
		client:     client,
		verifier:   verifier,
		authPath:   authPath,
		exitIframe: re,
		logger:     logger,
	}, nil
}

// Validate checks the request and decides whether to render it or send the shop through OAuth
func (v *InstallValidator) Validate(ctx context.Context, r *http.Request) (*Decision, error) {
	query := r.URL.Query()
	shop := query.Get("shop")

	v.logger.Info().Str("shop", shop).Str("path", r.URL.Path).Msg("Validating session for shop")

	if r.URL.Path == "/" && query.Get("hmac") != "" {
		if err := v.verifier.VerifyQuery(r.URL); err != nil {
			return nil, fmt.Errorf("invalid hmac for %s: %w", r.URL.Path, err)
		}
	}

	if err := domain.ValidateShop(shop); err != nil {
		return nil, err
	}

	session, err := v.sessions.Get(ctx, domain.GetSessionID(shop))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session == nil {
		if v.exitIframe.MatchString(r.URL.Path) {
			// the page performs the top-level redirect itself
			return &Decision{Shop: shop}, nil
		}
		v.logger.Info().Str("shop", shop).Msg("App installation was not found for shop")
		return &Decision{Shop: shop, Redirect: v.authRedirect(r)}, nil
	}

	if _, err := v.client.ListAccessScopes(ctx, shop, session.AccessToken()); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			v.logger.Info().Str("shop", shop).Msg("Invalid or outdated access token for shop")
			return &Decision{Shop: shop, Redirect: v.authRedirect(r)}, nil
		}
		return nil, err
	}

	v.logger.Info().Str("shop", shop).Msg("Session found and active for shop")
	return &Decision{Shop: shop}, nil
}

func (v *InstallValidator) authRedirect(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return v.authPath
	}
	return v.authPath + "?" + r.URL.RawQuery
}
