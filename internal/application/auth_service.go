package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	"github.com/rs/zerolog"
)

// Scopes requested at install time
var Scopes = []string{"read_product_listings", "read_products", "read_content"}

// StateTTL bounds how long an OAuth state nonce stays valid
const StateTTL = 10 * time.Minute

// AuthSettings holds the URLs and identity the OAuth flow needs
type AuthSettings struct {
	BaseURL        string
	ClientID       string
	AuthPath       string
	CallbackURL    string
	ExitIframePath string
	Embedded       bool
}

// CallbackParams are the query parameters Shopify sends to the OAuth callback
type CallbackParams struct {
	Code     string
	Shop     string
	Host     string
	Embedded string
	State    string
	URL      *url.URL
}

// AuthService drives the OAuth install flow
type AuthService struct {
	sessions ports.SessionRepository
	states   ports.StateStore
	client   ports.ShopifyClient
	verifier ports.RequestVerifier
	webhooks *WebhookManager
	settings AuthSettings
	logger   zerolog.Logger
}

// NewAuthService creates a new OAuth flow service
func NewAuthService(
	sessions ports.SessionRepository,
	states ports.StateStore,
	client ports.ShopifyClient,
	verifier ports.RequestVerifier,
	webhooks *WebhookManager,
	settings AuthSettings,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		sessions: sessions,
		states:   states,
		client:   client,
		verifier: verifier,
		webhooks: webhooks,
		settings: settings,
		logger:   logger,
	}
}

// BeginAuth returns the URL that starts OAuth for shop
func (s *AuthService) BeginAuth(ctx context.Context, shop, host, embedded string) (string, error) {
	if err := domain.ValidateShop(shop); err != nil {
		return "", err
	}

	if embedded == "1" {
		// an iframe cannot navigate to the grant screen, so hand off to the exit page
		redirectParams := url.Values{}
		redirectParams.Set("shop", shop)
		redirectParams.Set("host", host)

		// redirectUri carries its own query and must survive exactly one decode by the exit page
		q := url.Values{}
		q.Set("shop", shop)
		q.Set("host", host)
		q.Set("redirectUri", s.settings.BaseURL+s.settings.AuthPath+"?"+redirectParams.Encode())

		exitURL := s.settings.BaseURL + s.settings.ExitIframePath + "?" + q.Encode()
		s.logger.Info().Str("shop", shop).Str("url", exitURL).Msg("Embedded redirect")
		return exitURL, nil
	}

	state, err := generateState()
	if err != nil {
		return "", err
	}
	if err := s.states.Put(ctx, state, shop, StateTTL); err != nil {
		return "", err
	}

	authURL := s.authorizeURL(shop, state)
	s.logger.Info().Str("shop", shop).Str("url", authURL).Msg("Non embedded redirect")
	return authURL, nil
}

func (s *AuthService) authorizeURL(shop, state string) string {
	q := url.Values{}
	q.Set("client_id", s.settings.ClientID)
	q.Set("scope", strings.Join(Scopes, ","))
	q.Set("redirect_uri", s.settings.CallbackURL)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, q.Encode())
}

// Callback completes OAuth. It returns the URL the browser is sent to next.
func (s *AuthService) Callback(ctx context.Context, p CallbackParams) (string, error) {
	if err := domain.ValidateShop(p.Shop); err != nil {
		return "", err
	}

	if p.URL != nil && p.URL.Query().Get("hmac") != "" {
		if err := s.verifier.VerifyQuery(p.URL); err != nil {
			return "", err
		}
	}

	if p.Code != "" {
		if err := s.consumeState(ctx, p.State, p.Shop); err != nil {
			return "", err
		}
		if err := s.install(ctx, p.Shop, p.Code); err != nil {
			return "", err
		}
	}

	if s.settings.Embedded && p.Embedded != "1" {
		decodedHost, err := domain.DecodeHost(p.Host)
		if err != nil {
			return "", err
		}
		embeddedURL := fmt.Sprintf("https://%s/apps/%s", decodedHost, s.settings.ClientID)
		s.logger.Info().Str("url", embeddedURL).Msg("Redirecting to embedded app url")
		return embeddedURL, nil
	}

	frontendURL := "/?shop=" + p.Shop + "&host=" + url.QueryEscape(p.Host)
	s.logger.Info().Str("url", frontendURL).Msg("Rendering frontend")
	return frontendURL, nil
}

func (s *AuthService) consumeState(ctx context.Context, state, shop string) error {
	if state == "" {
		return fmt.Errorf("%w: missing state", domain.ErrInvalidState)
	}
	bound, err := s.states.Consume(ctx, state)
	if err != nil {
		return err
	}
	if bound == "" || bound != shop {
		return domain.ErrInvalidState
	}
	return nil
}

func (s *AuthService) install(ctx context.Context, shop, code string) error {
	token, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		return fmt.Errorf("failed to exchange token: %w", err)
	}

	scopes, err := s.client.ListAccessScopes(ctx, shop, token)
	if err != nil {
		return fmt.Errorf("failed to list access scopes: %w", err)
	}
	handles := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		handles = append(handles, scope.Handle)
	}

	session := &domain.Session{
		ID:    domain.GetSessionID(shop),
		Shop:  shop,
		Token: &token,
		Scope: strings.Join(handles, ","),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	s.logger.Info().Str("shop", shop).Str("scope", session.Scope).Msg("Stored session for shop")

	if s.webhooks != nil {
		if err := s.webhooks.Register(ctx, shop, token); err != nil {
			return err
		}
	}
	return nil
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// IsClientError reports whether err was caused by the caller's input rather than a failure during the exchange
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrMissingShop) ||
		errors.Is(err, domain.ErrInvalidShopDomain) ||
		errors.Is(err, domain.ErrInvalidSignature) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrInvalidHost)
}
