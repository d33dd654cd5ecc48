package domain

import "errors"

var (
	ErrMissingShop       = errors.New("missing shop parameter")
	ErrInvalidShopDomain = errors.New("invalid shop domain")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrTokenInvalid      = errors.New("access token invalid or expired")
	ErrRemoteAPI         = errors.New("shopify api error")
	ErrUnauthenticated   = errors.New("missing session")
	ErrInvalidState      = errors.New("invalid oauth state")
	ErrInvalidHost       = errors.New("invalid host parameter")
	ErrMalformedPayload  = errors.New("malformed webhook payload")
	ErrWebhookExists     = errors.New("webhook already registered")
)
