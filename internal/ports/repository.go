package ports

import (
	"context"
	"time"

	"shopify-embedded-app/internal/domain"
)

// SessionRepository defines the interface for offline session persistence
type SessionRepository interface {
	// Save inserts the session or replaces the existing row with the same ID
	Save(ctx context.Context, session *domain.Session) error

	// Get returns nil, nil when no session exists for id
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete reports whether a session was removed
	Delete(ctx context.Context, id string) (bool, error)
}

// StateStore holds single-use OAuth state nonces bound to a shop
type StateStore interface {
	Put(ctx context.Context, state string, shop string, ttl time.Duration) error

	// Consume returns the shop bound to state and removes it; "" when unknown or expired
	Consume(ctx context.Context, state string) (string, error)
}
