package domain

import (
	"context"
	"time"
)

// Session represents a shop's offline session
type Session struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:255"`
	Shop      string    `json:"shop" bson:"shop" gorm:"size:255;not null"`
	Token     *string   `json:"-" bson:"token,omitempty" gorm:"size:255"`
	Scope     string    `json:"scope" bson:"scope"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// AccessToken returns the session's token, or "" if OAuth has not completed
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return *s.Token
}

// GetSessionID derives the session primary key for a shop
func GetSessionID(shop string) string {
	return "offline_" + shop
}

type sessionContextKey struct{}

// WithSession attaches a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// GetSessionFromContext returns the session attached by WithSession, if any
func GetSessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}
