package entity

import (
	"time"

	"shopify-embedded-app/internal/domain"
)

// MongoSessionDoc represents an offline session in MongoDB
type MongoSessionDoc struct {
	ID        string    `bson:"_id"`
	Shop      string    `bson:"shop"`
	Token     *string   `bson:"token,omitempty"`
	Scope     string    `bson:"scope"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:        d.ID,
		Shop:      d.Shop,
		Token:     d.Token,
		Scope:     d.Scope,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoSessionDocFromDomain converts a domain entity to a MongoDB document
func MongoSessionDocFromDomain(session *domain.Session) *MongoSessionDoc {
	return &MongoSessionDoc{
		ID:        session.ID,
		Shop:      session.Shop,
		Token:     session.Token,
		Scope:     session.Scope,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
