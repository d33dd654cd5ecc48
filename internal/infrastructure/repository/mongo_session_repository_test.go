package repository

import (
	"context"
	"testing"

	"shopify-embedded-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoSessionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get missing returns nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.sessions", mtest.FirstBatch))

		got, err := NewMongoSessionRepository(mt.DB).Get(ctx, "offline_acme.myshopify.com")
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("get decodes document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "db.sessions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "offline_acme.myshopify.com"},
			{Key: "shop", Value: "acme.myshopify.com"},
			{Key: "token", Value: "shpat"},
			{Key: "scope", Value: "read_products"},
		}))

		got, err := NewMongoSessionRepository(mt.DB).Get(ctx, "offline_acme.myshopify.com")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, "acme.myshopify.com", got.Shop)
		assert.Equal(mt, "shpat", got.AccessToken())
	})

	mt.Run("save upserts without touching createdAt", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		session := &domain.Session{ID: "offline_acme.myshopify.com", Shop: "acme.myshopify.com", Token: strPtr("shpat")}
		require.NoError(mt, NewMongoSessionRepository(mt.DB).Save(ctx, session))
		assert.False(mt, session.UpdatedAt.IsZero())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)

		upsert, err := started.Command.LookupErr("updates", "0", "upsert")
		require.NoError(mt, err)
		assert.True(mt, upsert.Boolean())

		_, err = started.Command.LookupErr("updates", "0", "u", "$setOnInsert", "createdAt")
		assert.NoError(mt, err)
		_, err = started.Command.LookupErr("updates", "0", "u", "$set", "createdAt")
		assert.Error(mt, err)

		token, err := started.Command.LookupErr("updates", "0", "u", "$set", "token")
		require.NoError(mt, err)
		assert.Equal(mt, "shpat", token.StringValue())
	})

	mt.Run("delete reports removal", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		repo := NewMongoSessionRepository(mt.DB)

		deleted, err := repo.Delete(ctx, "offline_acme.myshopify.com")
		require.NoError(mt, err)
		assert.True(mt, deleted)

		deleted, err = repo.Delete(ctx, "offline_acme.myshopify.com")
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})
}
