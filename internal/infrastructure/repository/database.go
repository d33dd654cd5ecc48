package repository

import (
	"context"
	"fmt"

	"shopify-embedded-app/internal/config"
	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/ports"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens the SQL session database for the configured driver and migrates the schema
func OpenGorm(cfg config.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.StoreSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	case config.StorePostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the sessions table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Session{}); err != nil {
		return fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	return nil
}

// ConnectMongo connects to MongoDB and returns the client and database
func ConnectMongo(ctx context.Context, cfg config.StorageConfig) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(cfg.MongoDatabase), nil
}

// OpenSessionRepository opens the configured session store. The returned
// close function releases the underlying connection.
func OpenSessionRepository(ctx context.Context, cfg config.StorageConfig) (ports.SessionRepository, func(context.Context) error, error) {
	switch cfg.Driver {
	case config.StoreMongo:
		client, db, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoSessionRepository(db), client.Disconnect, nil
	default:
		db, err := OpenGorm(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		return NewGormSessionRepository(db), func(context.Context) error { return sqlDB.Close() }, nil
	}
}
