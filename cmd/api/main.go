package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopify-embedded-app/internal/application"
	"shopify-embedded-app/internal/application/webhook_handlers"
	"shopify-embedded-app/internal/config"
	"shopify-embedded-app/internal/infrastructure/api"
	"shopify-embedded-app/internal/infrastructure/repository"
	shopifyinfra "shopify-embedded-app/internal/infrastructure/shopify"
	"shopify-embedded-app/internal/infrastructure/statestore"
	"shopify-embedded-app/internal/ports"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	cfg, err := config.Load(config.FileFromEnv())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()

	// Session store
	sessions, closeSessions, err := repository.OpenSessionRepository(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open session store")
	}
	defer closeSessions(context.Background())

	// OAuth state store
	states, closeStates := newStateStore(ctx, cfg, logger)
	defer closeStates()

	// Shopify adapters
	client := shopifyinfra.NewClient(cfg.Shopify.ClientID, cfg.Shopify.ClientSecret, cfg.Shopify.APIVersion, logger)
	verifier := shopifyinfra.NewVerifier(cfg.Shopify.ClientID, cfg.Shopify.ClientSecret)
	sessionTokens := shopifyinfra.NewSessionTokenVerifier(cfg.Shopify.ClientID, cfg.Shopify.ClientSecret)

	// Initialize application services
	validator, err := application.NewInstallValidator(
		sessions,
		client,
		verifier,
		cfg.Shopify.Auth.Path,
		cfg.Shopify.Auth.ExitIframe,
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize install validator")
	}

	webhookManager := application.NewWebhookManager(client, cfg.WebhookURL(""), logger)

	authService := application.NewAuthService(
		sessions,
		states,
		client,
		verifier,
		webhookManager,
		application.AuthSettings{
			BaseURL:        cfg.BaseURL,
			ClientID:       cfg.Shopify.ClientID,
			AuthPath:       cfg.Shopify.Auth.Path,
			CallbackURL:    cfg.CallbackURL(),
			ExitIframePath: cfg.Shopify.Auth.ExitIframe,
			Embedded:       cfg.Shopify.Embedded,
		},
		logger,
	)

	productService := application.NewProductService(client, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(
		logger,
		webhook_handlers.NewAppUninstalledHandler(logger, sessions),
		webhook_handlers.NewProductHandler(logger),
	)

	// Setup router
	r := api.NewRouter(api.RouterDeps{
		Config:        cfg,
		Auth:          api.NewAuthHandler(authService, logger),
		Webhooks:      api.NewWebhookHandler(webhookDispatcher, logger),
		Products:      api.NewProductHandler(productService, logger),
		Index:         api.NewIndexHandler(validator, cfg.Static, logger),
		Verifier:      verifier,
		SessionTokens: sessionTokens,
		Sessions:      sessions,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("baseUrl", cfg.BaseURL).Msg("Starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown error")
	}
}

// newStateStore uses Redis when REDIS_URL is set and an in-process store otherwise
func newStateStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ports.StateStore, func()) {
	if cfg.RedisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, OAuth state is kept in memory")
		return statestore.NewMemoryStore(), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	return statestore.NewRedisStore(rdb), func() { _ = rdb.Close() }
}
