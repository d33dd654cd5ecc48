package api

import (
	"encoding/json"
	"net/http"

	"shopify-embedded-app/internal/config"
	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/metrics"
	securitymiddleware "shopify-embedded-app/internal/infrastructure/middleware"
	"shopify-embedded-app/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterDeps holds everything the HTTP surface is built from
type RouterDeps struct {
	Config        *config.Config
	Auth          *AuthHandler
	Webhooks      *WebhookHandler
	Products      *ProductHandler
	Index         *IndexHandler
	Verifier      ports.RequestVerifier
	SessionTokens securitymiddleware.SessionTokenParser
	Sessions      ports.SessionRepository
	Logger        zerolog.Logger
}

// NewRouter wires the app's routes
func NewRouter(d RouterDeps) chi.Router {
	cfg := d.Config
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://" + domain.AdminDomain, "https://*.myshopify.com"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	// OAuth
	r.Get(cfg.Shopify.Auth.Path, d.Auth.Begin)
	r.Get(cfg.Shopify.Auth.Callback, d.Auth.Callback)

	// Webhooks
	r.Route(cfg.Shopify.Webhook.Path, func(r chi.Router) {
		r.Use(securitymiddleware.WebhookAuthMiddleware(d.Verifier, d.Logger))
		r.Post("/uninstalled", d.Webhooks.Topic(domain.TopicAppUninstalled))
		r.Post("/products/update", d.Webhooks.Topic(domain.TopicProductsUpdate))
	})

	// Embedded frontend API
	r.Group(func(r chi.Router) {
		r.Use(securitymiddleware.SessionTokenMiddleware(d.SessionTokens, d.Sessions, cfg.BaseURL+cfg.Shopify.Auth.Path, d.Logger))
		r.Get("/api/products", d.Products.List)
	})

	r.Get("/", d.Index.ServeHTTP)
	r.NotFound(d.Index.ServeHTTP)

	return r
}
