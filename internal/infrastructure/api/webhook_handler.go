package api

import (
	"io"
	"net/http"

	"shopify-embedded-app/internal/application"
	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// HeaderShopDomain carries the shop a webhook is about
const HeaderShopDomain = "X-Shopify-Shop-Domain"

// WebhookHandler turns verified webhook requests into events for the dispatcher
type WebhookHandler struct {
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates a new webhook HTTP handler
func NewWebhookHandler(dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

// Topic returns a handler for a single webhook topic. Requests must already be verified.
func (h *WebhookHandler) Topic(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			metrics.RecordWebhook(topic, "error")
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		shop := r.Header.Get(HeaderShopDomain)
		h.logger.Info().Str("topic", topic).Str("shop", shop).Msg("Webhook received")

		event := &domain.WebhookEvent{
			Topic:    topic,
			Shop:     shop,
			Payload:  payload,
			Verified: true,
		}
		if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
			metrics.RecordWebhook(topic, "error")
			writeError(w, err)
			return
		}

		metrics.RecordWebhook(topic, "success")
		w.WriteHeader(http.StatusOK)
	}
}
