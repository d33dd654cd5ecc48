package api

import (
	"encoding/json"
	"net/http"

	"shopify-embedded-app/internal/application"

	"github.com/rs/zerolog"
)

// ProductHandler serves product data to the embedded frontend
type ProductHandler struct {
	products *application.ProductService
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *application.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// List returns the shop's products as a JSON array
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode products")
	}
}
