package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"shopify-embedded-app/internal/application"
	"shopify-embedded-app/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// IndexHandler serves static assets and gates the app page behind the install check
type IndexHandler struct {
	validator *application.InstallValidator
	staticDir string
	logger    zerolog.Logger
}

// NewIndexHandler creates a handler serving files from staticDir
func NewIndexHandler(validator *application.InstallValidator, staticDir string, logger zerolog.Logger) *IndexHandler {
	return &IndexHandler{validator: validator, staticDir: staticDir, logger: logger}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if file, ok := h.staticFile(r.URL.Path); ok {
		http.ServeFile(w, r, file)
		return
	}

	decision, err := h.validator.Validate(r.Context(), r)
	if err != nil {
		h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Install validation failed")
		metrics.RecordInstallCheck("error")
		writeError(w, err)
		return
	}
	if !decision.Allowed() {
		metrics.RecordInstallCheck("redirect")
		http.Redirect(w, r, decision.Redirect, http.StatusFound)
		return
	}

	metrics.RecordInstallCheck("allow")
	w.Header().Set("Content-Security-Policy", decision.ContentSecurityPolicy())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}

// staticFile resolves urlPath to a regular file inside the static directory
func (h *IndexHandler) staticFile(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" || clean == "/index.html" {
		return "", false
	}
	file := filepath.Join(h.staticDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}
