package handlers

import (
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ConfigHandler returns the current configuration as YAML with secrets
// redacted.
type ConfigHandler struct {
	logger   *slog.Logger
	provider ConfigProvider
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(logger *slog.Logger, provider ConfigProvider) *ConfigHandler {
	return &ConfigHandler{
		logger:   logger,
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	redacted := h.provider.Config().Redacted()

	w.Header().Set("Content-Type", "text/yaml")
	w.WriteHeader(http.StatusOK)
	if err := yaml.NewEncoder(w).Encode(redacted); err != nil {
		h.logger.Error("failed to encode YAML response", "error", err)
	}
}
