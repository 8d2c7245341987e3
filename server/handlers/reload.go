package handlers

import (
	"log/slog"
	"net/http"
)

// ReloadHandler reloads the configuration from disk. The board keeps its
// state; only the backend client and its dependents are rebuilt.
type ReloadHandler struct {
	logger   *slog.Logger
	reloader Reloader
}

// NewReloadHandler creates a new ReloadHandler.
func NewReloadHandler(logger *slog.Logger, reloader Reloader) *ReloadHandler {
	return &ReloadHandler{
		logger:   logger,
		reloader: reloader,
	}
}

// ServeHTTP implements http.Handler.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("reloading configuration")

	if err := h.reloader.Reload(); err != nil {
		h.logger.Error("failed to reload configuration", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "failed to reload configuration: " + err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
