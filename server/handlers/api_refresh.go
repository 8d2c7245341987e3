package handlers

import (
	"log/slog"
	"net/http"
)

// RefreshHandler reloads the activities on demand.
type RefreshHandler struct {
	logger *slog.Logger
	loader BoardLoader
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(logger *slog.Logger, loader BoardLoader) *RefreshHandler {
	return &RefreshHandler{
		logger: logger,
		loader: loader,
	}
}

// ServeHTTP implements http.Handler.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.loader.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: "failed to load activities: " + err.Error(),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
