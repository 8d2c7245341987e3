package handlers

import "net/http"

// VersionHandler reports build info and server properties.
type VersionHandler struct {
	provider PropertiesProvider
}

// NewVersionHandler creates a new VersionHandler.
func NewVersionHandler(provider PropertiesProvider) *VersionHandler {
	return &VersionHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Properties())
}
