package handlers

import (
	"net/http"

	"github.com/nomis52/signupboard/logging"
)

// EventsResponse lists recent log entries.
type EventsResponse struct {
	Events []logging.LogEntry `json:"events"`
}

// EventsHandler returns recently logged events, optionally limited to one
// component with ?component=.
type EventsHandler struct {
	source EventSource
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(source EventSource) *EventsHandler {
	return &EventsHandler{source: source}
}

// ServeHTTP implements http.Handler.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, EventsResponse{
		Events: h.source.Entries(r.URL.Query().Get("component")),
	})
}
