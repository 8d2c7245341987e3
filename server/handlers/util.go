package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"
	"github.com/nomis52/signupboard/board"
	"github.com/nomis52/signupboard/config"
	"github.com/nomis52/signupboard/server/views"
)

// htmxRequestHeader is set by HTMX on the requests it makes.
const htmxRequestHeader = "HX-Request"

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// isHTMX reports whether r was made by HTMX and only needs the board.
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(htmxRequestHeader), "true")
}

func viewProps(r *http.Request, cfg *config.Config) views.Props {
	return views.Props{
		// TemplateField is empty when the CSRF middleware is not installed.
		CSRFField:        string(csrf.TemplateField(r)),
		HideMessageAfter: cfg.Board.MessageHideAfter,
		PollInterval:     cfg.Board.PollInterval,
	}
}

// renderBoard writes the full page, or just the board for HTMX requests.
func renderBoard(w http.ResponseWriter, r *http.Request, s board.Snapshot, props views.Props) {
	var c templ.Component
	if isHTMX(r) {
		c = views.Board(s, props)
	} else {
		c = views.Page(s, props)
	}
	w.Header().Add("Vary", htmxRequestHeader)
	templ.Handler(c).ServeHTTP(w, r)
}
