package handlers

import (
	"net/http"

	"github.com/nomis52/signupboard/board"
)

// PageHandler serves the board. Every request reloads the activities
// first, the way opening the page does, and starts with an empty form.
type PageHandler struct {
	loader BoardLoader
	state  BoardState
	config ConfigProvider
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(loader BoardLoader, state BoardState, config ConfigProvider) *PageHandler {
	return &PageHandler{
		loader: loader,
		state:  state,
		config: config,
	}
}

// ServeHTTP implements http.Handler.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A failed load is logged by the loader and shown on the board.
	_ = h.loader.Load(r.Context())
	snapshot := h.state.Snapshot().WithForm(board.FormState{})
	renderBoard(w, r, snapshot, viewProps(r, h.config.Config()))
}
