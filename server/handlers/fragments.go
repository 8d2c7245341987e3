package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/nomis52/signupboard/board"
	"github.com/nomis52/signupboard/server/views"
)

// FragmentHandler renders the activity list as it currently is, without
// contacting the backend. The list polls it when board.poll_interval is set.
type FragmentHandler struct {
	state BoardState
}

// NewFragmentHandler creates a new FragmentHandler.
func NewFragmentHandler(state BoardState) *FragmentHandler {
	return &FragmentHandler{state: state}
}

// ServeHTTP implements http.Handler.
func (h *FragmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.ActivitiesList(h.state.Snapshot())).ServeHTTP(w, r)
}

// HandleMessageFragment renders the empty status area. A showing message
// swaps itself for this once its delay has passed.
func HandleMessageFragment(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.Message(board.Message{}, views.Props{})).ServeHTTP(w, r)
}
