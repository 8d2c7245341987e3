package handlers

import "net/http"

// BoardJSONHandler returns the board state as JSON.
type BoardJSONHandler struct {
	state BoardState
}

// NewBoardJSONHandler creates a new BoardJSONHandler.
func NewBoardJSONHandler(state BoardState) *BoardJSONHandler {
	return &BoardJSONHandler{state: state}
}

// ServeHTTP implements http.Handler.
func (h *BoardJSONHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}
