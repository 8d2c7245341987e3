package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/signupboard/board"
)

// SignupHandler handles the signup form post. Each request gets its own
// form, so the values and the resulting message are only ever rendered
// back to the visitor who posted them.
type SignupHandler struct {
	logger    *slog.Logger
	state     BoardState
	submitter SignupSubmitter
	config    ConfigProvider
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(logger *slog.Logger, state BoardState, submitter SignupSubmitter, config ConfigProvider) *SignupHandler {
	return &SignupHandler{
		logger:    logger,
		state:     state,
		submitter: submitter,
		config:    config,
	}
}

// ServeHTTP implements http.Handler. The outcome is reported in the
// message area, so the response is always 200 once the form parses.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("invalid signup form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := board.NewForm(h.logger)
	form.SetValues(r.PostForm.Get("email"), r.PostForm.Get("activity"))
	outcome := h.submitter.Submit(r.Context(), form)

	h.logger.Debug("signup submitted", "outcome", outcome)
	snapshot := h.state.Snapshot().WithForm(form.State())
	renderBoard(w, r, snapshot, viewProps(r, h.config.Config()))
}
