package board

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// FormState is what one visitor sees in the signup form and status area.
type FormState struct {
	Email            string  `json:"email"`
	SelectedActivity string  `json:"selected_activity"`
	Message          Message `json:"message"`
}

// Form is one visitor's signup form and status area. It implements
// SignupForm and MessageArea and is safe for concurrent use, since hide
// timers fire on their own goroutine.
type Form struct {
	mu     sync.Mutex
	state  FormState
	logger *slog.Logger
}

// NewForm creates an empty form with no message showing.
func NewForm(logger *slog.Logger) *Form {
	if logger == nil {
		logger = slog.Default()
	}
	return &Form{logger: logger.With("component", "form")}
}

// SetValues fills in the form as a user would before submitting.
func (f *Form) SetValues(email, activityName string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Email = email
	f.state.SelectedActivity = activityName
}

// Values implements SignupForm.
func (f *Form) Values() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state.Email, f.state.SelectedActivity
}

// Reset implements SignupForm.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Email = ""
	f.state.SelectedActivity = ""
}

// Show implements MessageArea. A new message replaces the text and mode of
// any message still showing.
func (f *Form) Show(mode MessageMode, text string) MessageID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Message = Message{
		ID:      MessageID(uuid.NewString()),
		Mode:    mode,
		Text:    text,
		Visible: true,
	}
	return f.state.Message.ID
}

// Hide implements MessageArea. The message is hidden even when id names an
// earlier message; that case is logged as a warning.
func (f *Form) Hide(id MessageID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.state.Message.Visible {
		return
	}
	if id != f.state.Message.ID {
		f.logger.Warn("stale hide timer hid a newer message",
			"timer_message_id", id,
			"message_id", f.state.Message.ID,
		)
	}
	f.state.Message.Visible = false
}

// State returns a copy of the form.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}
