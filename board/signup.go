package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nomis52/signupboard/activity"
	"github.com/nomis52/signupboard/clients/activityclient"
)

// DefaultHideAfter is how long a status message stays visible.
const DefaultHideAfter = 5 * time.Second

// Outcome is the result of a signup attempt.
type Outcome string

const (
	// OutcomeSuccess means the backend accepted the signup.
	OutcomeSuccess Outcome = "success"
	// OutcomeRejected means the backend answered with an error status.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means no usable answer was obtained.
	OutcomeFailed Outcome = "failed"
)

// Signer registers an email for an activity.
type Signer interface {
	Signup(ctx context.Context, req activity.SignupRequest) (activity.SignupResult, error)
}

// Reloader refreshes the activity view.
type Reloader interface {
	Load(ctx context.Context) error
}

// AfterFunc runs f after d has elapsed. It matches time.AfterFunc minus the
// returned timer, since hide timers are never stopped.
type AfterFunc func(d time.Duration, f func())

func defaultAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// SignupHandler submits the signup form and reports the result.
type SignupHandler struct {
	signer    Signer
	form      SignupForm
	message   MessageArea
	reloader  Reloader
	hideAfter time.Duration
	afterFunc AfterFunc
	logger    *slog.Logger
	metrics   *Metrics
}

// SignupOption configures a SignupHandler.
type SignupOption func(*SignupHandler)

// WithHideAfter sets how long messages stay visible.
func WithHideAfter(d time.Duration) SignupOption {
	return func(h *SignupHandler) {
		h.hideAfter = d
	}
}

// WithAfterFunc replaces the function used to schedule hide timers.
func WithAfterFunc(f AfterFunc) SignupOption {
	return func(h *SignupHandler) {
		h.afterFunc = f
	}
}

// WithSignupLogger sets the logger used by the SignupHandler.
func WithSignupLogger(logger *slog.Logger) SignupOption {
	return func(h *SignupHandler) {
		h.logger = logger
	}
}

// WithSignupMetrics makes the SignupHandler record outcomes.
func WithSignupMetrics(m *Metrics) SignupOption {
	return func(h *SignupHandler) {
		h.metrics = m
	}
}

// NewSignupHandler creates a SignupHandler. reloader is run once after every
// successful signup.
func NewSignupHandler(signer Signer, form SignupForm, message MessageArea, reloader Reloader, opts ...SignupOption) *SignupHandler {
	h := &SignupHandler{
		signer:    signer,
		form:      form,
		message:   message,
		reloader:  reloader,
		hideAfter: DefaultHideAfter,
		afterFunc: defaultAfterFunc,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "signup")
	return h
}

// Submit signs up with the values currently in the handler's form and
// reports the outcome in its message area.
func (h *SignupHandler) Submit(ctx context.Context) Outcome {
	return h.SubmitForm(ctx, h.form, h.message)
}

// SubmitForm signs up with the values in form and reports the outcome in
// message.
//
// Every outcome shows a message that is hidden after the configured delay.
// On success the form is cleared and the activities are reloaded exactly
// once, after the response has been decoded. Concurrent submits are not
// guarded against.
func (h *SignupHandler) SubmitForm(ctx context.Context, form SignupForm, message MessageArea) Outcome {
	email, activityName := form.Values()

	result, err := h.signer.Signup(ctx, activity.SignupRequest{
		Activity: activityName,
		Email:    email,
	})

	outcome := OutcomeSuccess
	var appErr *activityclient.ApplicationError
	switch {
	case err == nil:
		h.show(message, ModeSuccess, result.Message)
		form.Reset()
		h.logger.Info("signup succeeded", "activity", activityName)
		// A failed reload is reported by the loader itself.
		_ = h.reloader.Load(ctx)

	case errors.As(err, &appErr):
		outcome = OutcomeRejected
		text := appErr.Detail
		if text == "" {
			text = GenericErrorText
		}
		h.show(message, ModeError, text)
		h.logger.Warn("signup rejected", "activity", activityName, "status", appErr.StatusCode, "error", err)

	default:
		outcome = OutcomeFailed
		h.show(message, ModeError, SignupFailedText)
		h.logger.Error("error signing up", "activity", activityName, "error", err)
	}

	h.metrics.recordSignup(outcome)
	return outcome
}

// show displays a message and schedules its hide timer.
func (h *SignupHandler) show(message MessageArea, mode MessageMode, text string) {
	id := message.Show(mode, text)
	h.afterFunc(h.hideAfter, func() {
		message.Hide(id)
	})
}
