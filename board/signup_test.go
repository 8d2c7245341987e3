package board

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/nomis52/signupboard/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupFixture struct {
	backend *backend
	page    *Page
	timers  *timers
	handler *SignupHandler
}

func newSignupFixture(t *testing.T, opts ...SignupOption) *signupFixture {
	t.Helper()
	b := newBackend(t)
	client := b.client(t)
	page := NewPage(discardLogger())
	loader := NewLoader(client, page, page, WithLoaderLogger(discardLogger()))
	require.NoError(t, loader.Load(context.Background()))

	ts := &timers{}
	opts = append([]SignupOption{WithAfterFunc(ts.afterFunc), WithSignupLogger(discardLogger())}, opts...)
	return &signupFixture{
		backend: b,
		page:    page,
		timers:  ts,
		handler: NewSignupHandler(client, page, page, loader, opts...),
	}
}

func TestSignupHandler_Success(t *testing.T) {
	f := newSignupFixture(t)
	f.page.SetValues("jane.doe@example.com", "Chess Club")

	outcome := f.handler.Submit(context.Background())
	assert.Equal(t, OutcomeSuccess, outcome)

	snap := f.page.Snapshot()
	assert.Equal(t, Message{ID: snap.Message.ID, Mode: ModeSuccess, Text: "Signed up!", Visible: true}, snap.Message)
	assert.Empty(t, snap.Email)
	assert.Empty(t, snap.SelectedActivity)

	// One load at setup, one after the signup.
	assert.Equal(t, int32(2), f.backend.lists.Load())
	assert.Equal(t, []string{"/activities/Chess%20Club/signup?email=jane.doe%40example.com"}, f.backend.signupURIs)
}

func TestSignupHandler_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Student is already signed up"}`, "Student is already signed up"},
		{"no detail", `{}`, GenericErrorText},
		{"non string detail", `{"detail":[{"msg":"field required"}]}`, GenericErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignupFixture(t)
			f.backend.setSignup(http.StatusBadRequest, tt.body)
			f.page.SetValues("michael@mergington.edu", "Chess Club")

			assert.Equal(t, OutcomeRejected, f.handler.Submit(context.Background()))

			snap := f.page.Snapshot()
			assert.Equal(t, ModeError, snap.Message.Mode)
			assert.Equal(t, tt.want, snap.Message.Text)
			assert.True(t, snap.Message.Visible)
			// The form keeps its values and nothing is reloaded.
			assert.Equal(t, "michael@mergington.edu", snap.Email)
			assert.Equal(t, "Chess Club", snap.SelectedActivity)
			assert.Equal(t, int32(1), f.backend.lists.Load())
		})
	}
}

func TestSignupHandler_TransportFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *signupFixture)
	}{
		{"unreachable", func(f *signupFixture) { f.backend.server.Close() }},
		{"not json", func(f *signupFixture) { f.backend.setSignup(http.StatusOK, "Signed up!") }},
		{"error status without json", func(f *signupFixture) { f.backend.setSignup(http.StatusBadGateway, "<html>bad gateway</html>") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignupFixture(t)
			f.page.SetValues("jane@example.com", "Chess Club")
			tt.setup(f)

			assert.Equal(t, OutcomeFailed, f.handler.Submit(context.Background()))

			msg := f.page.Snapshot().Message
			assert.Equal(t, ModeError, msg.Mode)
			assert.Equal(t, SignupFailedText, msg.Text)
		})
	}
}

func TestSignupHandler_HideTimer(t *testing.T) {
	f := newSignupFixture(t, WithHideAfter(2*time.Second))
	f.page.SetValues("jane@example.com", "Chess Club")

	f.handler.Submit(context.Background())
	require.Len(t, f.timers.funcs, 1)
	assert.Equal(t, 2*time.Second, f.timers.delay[0])
	assert.True(t, f.page.Snapshot().Message.Visible)

	f.timers.fire(0)
	msg := f.page.Snapshot().Message
	assert.False(t, msg.Visible)
	assert.Equal(t, "Signed up!", msg.Text)
}

func TestSignupHandler_StaleTimerHidesNewerMessage(t *testing.T) {
	var buf bytes.Buffer
	f := newSignupFixture(t)
	f.page = NewPage(slog.New(slog.NewTextHandler(&buf, nil)))
	f.handler.message = f.page
	f.handler.form = f.page

	f.backend.setSignup(http.StatusBadRequest, `{"detail":"Student is already signed up"}`)
	f.page.SetValues("michael@mergington.edu", "Chess Club")
	f.handler.Submit(context.Background())

	f.backend.setSignup(http.StatusOK, `{"message":"Signed up!"}`)
	f.page.SetValues("jane@example.com", "Chess Club")
	f.handler.Submit(context.Background())
	require.Len(t, f.timers.funcs, 2)

	// The first timer fires while the second message is still showing.
	f.timers.fire(0)
	msg := f.page.Snapshot().Message
	assert.Equal(t, "Signed up!", msg.Text)
	assert.False(t, msg.Visible)
	assert.Contains(t, buf.String(), "stale hide timer hid a newer message")
}

func TestSignupHandler_DefaultHideAfter(t *testing.T) {
	f := newSignupFixture(t)
	f.page.SetValues("jane@example.com", "Chess Club")
	f.handler.Submit(context.Background())

	require.Len(t, f.timers.delay, 1)
	assert.Equal(t, DefaultHideAfter, f.timers.delay[0])
}

func TestSignupHandler_RecordsMetrics(t *testing.T) {
	registry, err := metrics.NewScrapeRegistry()
	require.NoError(t, err)
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	f := newSignupFixture(t, WithSignupMetrics(m))
	f.page.SetValues("jane@example.com", "Chess Club")
	f.handler.Submit(context.Background())

	f.backend.setSignup(http.StatusBadRequest, `{"detail":"full"}`)
	f.handler.Submit(context.Background())
	f.handler.Submit(context.Background())

	for outcome, want := range map[Outcome]float64{OutcomeSuccess: 1, OutcomeRejected: 2} {
		v, ok := registry.Value("signups_total", prometheus.Labels{"outcome": string(outcome)})
		require.True(t, ok, outcome)
		assert.Equal(t, want, v, outcome)
	}
	_, ok := registry.Value("signups_total", prometheus.Labels{"outcome": string(OutcomeFailed)})
	assert.False(t, ok)
}

func TestSignupHandler_SubmitFormKeepsVisitorsApart(t *testing.T) {
	f := newSignupFixture(t)
	f.backend.setSignup(http.StatusBadRequest, `{"detail":"Student is already signed up"}`)

	form := NewForm(discardLogger())
	form.SetValues("michael@mergington.edu", "Chess Club")
	assert.Equal(t, OutcomeRejected, f.handler.SubmitForm(context.Background(), form, form))

	state := form.State()
	assert.Equal(t, "michael@mergington.edu", state.Email)
	assert.Equal(t, "Student is already signed up", state.Message.Text)
	assert.True(t, state.Message.Visible)

	// The shared page saw neither the values nor the message.
	snap := f.page.Snapshot()
	assert.Empty(t, snap.Email)
	assert.Empty(t, snap.SelectedActivity)
	assert.False(t, snap.Message.Visible)
	assert.Empty(t, snap.Message.Text)

	// The hide timer targets the visitor's form.
	f.timers.fire(0)
	assert.False(t, form.State().Message.Visible)
}

func TestSignupHandler_SubmitFormReloadsSharedList(t *testing.T) {
	f := newSignupFixture(t)
	f.backend.setList(http.StatusOK, `{"Chess Club":{"description":"d","schedule":"s","max_participants":12,"participants":["jane@example.com"]}}`)

	form := NewForm(discardLogger())
	form.SetValues("jane@example.com", "Chess Club")
	assert.Equal(t, OutcomeSuccess, f.handler.SubmitForm(context.Background(), form, form))

	assert.Empty(t, form.State().Email)
	snap := f.page.Snapshot()
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, 11, snap.Cards[0].SpotsLeft)
}
