package board

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nomis52/signupboard/clients/activityclient"
	"github.com/stretchr/testify/require"
)

const chessClubJSON = `{
	"Chess Club": {
		"description": "Learn strategies and compete in chess tournaments",
		"schedule": "Fridays, 3:30 PM - 5:00 PM",
		"max_participants": 12,
		"participants": ["michael@mergington.edu", "daniel@mergington.edu", "sophia.lee@mergington.edu"]
	},
	"Art Club": {
		"description": "Painting & <sculpture>",
		"schedule": "Wednesdays",
		"max_participants": 2,
		"participants": []
	}
}`

// backend is a fake activities API.
type backend struct {
	server *httptest.Server

	mu           sync.Mutex
	listStatus   int
	listBody     string
	signupStatus int
	signupBody   string
	signupURIs   []string

	lists atomic.Int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{
		listStatus:   http.StatusOK,
		listBody:     chessClubJSON,
		signupStatus: http.StatusOK,
		signupBody:   `{"message":"Signed up!"}`,
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serveHTTP))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/activities":
		b.lists.Add(1)
		w.WriteHeader(b.listStatus)
		_, _ = io.WriteString(w, b.listBody)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/signup"):
		b.signupURIs = append(b.signupURIs, r.RequestURI)
		w.WriteHeader(b.signupStatus)
		_, _ = io.WriteString(w, b.signupBody)
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) setList(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listStatus, b.listBody = status, body
}

func (b *backend) setSignup(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signupStatus, b.signupBody = status, body
}

func (b *backend) client(t *testing.T) *activityclient.Client {
	t.Helper()
	c, err := activityclient.New(b.server.URL, activityclient.WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

// timers collects hide timers instead of scheduling them.
type timers struct {
	mu    sync.Mutex
	delay []time.Duration
	funcs []func()
}

func (ts *timers) afterFunc(d time.Duration, f func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.delay = append(ts.delay, d)
	ts.funcs = append(ts.funcs, f)
}

func (ts *timers) fire(i int) {
	ts.mu.Lock()
	f := ts.funcs[i]
	ts.mu.Unlock()
	f()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
