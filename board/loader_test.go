package board

import (
	"context"
	"net/http"
	"testing"

	"github.com/nomis52/signupboard/activity"
	"github.com/nomis52/signupboard/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	b := newBackend(t)
	page := NewPage(discardLogger())
	loader := NewLoader(b.client(t), page, page, WithLoaderLogger(discardLogger()))

	require.NoError(t, loader.Load(context.Background()))

	snap := page.Snapshot()
	require.Len(t, snap.Cards, 2)
	require.Len(t, snap.Options, 3)

	chess := snap.Cards[0]
	assert.Equal(t, "Chess Club", chess.Name)
	assert.Equal(t, 9, chess.SpotsLeft)
	require.Len(t, chess.Participants, 3)
	assert.Equal(t, Participant{Initials: "SL", Email: "sophia.lee@mergington.edu"}, chess.Participants[2])

	assert.Equal(t, PlaceholderOption, snap.Options[0])
	assert.Equal(t, Option{Value: "Chess Club", Label: "Chess Club (9 spots left)"}, snap.Options[1])
	assert.Equal(t, Option{Value: "Art Club", Label: "Art Club (2 spots left)"}, snap.Options[2])

	html := CardHTML(snap.Cards[1])
	assert.Contains(t, html, "Painting &amp; &lt;sculpture&gt;")
	assert.Contains(t, html, NoParticipantsText)
}

func TestLoader_LoadTwiceDoesNotDuplicate(t *testing.T) {
	b := newBackend(t)
	page := NewPage(discardLogger())
	loader := NewLoader(b.client(t), page, page)

	require.NoError(t, loader.Load(context.Background()))
	require.NoError(t, loader.Load(context.Background()))

	snap := page.Snapshot()
	assert.Len(t, snap.Cards, 2)
	assert.Len(t, snap.Options, 3)
	assert.Equal(t, int32(2), b.lists.Load())
}

func TestLoader_NegativeSpots(t *testing.T) {
	b := newBackend(t)
	b.setList(http.StatusOK, `{"Full":{"description":"d","schedule":"s","max_participants":1,"participants":["a@x.com","b@x.com","c@x.com"]}}`)
	page := NewPage(discardLogger())

	require.NoError(t, NewLoader(b.client(t), page, page).Load(context.Background()))

	snap := page.Snapshot()
	assert.Equal(t, -2, snap.Cards[0].SpotsLeft)
	assert.Equal(t, "Full (-2 spots left)", snap.Options[1].Label)
}

func TestLoader_EmptyCollection(t *testing.T) {
	b := newBackend(t)
	b.setList(http.StatusOK, `{}`)
	page := NewPage(discardLogger())

	require.NoError(t, NewLoader(b.client(t), page, page).Load(context.Background()))

	snap := page.Snapshot()
	assert.Empty(t, snap.Cards)
	assert.Empty(t, snap.Notice)
	assert.Equal(t, []Option{PlaceholderOption}, snap.Options)
}

func TestLoader_Failure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"not json", http.StatusOK, `<html>`},
		{"wrong shape", http.StatusOK, `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			page := NewPage(discardLogger())
			loader := NewLoader(b.client(t), page, page, WithLoaderLogger(discardLogger()))
			require.NoError(t, loader.Load(context.Background()))

			b.setList(tt.status, tt.body)
			require.Error(t, loader.Load(context.Background()))

			snap := page.Snapshot()
			assert.Empty(t, snap.Cards)
			assert.Equal(t, LoadFailedText, snap.Notice)
			// The select keeps the options of the last successful load.
			assert.Len(t, snap.Options, 3)
		})
	}
}

func TestLoader_RecordsMetrics(t *testing.T) {
	b := newBackend(t)
	registry, err := metrics.NewScrapeRegistry()
	require.NoError(t, err)
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	page := NewPage(discardLogger())
	loader := NewLoader(b.client(t), page, page, WithLoaderMetrics(m))

	require.NoError(t, loader.Load(context.Background()))
	b.setList(http.StatusBadGateway, "")
	require.Error(t, loader.Load(context.Background()))

	for _, result := range []string{"success", "failure"} {
		v, ok := registry.Value("activity_loads_total", prometheus.Labels{"result": result})
		require.True(t, ok, result)
		assert.Equal(t, 1.0, v, result)
	}

	v, ok := registry.Value("activities", nil)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = registry.Value("activity_spots_left", prometheus.Labels{"activity": "Chess Club"})
	require.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestLoader_DroppedActivityStopsExporting(t *testing.T) {
	b := newBackend(t)
	registry, err := metrics.NewScrapeRegistry()
	require.NoError(t, err)
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	page := NewPage(discardLogger())
	loader := NewLoader(b.client(t), page, page, WithLoaderMetrics(m))
	require.NoError(t, loader.Load(context.Background()))

	_, ok := registry.Value("activity_spots_left", prometheus.Labels{"activity": "Art Club"})
	require.True(t, ok)

	b.setList(http.StatusOK, `{"Chess Club":{"description":"d","schedule":"s","max_participants":12,"participants":[]}}`)
	require.NoError(t, loader.Load(context.Background()))

	_, ok = registry.Value("activity_spots_left", prometheus.Labels{"activity": "Art Club"})
	assert.False(t, ok)
	v, ok := registry.Value("activity_spots_left", prometheus.Labels{"activity": "Chess Club"})
	require.True(t, ok)
	assert.Equal(t, 12.0, v)

	// A failed load keeps the last exported values.
	b.setList(http.StatusBadGateway, "")
	require.Error(t, loader.Load(context.Background()))
	_, ok = registry.Value("activity_spots_left", prometheus.Labels{"activity": "Chess Club"})
	assert.True(t, ok)
}

func TestBuildCard(t *testing.T) {
	card := BuildCard(activity.Entry{
		Name: "Gym Class",
		Activity: activity.Activity{
			Description:     "Physical education",
			Schedule:        "Mondays",
			MaxParticipants: 30,
			Participants:    []string{"john_smith@mergington.edu"},
		},
	})

	assert.Equal(t, 29, card.SpotsLeft)
	assert.Equal(t, []Participant{{Initials: "JS", Email: "john_smith@mergington.edu"}}, card.Participants)
}
