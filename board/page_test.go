package board

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	page := NewPage(nil)
	snap := page.Snapshot()

	assert.Empty(t, snap.Cards)
	assert.Empty(t, snap.Notice)
	assert.Equal(t, []Option{PlaceholderOption}, snap.Options)
	assert.False(t, snap.Message.Visible)
}

func TestPage_ShowNoticeReplacesCards(t *testing.T) {
	page := NewPage(discardLogger())
	page.ShowCards([]Card{{Name: "Chess Club"}})
	page.ShowNotice(LoadFailedText)

	snap := page.Snapshot()
	assert.Empty(t, snap.Cards)
	assert.Equal(t, LoadFailedText, snap.Notice)

	page.ShowCards([]Card{{Name: "Art Club"}})
	snap = page.Snapshot()
	assert.Empty(t, snap.Notice)
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, "Art Club", snap.Cards[0].Name)
}

func TestPage_SetOptionsKeepsPlaceholderFirst(t *testing.T) {
	page := NewPage(discardLogger())
	page.SetOptions([]Option{{Value: "a", Label: "a (1 spots left)"}})
	page.SetOptions([]Option{{Value: "b", Label: "b (2 spots left)"}})

	assert.Equal(t, []Option{PlaceholderOption, {Value: "b", Label: "b (2 spots left)"}}, page.Snapshot().Options)
}

func TestPage_FormValues(t *testing.T) {
	page := NewPage(discardLogger())
	page.SetValues("jane@example.com", "Chess Club")

	email, name := page.Values()
	assert.Equal(t, "jane@example.com", email)
	assert.Equal(t, "Chess Club", name)

	page.Reset()
	email, name = page.Values()
	assert.Empty(t, email)
	assert.Empty(t, name)
}

func TestPage_ShowAndHide(t *testing.T) {
	page := NewPage(discardLogger())

	id := page.Show(ModeSuccess, "Signed up!")
	msg := page.Snapshot().Message
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, ModeSuccess, msg.Mode)
	assert.Equal(t, "Signed up!", msg.Text)
	assert.True(t, msg.Visible)

	page.Hide(id)
	msg = page.Snapshot().Message
	assert.False(t, msg.Visible)
	assert.Equal(t, "Signed up!", msg.Text)
}

func TestPage_StaleHideIsLogged(t *testing.T) {
	var buf bytes.Buffer
	page := NewPage(slog.New(slog.NewTextHandler(&buf, nil)))

	first := page.Show(ModeError, "Already signed up")
	second := page.Show(ModeSuccess, "Signed up!")
	require.NotEqual(t, first, second)

	page.Hide(first)
	assert.False(t, page.Snapshot().Message.Visible)
	assert.Contains(t, buf.String(), "stale hide timer hid a newer message")
	assert.Contains(t, buf.String(), "level=WARN")

	// Hiding an already hidden message is a no-op.
	buf.Reset()
	page.Hide(second)
	assert.Empty(t, buf.String())
}

func TestPage_SnapshotIsACopy(t *testing.T) {
	page := NewPage(discardLogger())
	page.ShowCards([]Card{{Name: "Chess Club", Participants: []Participant{{Initials: "MI", Email: "michael@mergington.edu"}}}})

	snap := page.Snapshot()
	snap.Cards[0].Participants[0].Email = "changed"
	snap.Options[0].Label = "changed"

	again := page.Snapshot()
	assert.Equal(t, "michael@mergington.edu", again.Cards[0].Participants[0].Email)
	assert.Equal(t, PlaceholderOptionLabel, again.Options[0].Label)
}

func TestSnapshot_WithForm(t *testing.T) {
	page := NewPage(discardLogger())
	page.ShowCards([]Card{{Name: "Chess Club"}})
	page.SetValues("shared@example.com", "Chess Club")

	form := NewForm(discardLogger())
	form.SetValues("jane@example.com", "")
	form.Show(ModeError, "Failed to sign up. Please try again.")

	snap := page.Snapshot().WithForm(form.State())
	assert.Len(t, snap.Cards, 1)
	assert.Equal(t, "jane@example.com", snap.Email)
	assert.Empty(t, snap.SelectedActivity)
	assert.Equal(t, ModeError, snap.Message.Mode)

	empty := page.Snapshot().WithForm(FormState{})
	assert.Empty(t, empty.Email)
	assert.False(t, empty.Message.Visible)
}
