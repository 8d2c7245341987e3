package board

import (
	"log/slog"
	"slices"
	"sync"
)

// Message is the state of the status area.
type Message struct {
	ID      MessageID   `json:"id,omitempty"`
	Mode    MessageMode `json:"mode,omitempty"`
	Text    string      `json:"text"`
	Visible bool        `json:"visible"`
}

// Snapshot is an immutable copy of the page state.
type Snapshot struct {
	Cards []Card `json:"cards"`
	// Notice replaces the cards when set.
	Notice string `json:"notice,omitempty"`
	// Options always starts with PlaceholderOption.
	Options []Option `json:"options"`
	FormState
}

// WithForm returns s showing form in place of the page's own form.
func (s Snapshot) WithForm(form FormState) Snapshot {
	s.FormState = form
	return s
}

// Page is an in-memory view implementing every element handle. The
// activity list and select are held here; the form and status area come
// from the embedded Form.
//
// Each method is atomic; Page is safe for concurrent use.
type Page struct {
	*Form

	mu      sync.Mutex
	cards   []Card
	notice  string
	options []Option
}

// NewPage creates an empty page. Until the first load the activity list is
// empty and the select holds only the placeholder.
func NewPage(logger *slog.Logger) *Page {
	if logger == nil {
		logger = slog.Default()
	}
	return &Page{
		Form:    NewForm(logger),
		options: []Option{PlaceholderOption},
	}
}

// ShowCards implements ActivitiesList.
func (p *Page) ShowCards(cards []Card) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cards = slices.Clone(cards)
	p.notice = ""
}

// ShowNotice implements ActivitiesList.
func (p *Page) ShowNotice(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cards = nil
	p.notice = text
}

// SetOptions implements ActivitySelect.
func (p *Page) SetOptions(options []Option) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.options = make([]Option, 0, len(options)+1)
	p.options = append(p.options, PlaceholderOption)
	p.options = append(p.options, options...)
}

// Snapshot returns a copy of the current state.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	cards := make([]Card, len(p.cards))
	for i, c := range p.cards {
		c.Participants = slices.Clone(c.Participants)
		cards[i] = c
	}

	return Snapshot{
		Cards:     cards,
		Notice:    p.notice,
		Options:   slices.Clone(p.options),
		FormState: p.Form.State(),
	}
}
