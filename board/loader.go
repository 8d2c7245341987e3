package board

import (
	"context"
	"log/slog"

	"github.com/nomis52/signupboard/activity"
)

// Lister fetches the activity collection.
type Lister interface {
	ListActivities(ctx context.Context) (activity.Collection, error)
}

// Loader rebuilds the activity list and the activity select from the
// backend.
type Loader struct {
	lister  Lister
	list    ActivitiesList
	sel     ActivitySelect
	logger  *slog.Logger
	metrics *Metrics
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used by the Loader.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithLoaderMetrics makes the Loader record load results.
func WithLoaderMetrics(m *Metrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader creates a Loader that renders into list and sel.
func NewLoader(lister Lister, list ActivitiesList, sel ActivitySelect, opts ...LoaderOption) *Loader {
	l := &Loader{
		lister: lister,
		list:   list,
		sel:    sel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "loader")
	return l
}

// Load fetches the activities and replaces the cards and options with them.
//
// On failure the list shows LoadFailedText, the select keeps its previous
// options and the error is logged and returned. There is no retry.
func (l *Loader) Load(ctx context.Context) error {
	collection, err := l.lister.ListActivities(ctx)
	l.metrics.recordLoad(collection, err)
	if err != nil {
		l.logger.Error("error fetching activities", "error", err)
		l.list.ShowNotice(LoadFailedText)
		return err
	}

	cards := make([]Card, 0, len(collection))
	options := make([]Option, 0, len(collection))
	for _, e := range collection {
		cards = append(cards, BuildCard(e))
		options = append(options, BuildOption(e))
	}

	l.list.ShowCards(cards)
	l.sel.SetOptions(options)

	l.logger.Debug("activities rendered", "count", len(cards))
	return nil
}

// BuildCard derives the card for an activity entry.
func BuildCard(e activity.Entry) Card {
	participants := make([]Participant, len(e.Activity.Participants))
	for i, email := range e.Activity.Participants {
		participants[i] = Participant{
			Initials: activity.Initials(email),
			Email:    email,
		}
	}

	return Card{
		Name:         e.Name,
		Description:  e.Activity.Description,
		Schedule:     e.Activity.Schedule,
		SpotsLeft:    e.Activity.SpotsLeft(),
		Participants: participants,
	}
}

// BuildOption derives the select entry for an activity entry.
func BuildOption(e activity.Entry) Option {
	return Option{
		Value: e.Name,
		Label: OptionLabel(e.Name, e.Activity.SpotsLeft()),
	}
}
