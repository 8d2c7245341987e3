package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager runs one RunFunc on several schedules.
type Manager struct {
	triggers []*Trigger
	logger   *slog.Logger
}

// NewManager creates a Trigger for every schedule in spec, see
// ParseSchedules for the format.
func NewManager(spec string, run RunFunc, logger *slog.Logger) (*Manager, error) {
	logger = logger.With("component", "cron")

	schedules, err := ParseSchedules(spec)
	if err != nil {
		return nil, err
	}

	triggers := make([]*Trigger, 0, len(schedules))
	for _, s := range schedules {
		trigger, err := NewTrigger(s, run, logger)
		if err != nil {
			return nil, fmt.Errorf("creating trigger for %q: %w", s, err)
		}
		triggers = append(triggers, trigger)
		logger.Info("trigger registered", "schedule", s, "next_run", trigger.NextRun())
	}

	return &Manager{
		triggers: triggers,
		logger:   logger,
	}, nil
}

// Start launches all triggers. Returns immediately; the triggers stop when
// ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	for _, trigger := range m.triggers {
		trigger.Start(ctx)
	}
}

// NextRun returns the earliest scheduled run time across all triggers, or
// the zero time if there are none.
func (m *Manager) NextRun() time.Time {
	var earliest time.Time
	for _, trigger := range m.triggers {
		next := trigger.NextRun()
		if earliest.IsZero() || next.Before(earliest) {
			earliest = next
		}
	}
	return earliest
}
