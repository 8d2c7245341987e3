// Package cron runs a function on one or more cron schedules.
//
// The server uses it to refresh the activity board in the background:
//
//	manager, err := cron.NewManager("*/5 * * * *", loader.Load, logger)
//	if err != nil {
//	    return err
//	}
//	manager.Start(ctx)  // Returns immediately, runs in background
//	<-ctx.Done()        // Wait for shutdown signal
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is the work a trigger performs. An error is logged and the
// trigger keeps its schedule.
type RunFunc func(ctx context.Context) error

// Trigger calls a RunFunc according to a single cron schedule.
type Trigger struct {
	spec     string
	schedule cron.Schedule
	run      RunFunc
	logger   *slog.Logger
}

// NewTrigger creates a Trigger for spec. Returns ErrInvalidCronSpec if the
// specification cannot be parsed.
func NewTrigger(spec string, run RunFunc, logger *slog.Logger) (*Trigger, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}

	return &Trigger{
		spec:     spec,
		schedule: schedule,
		run:      run,
		logger:   logger.With("schedule", spec),
	}, nil
}

// Start launches a goroutine that calls the RunFunc on schedule.
// Returns immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled run time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(time.Now())
		wait := time.Until(nextRun)

		t.logger.Debug("waiting for next scheduled run",
			"next_run", nextRun,
			"wait_duration", wait,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("cron trigger shutting down")
			return
		case <-timer.C:
			t.execute(ctx)
		}
	}
}

func (t *Trigger) execute(ctx context.Context) {
	t.logger.Info("starting scheduled run")

	if err := t.run(ctx); err != nil {
		t.logger.Warn("scheduled run completed with error", "error", err)
		return
	}
	t.logger.Info("scheduled run completed successfully")
}
