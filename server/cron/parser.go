package cron

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

const scheduleSeparator = ";"

// parser accepts the standard 5 field format: minute, hour, day of month,
// month, day of week.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ErrInvalidCronSpec is returned when a schedule cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// ParseSchedules splits a refresh schedule into its cron expressions.
// Expressions are separated by semicolons:
//
//	"*/15 8-17 * * 1-5;0 12 * * 6,0"
//
// Empty entries (e.g. a trailing semicolon) are skipped. It is an error for
// the schedule to contain no expression, an unparseable expression or the same
// expression twice.
func ParseSchedules(spec string) ([]string, error) {
	var schedules []string
	for _, s := range strings.Split(spec, scheduleSeparator) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if slices.Contains(schedules, s) {
			return nil, fmt.Errorf("%w: duplicate schedule %q", ErrInvalidCronSpec, s)
		}
		if _, err := parser.Parse(s); err != nil {
			return nil, errors.Join(ErrInvalidCronSpec, fmt.Errorf("schedule %q: %w", s, err))
		}
		schedules = append(schedules, s)
	}

	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: no schedule in %q", ErrInvalidCronSpec, spec)
	}
	return schedules, nil
}
