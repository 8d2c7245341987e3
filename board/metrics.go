package board

import (
	"fmt"

	"github.com/nomis52/signupboard/activity"
	"github.com/nomis52/signupboard/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Load results.
const (
	loadResultSuccess = "success"
	loadResultFailure = "failure"
)

// Metrics records board activity. A nil *Metrics records nothing.
type Metrics struct {
	loads      metrics.CounterVec
	signups    metrics.CounterVec
	activities metrics.Gauge
	spotsLeft  metrics.GaugeVec
}

// NewMetrics registers the board metrics with registry.
func NewMetrics(registry metrics.Registry) (*Metrics, error) {
	loads, err := registry.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_loads_total",
		Help: "Activity loads by result.",
	}, []string{"result"})
	if err != nil {
		return nil, fmt.Errorf("creating loads counter: %w", err)
	}

	signups, err := registry.NewCounterVec(prometheus.CounterOpts{
		Name: "signups_total",
		Help: "Signup attempts by outcome.",
	}, []string{"outcome"})
	if err != nil {
		return nil, fmt.Errorf("creating signups counter: %w", err)
	}

	activities, err := registry.NewGauge(prometheus.GaugeOpts{
		Name: "activities",
		Help: "Number of activities in the last successful load.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating activities gauge: %w", err)
	}

	spotsLeft, err := registry.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_spots_left",
		Help: "Remaining capacity per activity in the last successful load.",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("creating spots left gauge: %w", err)
	}

	return &Metrics{
		loads:      loads,
		signups:    signups,
		activities: activities,
		spotsLeft:  spotsLeft,
	}, nil
}

func (m *Metrics) recordLoad(collection activity.Collection, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.loads.With(prometheus.Labels{"result": loadResultFailure}).Inc()
		return
	}
	m.loads.With(prometheus.Labels{"result": loadResultSuccess}).Inc()
	m.activities.Set(float64(len(collection)))
	// Activities the backend no longer lists stop being exported.
	m.spotsLeft.Reset()
	for _, e := range collection {
		m.spotsLeft.With(prometheus.Labels{"activity": e.Name}).Set(float64(e.Activity.SpotsLeft()))
	}
}

func (m *Metrics) recordSignup(outcome Outcome) {
	if m == nil {
		return
	}
	m.signups.With(prometheus.Labels{"outcome": string(outcome)}).Inc()
}
