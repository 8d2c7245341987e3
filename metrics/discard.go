package metrics

import "github.com/prometheus/client_golang/prometheus"

// DiscardRegistry implements Registry by dropping every update.
type DiscardRegistry struct{}

// NewGauge returns a Gauge that does nothing.
func (DiscardRegistry) NewGauge(prometheus.GaugeOpts) (Gauge, error) {
	return discardMetric{}, nil
}

// NewGaugeVec returns a GaugeVec that does nothing.
func (DiscardRegistry) NewGaugeVec(prometheus.GaugeOpts, []string) (GaugeVec, error) {
	return discardGaugeVec{}, nil
}

// NewCounter returns a Counter that does nothing.
func (DiscardRegistry) NewCounter(prometheus.CounterOpts) (Counter, error) {
	return discardMetric{}, nil
}

// NewCounterVec returns a CounterVec that does nothing.
func (DiscardRegistry) NewCounterVec(prometheus.CounterOpts, []string) (CounterVec, error) {
	return discardCounterVec{}, nil
}

type discardMetric struct{}

func (discardMetric) Set(float64) {}
func (discardMetric) Inc()        {}
func (discardMetric) Add(float64) {}

type discardGaugeVec struct{}

func (discardGaugeVec) With(prometheus.Labels) Gauge { return discardMetric{} }
func (discardGaugeVec) Reset()                       {}

type discardCounterVec struct{}

func (discardCounterVec) With(prometheus.Labels) Counter { return discardMetric{} }
