package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// ScrapeRegistry implements Registry on a private Prometheus registry that
// is exposed over HTTP. Go runtime and process collectors are included.
type ScrapeRegistry struct {
	prom   *prometheus.Registry
	prefix string
}

// ScrapeOption configures a ScrapeRegistry.
type ScrapeOption func(*ScrapeRegistry)

// WithPrefix prepends prefix and an underscore to every metric name, the
// same way RunConfig.Prefix does.
func WithPrefix(prefix string) ScrapeOption {
	return func(r *ScrapeRegistry) {
		r.prefix = prefix
	}
}

// NewScrapeRegistry creates a new ScrapeRegistry.
func NewScrapeRegistry(opts ...ScrapeOption) (*ScrapeRegistry, error) {
	r := &ScrapeRegistry{prom: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.prom.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := r.prom.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}
	return r, nil
}

// Handler serves the registry in the Prometheus text or OpenMetrics format.
func (r *ScrapeRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Value returns the current value of the gauge or counter called name with
// exactly the given labels. The prefix is applied to name.
func (r *ScrapeRegistry) Value(name string, labels prometheus.Labels) (float64, bool) {
	families, err := r.prom.Gather()
	if err != nil {
		return 0, false
	}

	name = r.fullName(name)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if !labelsMatch(m.GetLabel(), labels) {
				continue
			}
			switch {
			case m.Gauge != nil:
				return m.GetGauge().GetValue(), true
			case m.Counter != nil:
				return m.GetCounter().GetValue(), true
			}
		}
	}
	return 0, false
}

func labelsMatch(pairs []*dto.LabelPair, labels prometheus.Labels) bool {
	if len(pairs) != len(labels) {
		return false
	}
	for _, p := range pairs {
		if v, ok := labels[p.GetName()]; !ok || v != p.GetValue() {
			return false
		}
	}
	return true
}

func (r *ScrapeRegistry) fullName(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + "_" + name
}

// NewGauge creates and registers a new Gauge.
func (r *ScrapeRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	opts.Name = r.fullName(opts.Name)
	return register(r.prom, "gauge", opts.Name, prometheus.NewGauge(opts))
}

// NewGaugeVec creates and registers a new GaugeVec.
func (r *ScrapeRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error) {
	opts.Name = r.fullName(opts.Name)
	vec, err := register(r.prom, "gauge vec", opts.Name, prometheus.NewGaugeVec(opts, labels))
	if err != nil {
		return nil, err
	}
	return scrapeGaugeVec{vec}, nil
}

// NewCounter creates and registers a new Counter.
func (r *ScrapeRegistry) NewCounter(opts prometheus.CounterOpts) (Counter, error) {
	opts.Name = r.fullName(opts.Name)
	return register(r.prom, "counter", opts.Name, prometheus.NewCounter(opts))
}

// NewCounterVec creates and registers a new CounterVec.
func (r *ScrapeRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	opts.Name = r.fullName(opts.Name)
	vec, err := register(r.prom, "counter vec", opts.Name, prometheus.NewCounterVec(opts, labels))
	if err != nil {
		return nil, err
	}
	return scrapeCounterVec{vec}, nil
}

// register adds c to reg. Prometheus gauges and counters satisfy Gauge and
// Counter directly, so only the vectors need wrapping.
func register[C prometheus.Collector](reg *prometheus.Registry, kind, name string, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var zero C
		return zero, fmt.Errorf("registering %s %q: %w", kind, name, err)
	}
	return c, nil
}

type scrapeGaugeVec struct {
	vec *prometheus.GaugeVec
}

func (g scrapeGaugeVec) With(labels prometheus.Labels) Gauge {
	return g.vec.With(labels)
}

func (g scrapeGaugeVec) Reset() {
	g.vec.Reset()
}

type scrapeCounterVec struct {
	vec *prometheus.CounterVec
}

func (c scrapeCounterVec) With(labels prometheus.Labels) Counter {
	return c.vec.With(labels)
}
