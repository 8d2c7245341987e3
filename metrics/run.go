package metrics

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
)

// DefaultPushTimeout bounds the remote write request made by Push.
const DefaultPushTimeout = 30 * time.Second

const remoteWritePath = "/api/v1/write"

// RunConfig configures a RunRegistry.
type RunConfig struct {
	// URL is the base URL of the remote write endpoint, e.g.
	// "http://victoriametrics:8428".
	URL string
	// Prefix is prepended to every metric name, followed by an underscore.
	Prefix string
	// Job and Instance label every series.
	Job      string
	Instance string
	// Timeout bounds Push. Defaults to DefaultPushTimeout.
	Timeout time.Duration
}

// RunRegistry implements Registry for a single CLI run. Updates only change
// values held in memory; Push writes the final value of every series in one
// remote write request.
type RunRegistry struct {
	cfg        RunConfig
	httpClient *http.Client

	mu     sync.Mutex
	series map[string]*runSeries
}

// runSeries is one metric name plus label set.
type runSeries struct {
	name   string
	labels prometheus.Labels
	value  float64
}

// NewRunRegistry creates a RunRegistry that pushes to cfg.URL.
func NewRunRegistry(cfg RunConfig) *RunRegistry {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultPushTimeout
	}
	return &RunRegistry{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		series:     make(map[string]*runSeries),
	}
}

// NewGauge creates a Gauge held until Push.
func (r *RunRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	return runMetric{r: r, name: opts.Name}, nil
}

// NewGaugeVec creates a GaugeVec held until Push.
func (r *RunRegistry) NewGaugeVec(opts prometheus.GaugeOpts, _ []string) (GaugeVec, error) {
	return runGaugeVec{r: r, name: opts.Name}, nil
}

// NewCounter creates a Counter held until Push.
func (r *RunRegistry) NewCounter(opts prometheus.CounterOpts) (Counter, error) {
	return runMetric{r: r, name: opts.Name}, nil
}

// NewCounterVec creates a CounterVec held until Push.
func (r *RunRegistry) NewCounterVec(opts prometheus.CounterOpts, _ []string) (CounterVec, error) {
	return runCounterVec{r: r, name: opts.Name}, nil
}

// update applies f to the value of the series name+labels, creating it at
// zero first.
func (r *RunRegistry) update(name string, labels prometheus.Labels, f func(float64) float64) {
	key := seriesKey(name, labels)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		s = &runSeries{name: name, labels: maps.Clone(labels)}
		r.series[key] = s
	}
	s.value = f(s.value)
}

// drop removes every series of name.
func (r *RunRegistry) drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maps.DeleteFunc(r.series, func(_ string, s *runSeries) bool {
		return s.name == name
	})
}

// WriteRequest builds the remote write request for the current values,
// with series in a stable order.
func (r *RunRegistry) WriteRequest(now time.Time) *prompb.WriteRequest {
	r.mu.Lock()
	series := slices.SortedFunc(maps.Values(r.series), func(a, b *runSeries) int {
		return cmp.Compare(seriesKey(a.name, a.labels), seriesKey(b.name, b.labels))
	})
	r.mu.Unlock()

	req := &prompb.WriteRequest{Timeseries: make([]prompb.TimeSeries, 0, len(series))}
	for _, s := range series {
		req.Timeseries = append(req.Timeseries, prompb.TimeSeries{
			Labels:  r.labels(s),
			Samples: []prompb.Sample{{Value: s.value, Timestamp: now.UnixMilli()}},
		})
	}
	return req
}

func (r *RunRegistry) labels(s *runSeries) []prompb.Label {
	name := s.name
	if r.cfg.Prefix != "" {
		name = r.cfg.Prefix + "_" + name
	}

	labels := []prompb.Label{{Name: "__name__", Value: name}}
	if r.cfg.Job != "" {
		labels = append(labels, prompb.Label{Name: "job", Value: r.cfg.Job})
	}
	if r.cfg.Instance != "" {
		labels = append(labels, prompb.Label{Name: "instance", Value: r.cfg.Instance})
	}
	for _, k := range slices.Sorted(maps.Keys(s.labels)) {
		labels = append(labels, prompb.Label{Name: k, Value: s.labels[k]})
	}
	return labels
}

// Push writes every series to the remote write endpoint. A run that
// recorded nothing sends nothing.
func (r *RunRegistry) Push(ctx context.Context) error {
	req := r.WriteRequest(time.Now())
	if len(req.Timeseries) == 0 {
		return nil
	}

	data, err := proto.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling write request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(r.cfg.URL, "/")+remoteWritePath, bytes.NewReader(snappy.Encode(nil, data)))
	if err != nil {
		return fmt.Errorf("creating remote write request: %w", err)
	}
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pushing %d series: %w", len(req.Timeseries), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote write returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// seriesKey identifies a series independently of label map order.
func seriesKey(name string, labels prometheus.Labels) string {
	var b strings.Builder
	b.WriteString(name)
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		b.WriteString("," + k + "=" + labels[k])
	}
	return b.String()
}

// runMetric serves as both Gauge and Counter; the board never mixes the two
// on one name.
type runMetric struct {
	r      *RunRegistry
	name   string
	labels prometheus.Labels
}

func (m runMetric) Set(v float64) {
	m.r.update(m.name, m.labels, func(float64) float64 { return v })
}

func (m runMetric) Inc() {
	m.Add(1)
}

func (m runMetric) Add(v float64) {
	m.r.update(m.name, m.labels, func(old float64) float64 { return old + v })
}

type runGaugeVec struct {
	r    *RunRegistry
	name string
}

func (v runGaugeVec) With(labels prometheus.Labels) Gauge {
	return runMetric{r: v.r, name: v.name, labels: labels}
}

func (v runGaugeVec) Reset() {
	v.r.drop(v.name)
}

type runCounterVec struct {
	r    *RunRegistry
	name string
}

func (v runCounterVec) With(labels prometheus.Labels) Counter {
	return runMetric{r: v.r, name: v.name, labels: labels}
}
