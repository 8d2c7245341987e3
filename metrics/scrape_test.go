package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeRegistry_Handler(t *testing.T) {
	registry, err := NewScrapeRegistry()
	require.NoError(t, err)

	activities, err := registry.NewGauge(prometheus.GaugeOpts{Name: "activities", Help: "Activities."})
	require.NoError(t, err)
	activities.Set(2)

	loads, err := registry.NewCounterVec(prometheus.CounterOpts{Name: "activity_loads_total", Help: "Loads."}, []string{"result"})
	require.NoError(t, err)
	loads.With(prometheus.Labels{"result": "success"}).Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	registry.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "activities 2")
	assert.Contains(t, body, `activity_loads_total{result="success"} 1`)
}

func TestScrapeRegistry_DuplicateRegistration(t *testing.T) {
	registry, err := NewScrapeRegistry()
	require.NoError(t, err)

	_, err = registry.NewCounter(prometheus.CounterOpts{Name: "signups_total", Help: "Signups."})
	require.NoError(t, err)

	_, err = registry.NewCounter(prometheus.CounterOpts{Name: "signups_total", Help: "Signups."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signups_total")
}

func TestDiscardRegistry(t *testing.T) {
	var registry Registry = DiscardRegistry{}

	gauge, err := registry.NewGauge(prometheus.GaugeOpts{Name: "g"})
	require.NoError(t, err)
	gauge.Set(1)

	vec, err := registry.NewCounterVec(prometheus.CounterOpts{Name: "c"}, []string{"l"})
	require.NoError(t, err)
	vec.With(prometheus.Labels{"l": "v"}).Add(2)
}

func TestScrapeRegistry_PrefixAndValue(t *testing.T) {
	registry, err := NewScrapeRegistry(WithPrefix("signupboard"))
	require.NoError(t, err)

	spots, err := registry.NewGaugeVec(prometheus.GaugeOpts{Name: "activity_spots_left", Help: "Spots."}, []string{"activity"})
	require.NoError(t, err)
	spots.With(prometheus.Labels{"activity": "Chess Club"}).Set(9)
	spots.With(prometheus.Labels{"activity": "Art Club"}).Set(-1)

	v, ok := registry.Value("activity_spots_left", prometheus.Labels{"activity": "Art Club"})
	require.True(t, ok)
	assert.Equal(t, -1.0, v)

	_, ok = registry.Value("activity_spots_left", prometheus.Labels{"activity": "Drama"})
	assert.False(t, ok)

	w := httptest.NewRecorder()
	registry.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `signupboard_activity_spots_left{activity="Chess Club"} 9`)
}

func TestScrapeGaugeVec_Reset(t *testing.T) {
	registry, err := NewScrapeRegistry()
	require.NoError(t, err)

	spots, err := registry.NewGaugeVec(prometheus.GaugeOpts{Name: "activity_spots_left", Help: "Spots."}, []string{"activity"})
	require.NoError(t, err)
	spots.With(prometheus.Labels{"activity": "Chess Club"}).Set(9)
	spots.Reset()

	_, ok := registry.Value("activity_spots_left", prometheus.Labels{"activity": "Chess Club"})
	assert.False(t, ok)
}
