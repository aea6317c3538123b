package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMetrics registers against the global Prometheus registry, so these
// tests share a single Metrics instance rather than running in parallel.

func TestMetrics_ObserveUpdatesCollectors(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.ObserveEvent("moderate")
	m.ObserveEvent("moderate")
	m.ObserveEvent("critical")
	m.ObserveReject("axis_coherence")
	m.ObserveBusDrop("events")
	m.ObserveDebug(3.2, 5.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("moderate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectsTotal.WithLabelValues("axis_coherence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BusDropped.WithLabelValues("events")))
	assert.Equal(t, 3.2, testutil.ToFloat64(m.StaLtaRatio))
	assert.Equal(t, 5.1, testutil.ToFloat64(m.AdaptiveTrigger))
}

func TestRegisterMetricsHandlers_ExposesMetricsAndHealthz(t *testing.T) {
	mux := http.NewServeMux()
	RegisterMetricsHandlers(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
