// metrics.go: Prometheus metrics setup and manipulation for telemetry
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the process exposes. The event
// and reject counters and the gauges are driven from events.Consumer hooks
// registered against the event/debug buses; BusDropped is incremented
// directly from the detector's callbacks when a bus publish is dropped.
type Metrics struct {
	EventsTotal     *prometheus.CounterVec
	RejectsTotal    *prometheus.CounterVec
	StaLtaRatio     prometheus.Gauge
	AdaptiveTrigger prometheus.Gauge
	BusDropped      *prometheus.CounterVec
}

const metricsPath = "/metrics"
const healthzPath = "/healthz"

// NewMetrics initializes and registers all Prometheus metrics used in the
// telemetry system.
func NewMetrics() (*Metrics, error) {
	metrics := &Metrics{}

	metrics.EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sinyalist_events_total",
		Help: "Count of seismic events emitted, partitioned by alert level.",
	}, []string{"level"})

	metrics.RejectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sinyalist_rejects_total",
		Help: "Count of candidate triggers rejected by the cascade, partitioned by reason.",
	}, []string{"reason"})

	metrics.StaLtaRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sinyalist_sta_lta_ratio",
		Help: "Most recent short-term/long-term average ratio.",
	})

	metrics.AdaptiveTrigger = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sinyalist_adaptive_trigger_threshold",
		Help: "Most recent noise-adaptive trigger threshold.",
	})

	metrics.BusDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sinyalist_bus_dropped_total",
		Help: "Count of values dropped by a full event bus, partitioned by bus name.",
	}, []string{"bus"})

	for _, c := range []prometheus.Collector{
		metrics.EventsTotal,
		metrics.RejectsTotal,
		metrics.StaLtaRatio,
		metrics.AdaptiveTrigger,
		metrics.BusDropped,
	} {
		if err := prometheus.Register(c); err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

// RegisterMetricsHandlers adds the /metrics and /healthz routes to the
// provided mux.
func RegisterMetricsHandlers(mux *http.ServeMux) {
	mux.Handle(metricsPath, promhttp.Handler())
	mux.HandleFunc(healthzPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// ObserveEvent records an emitted seismic event.
func (m *Metrics) ObserveEvent(level string) {
	m.EventsTotal.WithLabelValues(level).Inc()
}

// ObserveReject records a rejected candidate trigger.
func (m *Metrics) ObserveReject(reason string) {
	m.RejectsTotal.WithLabelValues(reason).Inc()
}

// ObserveDebug updates the gauges from a debug telemetry sample.
func (m *Metrics) ObserveDebug(staLtaRatio, adaptiveTrigger float64) {
	m.StaLtaRatio.Set(staLtaRatio)
	m.AdaptiveTrigger.Set(adaptiveTrigger)
}

// ObserveBusDrop records a value dropped by a full event bus.
func (m *Metrics) ObserveBusDrop(busName string) {
	m.BusDropped.WithLabelValues(busName).Inc()
}
