package ingest

import "sync/atomic"

// Metrics is the ingestion server's own structured counter set, served as
// JSON at /metrics rather than through the Prometheus registry: these
// counters describe packet-admission outcomes (dedup, signature failure,
// consensus-pending) that live alongside HTTP handling, not the detector's
// own event/reject gauges in internal/telemetry.
type Metrics struct {
	ingested          atomic.Uint64
	deduped           atomic.Uint64
	relayed           atomic.Uint64
	persisted         atomic.Uint64
	verifyFail        atomic.Uint64
	malformed         atomic.Uint64
	oversized         atomic.Uint64
	sigMissing        atomic.Uint64
	timestampRejected atomic.Uint64
	consensusPending  atomic.Uint64
	rateLimited       atomic.Uint64
}

// MetricsSnapshot is the JSON shape exposed by the ingestion server's
// metrics endpoint.
type MetricsSnapshot struct {
	Ingested          uint64 `json:"ingested"`
	Deduped           uint64 `json:"deduped"`
	Relayed           uint64 `json:"relayed"`
	Persisted         uint64 `json:"persisted"`
	VerifyFail        uint64 `json:"verify_fail"`
	Malformed         uint64 `json:"malformed"`
	Oversized         uint64 `json:"oversized"`
	SigMissing        uint64 `json:"sig_missing"`
	TimestampRejected uint64 `json:"timestamp_rejected"`
	ConsensusPending  uint64 `json:"consensus_pending"`
	RateLimited       uint64 `json:"rate_limited"`
}

// Snapshot returns a point-in-time copy of every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Ingested:          m.ingested.Load(),
		Deduped:           m.deduped.Load(),
		Relayed:           m.relayed.Load(),
		Persisted:         m.persisted.Load(),
		VerifyFail:        m.verifyFail.Load(),
		Malformed:         m.malformed.Load(),
		Oversized:         m.oversized.Load(),
		SigMissing:        m.sigMissing.Load(),
		TimestampRejected: m.timestampRejected.Load(),
		ConsensusPending:  m.consensusPending.Load(),
		RateLimited:       m.rateLimited.Load(),
	}
}
