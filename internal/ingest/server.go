// server.go: the HTTP front door for device-submitted Packet reports —
// admission checks (size, required fields, mandatory signature, replay
// window), dedup, per-key/per-geo rate limiting, geo-cluster consensus
// scoring, and fan-out to persistence/relay consumers over two
// internal/events.Bus instances.
package ingest

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/burakkonte/sinyalist/internal/events"
	"github.com/burakkonte/sinyalist/internal/logging"
	"github.com/burakkonte/sinyalist/internal/seismic"
)

const (
	maxPacketBytes        = 1024
	timestampPastWindow   = 5 * time.Minute
	timestampFutureWindow = 60 * time.Second
)

// Server is the consensus ingestion server: it owns dedup/rate-limit/
// cluster state and fans admitted packets out to persistence and relay
// consumers without ever blocking the HTTP handler on either.
type Server struct {
	consensusMinDevices int

	metrics  *Metrics
	dedup    *cache.Cache
	clusters *clusterStore
	rateKey  *rateLimiter
	rateGeo  *rateLimiter

	persistBus *events.Bus[Packet]
	relayBus   *events.Bus[Packet]
}

// NewServer builds a Server. dedupTTL controls how long a packet_id is
// remembered for dedup purposes; the underlying cache sweeps expired
// entries on its own, replacing the original's manual TTL-eviction scan.
func NewServer(consensusMinDevices, ratePerKeyPerMin, ratePerGeoPerMin int, dedupTTL time.Duration) *Server {
	return &Server{
		consensusMinDevices: consensusMinDevices,
		metrics:             &Metrics{},
		dedup:               cache.New(dedupTTL, 2*dedupTTL),
		clusters:            newClusterStore(),
		rateKey:             newRateLimiter(time.Minute, ratePerKeyPerMin),
		rateGeo:             newRateLimiter(time.Minute, ratePerGeoPerMin),
		persistBus:          events.NewBus[Packet](256, 1),
		relayBus:            events.NewBus[Packet](256, 1),
	}
}

// RegisterPersistConsumer registers c to receive every admitted packet,
// regardless of consensus state — the durable record of what was reported.
func (s *Server) RegisterPersistConsumer(c events.Consumer[Packet]) bool {
	return s.persistBus.Register(c)
}

// RegisterRelayConsumer registers c to receive only packets whose
// geoCluster has reached consensus — candidates worth forwarding to a
// downstream early-warning system.
func (s *Server) RegisterRelayConsumer(c events.Consumer[Packet]) bool {
	return s.relayBus.Register(c)
}

// Metrics returns the server's structured counter set.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Close drains and stops the persist/relay buses.
func (s *Server) Close() {
	s.persistBus.Close()
	s.relayBus.Close()
}

// Handler builds the server's HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return mux
}

type ingestResponse struct {
	Accepted         bool    `json:"accepted"`
	ConsensusReached bool    `json:"consensus_reached"`
	Confidence       float64 `json:"confidence"`
	UniqueDevices    int     `json:"unique_devices"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	nowMs := uint64(time.Now().UnixMilli())

	body := http.MaxBytesReader(w, r.Body, maxPacketBytes+1)
	defer body.Close()

	var wire packetWire
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		s.metrics.malformed.Add(1)
		http.Error(w, "malformed packet", http.StatusBadRequest)
		return
	}

	p, err := wire.toPacket()
	if err != nil {
		s.metrics.malformed.Add(1)
		http.Error(w, "malformed packet: "+err.Error(), http.StatusBadRequest)
		return
	}

	if p.DeviceID == "" || p.CreatedAtMs == 0 {
		s.metrics.malformed.Add(1)
		http.Error(w, "missing required fields", http.StatusUnprocessableEntity)
		return
	}

	if len(p.Signature) == 0 || len(p.PublicKey) == 0 {
		s.metrics.sigMissing.Add(1)
		http.Error(w, "signature required", http.StatusForbidden)
		return
	}
	if !VerifySignature(p) {
		s.metrics.verifyFail.Add(1)
		http.Error(w, "signature verification failed", http.StatusForbidden)
		return
	}

	if !withinTimestampWindow(p.CreatedAtMs, nowMs) {
		s.metrics.timestampRejected.Add(1)
		http.Error(w, "timestamp outside acceptance window", http.StatusUnprocessableEntity)
		return
	}

	dedupKey := dedupKeyFor(p)
	if _, seen := s.dedup.Get(dedupKey); seen {
		s.metrics.deduped.Add(1)
		http.Error(w, "duplicate packet", http.StatusConflict)
		return
	}
	s.dedup.Set(dedupKey, nowMs, cache.DefaultExpiration)

	if !s.rateKey.Allow(p.DeviceID, int64(nowMs)) || !s.rateGeo.Allow(geoRateKey(p), int64(nowMs)) {
		s.metrics.rateLimited.Add(1)
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	s.metrics.ingested.Add(1)

	cluster := s.clusters.observe(p)
	reached := cluster.consensusReached(s.consensusMinDevices)
	confidence := cluster.confidence()

	if !s.persistBus.Publish(p) {
		logging.Structured().Warn("ingest persist bus full, packet dropped", "device_id", p.DeviceID)
	} else {
		s.metrics.persisted.Add(1)
	}

	if reached {
		if !s.relayBus.Publish(p) {
			logging.Structured().Warn("ingest relay bus full, packet dropped", "device_id", p.DeviceID)
		} else {
			s.metrics.relayed.Add(1)
		}
	} else {
		s.metrics.consensusPending.Add(1)
		logging.Structured().Info("consensus pending, relay withheld",
			"device_id", p.DeviceID, "unique_devices", len(cluster.keys), "needed", s.consensusMinDevices)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ingestResponse{
		Accepted:         true,
		ConsensusReached: reached,
		Confidence:       confidence,
		UniqueDevices:    len(cluster.keys),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.metrics.Snapshot())
}

func withinTimestampWindow(createdAtMs, nowMs uint64) bool {
	if createdAtMs == 0 {
		return true
	}
	created := time.UnixMilli(int64(createdAtMs))
	now := time.UnixMilli(int64(nowMs))
	if now.Sub(created) > timestampPastWindow {
		return false
	}
	if created.Sub(now) > timestampFutureWindow {
		return false
	}
	return true
}

func dedupKeyFor(p Packet) string {
	if len(p.PacketID) > 0 {
		return hex.EncodeToString(p.PacketID)
	}
	return p.DeviceID
}

func geoRateKey(p Packet) string {
	k := geoKey(p.LatE7, p.LonE7)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], k)
	return hex.EncodeToString(b[:])
}

// packetWire is the JSON wire shape for Packet, substituting for a
// protobuf schema over the same fields — generating protobuf bindings
// would require running protoc, which this module's build process does
// not do (see DESIGN.md).
type packetWire struct {
	DeviceID    string    `json:"device_id"`
	LatE7       int32     `json:"lat_e7"`
	LonE7       int32     `json:"lon_e7"`
	CreatedAtMs uint64    `json:"created_at_ms"`
	PacketID    string    `json:"packet_id"`
	Event       eventWire `json:"event"`
	PublicKey   string    `json:"public_key"`
	Signature   string    `json:"signature"`
}

type eventWire struct {
	Level           string  `json:"level"`
	PeakG           float64 `json:"peak_g"`
	StaLtaRatio     float64 `json:"sta_lta_ratio"`
	FreqHz          float64 `json:"freq_hz"`
	EventStartMs    uint64  `json:"event_start_ms"`
	DurationSamples int     `json:"duration_samples"`
}

func (w packetWire) toPacket() (Packet, error) {
	packetID, err := hex.DecodeString(w.PacketID)
	if err != nil {
		return Packet{}, err
	}
	pubKey, err := hex.DecodeString(w.PublicKey)
	if err != nil {
		return Packet{}, err
	}
	sig, err := hex.DecodeString(w.Signature)
	if err != nil {
		return Packet{}, err
	}
	return Packet{
		DeviceID:    w.DeviceID,
		LatE7:       w.LatE7,
		LonE7:       w.LonE7,
		CreatedAtMs: w.CreatedAtMs,
		PacketID:    packetID,
		Event: seismic.SeismicEvent{
			Level:           parseAlertLevel(w.Event.Level),
			PeakG:           w.Event.PeakG,
			StaLtaRatio:     w.Event.StaLtaRatio,
			FreqHz:          w.Event.FreqHz,
			EventStartMs:    w.Event.EventStartMs,
			DurationSamples: w.Event.DurationSamples,
		},
		PublicKey: pubKey,
		Signature: sig,
	}, nil
}

func parseAlertLevel(s string) seismic.AlertLevel {
	switch s {
	case "TREMOR":
		return seismic.AlertTremor
	case "MODERATE":
		return seismic.AlertModerate
	case "SEVERE":
		return seismic.AlertSevere
	case "CRITICAL":
		return seismic.AlertCritical
	default:
		return seismic.AlertNone
	}
}
