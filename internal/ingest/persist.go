package ingest

import (
	"encoding/hex"
	"encoding/json"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/burakkonte/sinyalist/internal/logging"
)

// ndjsonRecord is one line of the persisted packet log.
type ndjsonRecord struct {
	DeviceID    string  `json:"device_id"`
	LatE7       int32   `json:"lat_e7"`
	LonE7       int32   `json:"lon_e7"`
	CreatedAtMs uint64  `json:"created_at_ms"`
	PacketIDHex string  `json:"packet_id_hex"`
	Level       string  `json:"level"`
	PeakG       float64 `json:"peak_g"`
	StaLtaRatio float64 `json:"sta_lta_ratio"`
	FreqHz      float64 `json:"freq_hz"`
}

// NDJSONPersister is an events.Consumer[Packet] that appends one JSON line
// per packet to a lumberjack-rotated file — the durable record of every
// admitted packet, independent of whether its cluster reached consensus.
type NDJSONPersister struct {
	mu      sync.Mutex
	rotator *lumberjack.Logger
	enc     *json.Encoder
}

// NewNDJSONPersister opens (or creates) path for appended, rotated NDJSON
// writes.
func NewNDJSONPersister(path string) *NDJSONPersister {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	return &NDJSONPersister{rotator: rotator, enc: json.NewEncoder(rotator)}
}

func (p *NDJSONPersister) Name() string { return "ndjson-persist" }

func (p *NDJSONPersister) Process(pkt Packet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(ndjsonRecord{
		DeviceID:    pkt.DeviceID,
		LatE7:       pkt.LatE7,
		LonE7:       pkt.LonE7,
		CreatedAtMs: pkt.CreatedAtMs,
		PacketIDHex: hex.EncodeToString(pkt.PacketID),
		Level:       pkt.Event.Level.String(),
		PeakG:       pkt.Event.PeakG,
		StaLtaRatio: pkt.Event.StaLtaRatio,
		FreqHz:      pkt.Event.FreqHz,
	}); err != nil {
		logging.Structured().Warn("ndjson persist write failed", "error", err)
	}
}

// Close flushes and closes the underlying rotated file.
func (p *NDJSONPersister) Close() error {
	return p.rotator.Close()
}

// LogRelay is an events.Consumer[Packet] that logs a structured line for
// every packet whose cluster reached consensus, standing in for a
// downstream early-warning relay: forwarding to a real external agency
// API isn't implemented here, since no such contract can be grounded on
// an available dependency without inventing one.
type LogRelay struct{}

func (LogRelay) Name() string { return "log-relay" }

func (LogRelay) Process(pkt Packet) {
	logging.Structured().Warn("seismic consensus reached, relay candidate",
		"device_id", pkt.DeviceID, "level", pkt.Event.Level.String(),
		"peak_g", pkt.Event.PeakG, "lat_e7", pkt.LatE7, "lon_e7", pkt.LonE7)
}
