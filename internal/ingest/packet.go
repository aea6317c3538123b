// Package ingest implements the multi-device consensus layer that sits
// downstream of many independent detector instances: devices submit signed
// Packet reports over HTTP, the server deduplicates and rate-limits them,
// and only forwards a candidate event once enough independently-signed
// devices in the same neighborhood have corroborated it.
package ingest

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/burakkonte/sinyalist/internal/seismic"
)

// Packet is one device's consensus-ingestion report: a seismic observation
// plus geolocation and Ed25519 identity.
type Packet struct {
	DeviceID    string // hex-encoded Ed25519 public key, doubles as device identity
	LatE7       int32  // latitude, degrees * 1e7
	LonE7       int32  // longitude, degrees * 1e7
	CreatedAtMs uint64 // device-clock send time, used for replay/skew rejection
	PacketID    []byte // dedup key, device-generated and opaque to the server

	Event seismic.SeismicEvent

	PublicKey []byte // ed25519.PublicKeySize bytes
	Signature []byte // ed25519.SignatureSize bytes, over signingBytes(p) with Signature cleared
}

// signingBytes returns the deterministic byte encoding a device signs and
// the server re-verifies. The signature field itself is never included.
func signingBytes(p Packet) []byte {
	var buf bytes.Buffer
	buf.WriteString(p.DeviceID)
	binary.Write(&buf, binary.BigEndian, p.LatE7)
	binary.Write(&buf, binary.BigEndian, p.LonE7)
	binary.Write(&buf, binary.BigEndian, p.CreatedAtMs)
	buf.Write(p.PacketID)
	binary.Write(&buf, binary.BigEndian, int32(p.Event.Level))
	binary.Write(&buf, binary.BigEndian, p.Event.PeakG)
	binary.Write(&buf, binary.BigEndian, p.Event.StaLtaRatio)
	binary.Write(&buf, binary.BigEndian, p.Event.FreqHz)
	binary.Write(&buf, binary.BigEndian, p.Event.EventStartMs)
	binary.Write(&buf, binary.BigEndian, int64(p.Event.DurationSamples))
	return buf.Bytes()
}

// VerifySignature reports whether Packet.Signature is a valid Ed25519
// signature over signingBytes(p) under Packet.PublicKey. A signature is
// required on every packet; there is no unsigned admission path.
func VerifySignature(p Packet) bool {
	if len(p.PublicKey) != ed25519.PublicKeySize || len(p.Signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.PublicKey), signingBytes(p), p.Signature)
}

// geoCellDivisor buckets 1e7-scaled degrees into roughly 1km grid cells:
// 1 degree of latitude is about 111km, so 0.009deg (=90_000 in e7 units)
// is about 1km near mid-latitudes.
const geoCellDivisor = 90_000

// geoKey buckets a lat/lon pair into a coarse grid cell so independent
// devices reporting from the same neighborhood land in the same
// geoCluster regardless of per-device GPS jitter.
func geoKey(latE7, lonE7 int32) uint64 {
	la := int64(latE7) / geoCellDivisor
	lo := int64(lonE7) / geoCellDivisor
	return (uint64(la) << 32) | (uint64(lo) & 0xFFFFFFFF)
}

// timeBucket folds a millisecond timestamp into one-minute windows, the
// other half of a geoCluster's key.
func timeBucket(ms uint64) uint64 {
	return ms / 60_000
}
