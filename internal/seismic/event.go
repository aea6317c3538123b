package seismic

import "github.com/google/uuid"

// AlertLevel classifies the severity of a detected event by peak
// magnitude. Levels are ordered: NONE < TREMOR < MODERATE < SEVERE <
// CRITICAL.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertTremor
	AlertModerate
	AlertSevere
	AlertCritical
)

func (l AlertLevel) String() string {
	switch l {
	case AlertNone:
		return "NONE"
	case AlertTremor:
		return "TREMOR"
	case AlertModerate:
		return "MODERATE"
	case AlertSevere:
		return "SEVERE"
	case AlertCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// severity maps a peak magnitude in g to an AlertLevel.
func severity(peakG float64) AlertLevel {
	switch {
	case peakG >= 0.40:
		return AlertCritical
	case peakG >= 0.15:
		return AlertSevere
	case peakG >= 0.05:
		return AlertModerate
	case peakG >= 0.01:
		return AlertTremor
	default:
		return AlertNone
	}
}

// RejectCode identifies which check in the rejection cascade failed a
// CONFIRM-state candidate, or NONE when no check has fired.
type RejectCode int

const (
	RejectNone RejectCode = iota
	RejectAxisCoherence
	RejectFrequency
	RejectPeriodicity
	RejectEnergyDist
)

func (c RejectCode) String() string {
	switch c {
	case RejectNone:
		return "NONE"
	case RejectAxisCoherence:
		return "AXIS_COHERENCE"
	case RejectFrequency:
		return "FREQUENCY"
	case RejectPeriodicity:
		return "PERIODICITY"
	case RejectEnergyDist:
		return "ENERGY_DIST"
	default:
		return "UNKNOWN"
	}
}

// state identifies the trigger state machine's current state.
type state int

const (
	stateIdle state = iota
	stateConfirm
	stateTriggered
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "IDLE"
	case stateConfirm:
		return "CONFIRM"
	case stateTriggered:
		return "TRIGGERED"
	default:
		return "UNKNOWN"
	}
}

// SeismicEvent is emitted once at trigger and once at de-trigger. Both
// carry the same ID; consumers pair the trigger and de-trigger edges by
// that ID rather than by EventStartMs alone.
type SeismicEvent struct {
	ID              uuid.UUID
	Level           AlertLevel
	PeakG           float64
	StaLtaRatio     float64
	FreqHz          float64
	EventStartMs    uint64
	DurationSamples int
}

// DebugTelemetry is emitted at most once per 10 processed samples,
// reflecting all filter/accumulator state at the moment of emission.
type DebugTelemetry struct {
	RawMag           float64
	FilteredMag      float64
	Sta              float64
	Lta              float64
	Ratio            float64
	BaselineVariance float64
	AdaptiveTrigger  float64
	State            string
	LastReject       RejectCode
	TimestampMs      uint64
}

// EventCallback receives a SeismicEvent inline, on the sampling thread,
// once at trigger and once at de-trigger. It must not call back into the
// detector that invoked it.
type EventCallback func(SeismicEvent)

// DebugCallback receives DebugTelemetry inline, throttled to at most once
// per 10 processed samples. It must not call back into the detector that
// invoked it.
type DebugCallback func(DebugTelemetry)
