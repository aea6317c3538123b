package seismic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(events *[]SeismicEvent, telemetry *[]DebugTelemetry) *Detector {
	return New(
		func(e SeismicEvent) { *events = append(*events, e) },
		func(d DebugTelemetry) { *telemetry = append(*telemetry, d) },
	)
}

// P1: for the first lta_window-1 samples, no event fires regardless of
// input.
func TestDetector_NoEventDuringLTAWarmup(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < d.Config().LTAWindow-1; i++ {
		d.ProcessSample(0.5*rng.Float64(), 0.5*rng.Float64(), -1+0.5*rng.Float64(), uint64(i))
	}

	assert.Empty(t, events)
}

// P2: while LTA average is below min_amplitude_g, no state transition or
// event occurs, no matter how large the STA/LTA ratio would otherwise be.
func TestDetector_DisarmedBelowMinAmplitude(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)

	cfg := DefaultConfig()
	cfg.MinAmplitudeG = 10 // unreachable floor: the detector must stay disarmed
	d.UpdateConfig(cfg)

	for i := 0; i < 3000; i++ {
		d.ProcessSample(0.01, 0.01, -1, uint64(i))
	}

	assert.Empty(t, events)
}

// P3: after any event emission or rejection, the next `cooldown` samples
// produce no state transition or event.
func TestDetector_CooldownSuppressesTransitions(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)

	cfg := DefaultConfig()
	cfg.Cooldown = 50
	d.UpdateConfig(cfg)

	feedQuietBaseline(d, cfg.LTAWindow+cfg.CalibWindow)
	feedPWaveBurst(d, cfg.LTAWindow+cfg.CalibWindow)

	require.NotEmpty(t, events, "expected the synthetic P-wave burst to fire an event")

	countBefore := len(events)
	// Feed strong signal immediately during the cooldown window: it must
	// not produce a new event.
	for i := 0; i < cfg.Cooldown-1; i++ {
		d.ProcessSample(0.5, 0.5, -0.5, uint64(i))
	}
	assert.Len(t, events, countBefore, "cooldown must suppress state transitions")
}

// During cooldown, no sample may reach gravity compensation, band-pass
// filtering, or the debug callback: both must stay frozen until cooldown
// expires, exactly as in the reference engine's process_sample, which
// returns before touching any filter state while cd_ > 0.
func TestDetector_CooldownFreezesGravityAndFilterState(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)

	cfg := DefaultConfig()
	cfg.Cooldown = 50
	d.UpdateConfig(cfg)

	feedQuietBaseline(d, cfg.LTAWindow+cfg.CalibWindow)
	feedPWaveBurst(d, cfg.LTAWindow+cfg.CalibWindow)

	require.NotEmpty(t, events, "expected the synthetic P-wave burst to fire an event")
	require.Greater(t, d.cooldownRemaining, 0, "detector must be in cooldown after the burst")

	gravityBefore := d.gravity
	axesBefore := d.axes
	telemetryCountBefore := len(telemetry)

	for i := 0; i < cfg.Cooldown-1; i++ {
		d.ProcessSample(0.9, -0.6, 0.3, uint64(i))
	}

	assert.Equal(t, gravityBefore, d.gravity, "gravity estimate must not move during cooldown")
	assert.Equal(t, axesBefore, d.axes, "band-pass/polish filter state must not move during cooldown")
	assert.Equal(t, telemetryCountBefore, len(telemetry), "no debug telemetry may be emitted during cooldown")
}

// P4: at most one event is TRIGGERED at a time, and every TRIGGERED entry
// pairs with exactly one de-trigger.
func TestDetector_TriggerDetriggerPairing(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)
	cfg := DefaultConfig()
	d.UpdateConfig(cfg)

	feedQuietBaseline(d, cfg.LTAWindow+cfg.CalibWindow)
	feedPWaveBurst(d, cfg.LTAWindow+cfg.CalibWindow)
	feedQuietBaseline(d, 3000) // long quiet tail so the ratio drops below detrigger

	require.NotEmpty(t, events)
	assert.Equal(t, 0, len(events)%2, "events must come in trigger/de-trigger pairs")

	for i := 0; i+1 < len(events); i += 2 {
		assert.Equal(t, events[i].ID, events[i+1].ID, "trigger and de-trigger must share an ID")
	}
}

// P5: the debug callback fires exactly on samples where
// total_samples_seen mod 10 == 0 and LTA is full.
func TestDetector_DebugCallbackThrottling(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)
	cfg := DefaultConfig()
	d.UpdateConfig(cfg)

	const n = 2000
	feedQuietBaseline(d, n)

	expected := 0
	for i := 1; i <= n; i++ {
		if i%10 == 0 && i >= cfg.LTAWindow {
			expected++
		}
	}
	assert.Equal(t, expected, len(telemetry))
}

func TestDetector_ResetRestoresInitialState(t *testing.T) {
	t.Parallel()

	var events []SeismicEvent
	var telemetry []DebugTelemetry
	d := newTestDetector(&events, &telemetry)

	feedQuietBaseline(d, 1000)
	d.Reset()

	assert.False(t, d.ltaFull())
	assert.Equal(t, uint64(0), d.totalSamples)
}

func feedQuietBaseline(d *Detector, n int) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < n; i++ {
		d.ProcessSample(0.003*rng.NormFloat64(), 0.003*rng.NormFloat64(), -1+0.003*rng.NormFloat64(), uint64(i))
	}
}

// feedPWaveBurst drives a 3 Hz signal across all axes, coherent enough in
// axis and frequency to survive the rejection cascade and strong enough to
// lift the LTA above MinAmplitudeG. It stops on the sample that fires the
// trigger, so the caller starts right at the beginning of the cooldown.
func feedPWaveBurst(d *Detector, startMs int) {
	const sampleRateHz = 50.0
	const n = 100 // 2s at 50Hz
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRateHz
		v := 0.3 * math.Sin(2*math.Pi*3*t)
		d.ProcessSample(v, v*0.95, -1+v*0.9, uint64(startMs+i))
		if d.st == stateTriggered {
			return
		}
	}
}
