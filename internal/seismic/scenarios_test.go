package seismic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burakkonte/sinyalist/internal/seismic"
	"github.com/burakkonte/sinyalist/internal/simulate"
)

func runScenario(t *testing.T, scenario simulate.Scenario, seed uint64) ([]seismic.SeismicEvent, []seismic.RejectCode) {
	t.Helper()

	cfg := seismic.DefaultConfig()
	var events []seismic.SeismicEvent
	var rejects []seismic.RejectCode

	d := seismic.New(
		func(e seismic.SeismicEvent) { events = append(events, e) },
		func(tele seismic.DebugTelemetry) {
			if tele.LastReject != seismic.RejectNone {
				rejects = append(rejects, tele.LastReject)
			}
		},
	)
	d.UpdateConfig(cfg)

	for _, s := range scenario(cfg.SampleRateHz, seed) {
		d.ProcessSample(s.AX, s.AY, s.AZ, s.OffsetMs)
	}

	return events, rejects
}

// S1: quiet baseline never fires an event.
func TestScenario_QuietBaseline(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.QuietBaseline(2000), 1)
	assert.Empty(t, events)
}

// S2: an impulse tap either produces no event, or is rejected for axis
// coherence or energy distribution, but never fires.
func TestScenario_ImpulseTap(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.ImpulseTap(1000, 0.3, 3), 2)
	assert.Empty(t, events, "an isolated single-axis tap must never fire an event")
}

// S3: sustained walking-cadence motion is rejected as periodicity once
// CONFIRM is reached, and never fires an event.
func TestScenario_WalkingSimulation(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.WalkingSimulation(500, 5), 3)
	assert.Empty(t, events, "sustained walking-cadence motion must never fire an event")
}

// S4: very low-frequency sway never fires an event.
func TestScenario_LowFrequencySway(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.LowFrequencySway(500, 5), 4)
	assert.Empty(t, events, "sub-band sway must never fire an event")
}

// S5: a synthetic P-wave arrival fires exactly one trigger/de-trigger
// pair with a MODERATE level and a frequency inside the P-wave band.
func TestScenario_PWaveArrival(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.PWaveArrival(1000, 0.5), 5)
	require.NotEmpty(t, events, "expected the synthetic P-wave arrival to fire at least one event")
	require.Zero(t, len(events)%2, "events must come in trigger/de-trigger pairs")

	trigger, detrigger := events[0], events[1]
	assert.Greater(t, trigger.Level, seismic.AlertNone)
	assert.Equal(t, trigger.ID, detrigger.ID)
	assert.GreaterOrEqual(t, trigger.FreqHz, 1.0)
	assert.LessOrEqual(t, trigger.FreqHz, 15.0)
}

// S6: severe shaking fires an event, followed by a de-trigger sharing
// its ID.
func TestScenario_SevereShaking(t *testing.T) {
	t.Parallel()

	events, _ := runScenario(t, simulate.SevereShaking(500, 2), 6)
	require.NotEmpty(t, events)
	require.Zero(t, len(events)%2, "events must come in trigger/de-trigger pairs")
	assert.Greater(t, events[0].Level, seismic.AlertNone)
	assert.Equal(t, events[0].ID, events[1].ID)
}
