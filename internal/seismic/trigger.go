package seismic

import (
	"math"

	"github.com/google/uuid"
)

// stepStateMachine advances the IDLE/CONFIRM/TRIGGERED state machine for
// one non-cooldown sample. fx, fy, fz are the filtered per-axis
// accelerations for this sample; mag is their Euclidean norm.
func (d *Detector) stepStateMachine(fx, fy, fz, mag float64, tsMs uint64) {
	if !d.ltaFull() {
		return
	}
	if d.lta.Avg() < d.cfg.MinAmplitudeG {
		return
	}

	r := d.ratio()
	at := d.adaptiveTrigger()

	switch d.st {
	case stateIdle:
		if r >= at {
			d.enterConfirm(fx, fy, fz, mag, tsMs)
		}
	case stateConfirm:
		if r >= at {
			d.continueConfirm(fx, fy, fz, mag, r, tsMs)
		} else {
			d.abortConfirm()
		}
	case stateTriggered:
		d.durationSamples++
		if mag > d.peakG {
			d.peakG = mag
		}
		if r < d.cfg.StaLtaDetrigger {
			d.fireDetrigger(r, tsMs)
		}
	}
}

func signOf(x float64) bool {
	return x >= 0
}

func (d *Detector) enterConfirm(fx, fy, fz, mag float64, tsMs uint64) {
	d.st = stateConfirm
	d.sustainedCount = 1
	d.peakG = mag
	d.eventStartMs = tsMs
	d.zeroCrossings = 0
	d.axisPeak = [3]float64{math.Abs(fx), math.Abs(fy), math.Abs(fz)}
	d.axisEnergy = [3]float64{fx * fx, fy * fy, fz * fz}
	d.signPositive = signOf(fx)
	d.signInit = true
	d.lastReject = RejectNone
}

func (d *Detector) continueConfirm(fx, fy, fz, mag, r float64, tsMs uint64) {
	d.sustainedCount++
	if mag > d.peakG {
		d.peakG = mag
	}
	f := [3]float64{fx, fy, fz}
	for i, v := range f {
		if abs := math.Abs(v); abs > d.axisPeak[i] {
			d.axisPeak[i] = abs
		}
		d.axisEnergy[i] += v * v
	}
	sp := signOf(fx)
	if d.signInit && sp != d.signPositive {
		d.zeroCrossings++
	}
	d.signPositive = sp
	d.signInit = true

	if d.sustainedCount >= d.cfg.MinSustained {
		d.evaluateCandidate(r, tsMs)
	}
}

// evaluateCandidate runs the rejection cascade once, at the moment
// sustainedCount first reaches MinSustained. Either the candidate is
// rejected (state returns to IDLE and a cooldown begins) or it fires as
// a trigger event, the state machine advances to TRIGGERED and a cooldown
// begins as well.
func (d *Detector) evaluateCandidate(r float64, tsMs uint64) {
	dt := 1.0 / d.cfg.SampleRateHz
	freqHz := float64(d.zeroCrossings) / (2 * float64(d.sustainedCount) * dt)

	if code := d.runRejectionCascade(freqHz); code != RejectNone {
		d.lastReject = code
		d.st = stateIdle
		d.beginCooldown()
		return
	}

	d.freqHz = freqHz
	d.durationSamples = d.sustainedCount
	d.st = stateTriggered
	d.currentEventID = uuid.New()
	d.onEvent(SeismicEvent{
		ID:              d.currentEventID,
		Level:           severity(d.peakG),
		PeakG:           d.peakG,
		StaLtaRatio:     r,
		FreqHz:          freqHz,
		EventStartMs:    d.eventStartMs,
		DurationSamples: d.durationSamples,
	})
	d.beginCooldown()
}

func (d *Detector) abortConfirm() {
	d.st = stateIdle
	d.sustainedCount = 0
}

func (d *Detector) fireDetrigger(r float64, tsMs uint64) {
	d.onEvent(SeismicEvent{
		ID:              d.currentEventID,
		Level:           severity(d.peakG),
		PeakG:           d.peakG,
		StaLtaRatio:     r,
		FreqHz:          d.freqHz,
		EventStartMs:    d.eventStartMs,
		DurationSamples: d.durationSamples,
	})
	d.st = stateIdle
	d.sustainedCount = 0
	d.beginCooldown()
}

func (d *Detector) beginCooldown() {
	d.cooldownRemaining = d.cfg.Cooldown
}
