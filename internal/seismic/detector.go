// Package seismic implements a real-time streaming P-wave detector: per-axis
// gravity compensation and band-pass filtering, STA/LTA triggering against
// a noise-adaptive threshold, and a rejection cascade that distinguishes
// seismic wavefronts from ordinary phone motion.
//
// The Detector is single-threaded and synchronous: ProcessSample,
// UpdateConfig, and Reset must never be called concurrently, and the two
// callbacks it invokes are called inline on the caller's goroutine. It
// performs no allocation in steady state once constructed.
package seismic

import (
	"math"

	"github.com/google/uuid"
)

// Detector owns all per-session state: filters, ring buffers, gravity
// tracking, and the trigger state machine. It is driven one sample at a
// time by a single producer.
type Detector struct {
	cfg Config

	onEvent EventCallback
	onDebug DebugCallback

	gravity gravityEstimator
	axes    [3]axisFilter
	hpc     biquadCoeffs
	lpc     biquadCoeffs

	sta    *RingBuffer
	lta    *RingBuffer
	calib  *RingBuffer
	period *RingBuffer

	st state

	sustainedCount  int
	peakG           float64
	eventStartMs    uint64
	zeroCrossings   int
	axisPeak        [3]float64
	axisEnergy      [3]float64
	signPositive    bool
	signInit        bool
	durationSamples int
	freqHz          float64
	lastReject      RejectCode
	currentEventID  uuid.UUID

	cooldownRemaining int

	totalSamples uint64
}

// New creates a Detector with the default configuration. onEvent is
// required; onDebug may be nil to disable telemetry.
func New(onEvent EventCallback, onDebug DebugCallback) *Detector {
	d := &Detector{onEvent: onEvent, onDebug: onDebug}
	d.applyConfig(DefaultConfig())
	return d
}

// Config returns the detector's current configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// UpdateConfig swaps the active configuration. Ring capacities are
// re-bound; a ring whose capacity actually changes is reset, but windows
// that are unchanged keep their accumulated samples.
func (d *Detector) UpdateConfig(cfg Config) {
	cfg = cfg.sanitized()

	if d.sta == nil {
		d.applyConfig(cfg)
		return
	}

	if cfg.STAWindow != d.sta.Cap() {
		d.sta.Resize(cfg.STAWindow, MaxSTAWindow)
	}
	if cfg.LTAWindow != d.lta.Cap() {
		d.lta.Resize(cfg.LTAWindow, MaxLTAWindow)
	}
	if cfg.CalibWindow != d.calib.Cap() {
		d.calib.Resize(cfg.CalibWindow, MaxCalibWindow)
	}
	newPeriodCap := periodicityCapacity(cfg.SampleRateHz)
	if newPeriodCap != d.period.Cap() {
		d.period.Resize(newPeriodCap, MaxPeriodWindow)
	}

	d.hpc, d.lpc = bandPassCoeffs(cfg.SampleRateHz, cfg.PWaveFreqMin, 15)
	d.cfg = cfg
}

// applyConfig is used at construction and by Reset: it (re)builds every
// ring and filter from scratch under the given configuration.
func (d *Detector) applyConfig(cfg Config) {
	cfg = cfg.sanitized()
	d.cfg = cfg

	d.sta = NewRingBuffer(cfg.STAWindow)
	d.lta = NewRingBuffer(cfg.LTAWindow)
	d.calib = NewRingBuffer(cfg.CalibWindow)
	d.period = NewRingBuffer(periodicityCapacity(cfg.SampleRateHz))

	d.hpc, d.lpc = bandPassCoeffs(cfg.SampleRateHz, cfg.PWaveFreqMin, 15)

	d.gravity = newGravityEstimator()
	for i := range d.axes {
		d.axes[i].reset()
	}

	d.st = stateIdle
	d.sustainedCount = 0
	d.peakG = 0
	d.eventStartMs = 0
	d.zeroCrossings = 0
	d.axisPeak = [3]float64{}
	d.axisEnergy = [3]float64{}
	d.signInit = false
	d.durationSamples = 0
	d.freqHz = 0
	d.lastReject = RejectNone
	d.currentEventID = uuid.Nil
	d.cooldownRemaining = 0
	d.totalSamples = 0
}

// Reset clears all filter, ring, and state-machine state and resets
// gravity to (0, 0, -1), exactly as at construction.
func (d *Detector) Reset() {
	d.applyConfig(d.cfg)
}

// ProcessSample ingests one triaxial accelerometer sample (in g) at the
// given monotonic timestamp in milliseconds. It is infallible: no input
// causes an error, and non-finite inputs propagate rather than being
// filtered (callers are responsible for upstream sanitization).
func (d *Detector) ProcessSample(ax, ay, az float64, tsMs uint64) {
	d.totalSamples++

	if d.cooldownRemaining > 0 {
		d.cooldownRemaining--
		return
	}

	bx, by, bz := d.gravity.update(ax, ay, az)

	fx := d.axes[0].process(d.hpc, d.lpc, d.cfg.HPAlpha, bx)
	fy := d.axes[1].process(d.hpc, d.lpc, d.cfg.HPAlpha, by)
	fz := d.axes[2].process(d.hpc, d.lpc, d.cfg.HPAlpha, bz)

	rawMag := math.Sqrt(ax*ax + ay*ay + az*az)
	filtMag := math.Sqrt(fx*fx + fy*fy + fz*fz)

	d.sta.Push(filtMag)
	d.lta.Push(filtMag)
	d.calib.Push(filtMag)
	d.period.Push(filtMag)

	d.stepStateMachine(fx, fy, fz, filtMag, tsMs)

	d.emitDebug(rawMag, filtMag, tsMs)
}

func (d *Detector) ltaFull() bool {
	return d.lta.Full()
}

func (d *Detector) ratio() float64 {
	lta := d.lta.Avg()
	if lta == 0 {
		return 0
	}
	return d.sta.Avg() / lta
}

func (d *Detector) adaptiveTrigger() float64 {
	at := d.cfg.StaLtaTrigger + math.Sqrt(d.calib.Var())*100
	if at < d.cfg.AdaptiveTrigMin {
		return d.cfg.AdaptiveTrigMin
	}
	if at > d.cfg.AdaptiveTrigMax {
		return d.cfg.AdaptiveTrigMax
	}
	return at
}

func (d *Detector) emitDebug(rawMag, filtMag float64, tsMs uint64) {
	if d.onDebug == nil {
		return
	}
	if d.totalSamples%10 != 0 {
		return
	}
	if !d.ltaFull() {
		return
	}

	armed := d.lta.Avg() >= d.cfg.MinAmplitudeG
	tele := DebugTelemetry{
		RawMag:           rawMag,
		FilteredMag:      filtMag,
		Sta:              d.sta.Avg(),
		Lta:              d.lta.Avg(),
		BaselineVariance: d.calib.Var(),
		AdaptiveTrigger:  d.adaptiveTrigger(),
		State:            d.st.String(),
		LastReject:       d.lastReject,
		TimestampMs:      tsMs,
	}
	if armed {
		tele.Ratio = d.ratio()
	} else {
		tele.Ratio = 0
	}
	d.onDebug(tele)
}
