package seismic

import "math"

// runRejectionCascade evaluates the four rejection checks in order and
// returns the first one that fails, or RejectNone if the candidate
// survives all of them.
func (d *Detector) runRejectionCascade(freqHz float64) RejectCode {
	if code := d.checkAxisCoherence(); code != RejectNone {
		return code
	}
	if code := d.checkFrequency(freqHz); code != RejectNone {
		return code
	}
	if code := d.checkPeriodicity(); code != RejectNone {
		return code
	}
	if code := d.checkEnergyDist(); code != RejectNone {
		return code
	}
	return RejectNone
}

// checkAxisCoherence rejects candidates where only one axis carries the
// motion, the signature of a knock or tap rather than a wavefront.
func (d *Detector) checkAxisCoherence() RejectCode {
	mx, mn := d.axisPeak[0], d.axisPeak[0]
	for _, v := range d.axisPeak {
		if v > mx {
			mx = v
		}
		if v < mn {
			mn = v
		}
	}
	if mx > 0 && mn/mx < d.cfg.AxisCoherenceMin {
		return RejectAxisCoherence
	}
	return RejectNone
}

func (d *Detector) checkFrequency(freqHz float64) RejectCode {
	if freqHz < d.cfg.PWaveFreqMin || freqHz > d.cfg.PWaveFreqMax {
		return RejectFrequency
	}
	return RejectNone
}

// checkPeriodicity rejects candidates whose recent magnitude history is
// dominated by 1.5-2.5 Hz cyclic motion (gait, elevators, vehicles).
func (d *Detector) checkPeriodicity() RejectCode {
	if !d.period.Full() {
		return RejectNone
	}
	if autocorrPeak(d.period, d.cfg.SampleRateHz) >= d.cfg.PeriodicityThresh {
		return RejectPeriodicity
	}
	return RejectNone
}

// checkEnergyDist rejects candidates where a single axis carries almost
// all of the summed squared energy, even if the max/min peak ratio alone
// passed axis coherence.
func (d *Detector) checkEnergyDist() RejectCode {
	te := d.axisEnergy[0] + d.axisEnergy[1] + d.axisEnergy[2]
	me := d.axisEnergy[0]
	for _, v := range d.axisEnergy {
		if v > me {
			me = v
		}
	}
	if te > 0 && me/te > 0.85 {
		return RejectEnergyDist
	}
	return RejectNone
}

// autocorrMinN is the minimum number of periodicity-ring samples required
// before autocorrelation is evaluated.
const autocorrMinN = 60

// autocorrPeak computes the maximum normalized autocorrelation of the
// ring's contents over lags corresponding to 1.5-2.5 Hz cyclic motion,
// returning 0 if the ring is too short or has near-zero variance.
func autocorrPeak(ring *RingBuffer, sampleRateHz float64) float64 {
	n := ring.Len()
	if n < autocorrMinN {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += ring.At(i)
	}
	mean := sum / float64(n)

	var v float64
	for i := 0; i < n; i++ {
		d := ring.At(i) - mean
		v += d * d
	}
	if v < 1e-10 {
		return 0
	}

	lagMin := int(math.Floor(sampleRateHz / 2.5))
	lagMax := int(math.Floor(sampleRateHz / 1.5))

	best := 0.0
	for lag := lagMin; lag <= lagMax; lag++ {
		if lag <= 0 || lag >= n/2 {
			continue
		}
		var c float64
		for i := 0; i < n-lag; i++ {
			c += (ring.At(i) - mean) * (ring.At(i+lag) - mean)
		}
		c /= v
		if c > best {
			best = c
		}
	}
	return best
}
