package seismic

import "math"

// biquadCoeffs holds a Direct Form II Transposed biquad section's
// coefficients, normalized so that a0 == 1 (b/a already divided through).
type biquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// defaultSampleRate is the rate the hard-coded coefficients below were
// derived for; at any other rate the coefficients are recomputed via the
// bilinear transform (see highPassCoeffs/lowPassCoeffs).
const defaultSampleRate = 50.0

// highPassCoeffsDefault and lowPassCoeffsDefault are the exact coefficients
// specified for the 50 Hz default rate. They are kept as literals rather
// than derived at 50 Hz through the general formula, and they are not what
// that formula yields for 1 Hz and 15 Hz cutoffs at 50 Hz: the values
// differ well beyond rounding (the low-pass literals are the Butterworth
// section for a 12.5 Hz cutoff).
var highPassCoeffsDefault = biquadCoeffs{b0: 0.9429, b1: -1.8858, b2: 0.9429, a1: -1.8805, a2: 0.8853}
var lowPassCoeffsDefault = biquadCoeffs{b0: 0.2929, b1: 0.5858, b2: 0.2929, a1: 0.0, a2: 0.1716}

// butterworthQ is the Q of each cascaded Butterworth section (1/sqrt(2)).
const butterworthQ = 0.70710678118654752440

// highPassCoeffs computes an RBJ-cookbook high-pass biquad via the
// bilinear transform for an arbitrary sample rate and cutoff.
func highPassCoeffs(sampleRate, cutoff float64) biquadCoeffs {
	w0 := 2 * math.Pi * cutoff / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquadCoeffs{
		b0: ((1 + cosW0) / 2) / a0,
		b1: (-(1 + cosW0)) / a0,
		b2: ((1 + cosW0) / 2) / a0,
		a1: (-2 * cosW0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// lowPassCoeffs computes an RBJ-cookbook low-pass biquad via the bilinear
// transform for an arbitrary sample rate and cutoff.
func lowPassCoeffs(sampleRate, cutoff float64) biquadCoeffs {
	w0 := 2 * math.Pi * cutoff / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquadCoeffs{
		b0: ((1 - cosW0) / 2) / a0,
		b1: (1 - cosW0) / a0,
		b2: ((1 - cosW0) / 2) / a0,
		a1: (-2 * cosW0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// bandPassCoeffs picks the exact spec-documented coefficients at the
// default 50 Hz rate, and recomputes via the bilinear transform otherwise.
func bandPassCoeffs(sampleRate, lowCutoff, highCutoff float64) (hp, lp biquadCoeffs) {
	if sampleRate == defaultSampleRate && lowCutoff == 1 && highCutoff == 15 {
		return highPassCoeffsDefault, lowPassCoeffsDefault
	}
	return highPassCoeffs(sampleRate, lowCutoff), lowPassCoeffs(sampleRate, highCutoff)
}

// biquadState holds the two delay-line registers of a Direct Form II
// Transposed biquad section.
type biquadState struct {
	w1, w2 float64
}

func (s *biquadState) process(c biquadCoeffs, x float64) float64 {
	y := c.b0*x + s.w1
	s.w1 = c.b1*x - c.a1*y + s.w2
	s.w2 = c.b2*x - c.a2*y
	return y
}

func (s *biquadState) reset() {
	s.w1, s.w2 = 0, 0
}

// polishState holds the single-pole "belt and braces" high-pass polish
// stage applied after the band-pass cascade. Its placement after the
// band-pass, rather than before, is unusual but intentional: it adds a
// second, independent line of DC rejection against slow baseline drift
// that the primary band-pass alone does not fully remove.
type polishState struct {
	prevIn, prevOut float64
}

func (p *polishState) process(alpha, x float64) float64 {
	y := alpha * (p.prevOut + x - p.prevIn)
	p.prevIn = x
	p.prevOut = y
	return y
}

func (p *polishState) reset() {
	p.prevIn, p.prevOut = 0, 0
}

// axisFilter is the full per-axis chain: high-pass biquad, then low-pass
// biquad (together forming the 4th-order 1-15 Hz Butterworth band-pass),
// then the polish high-pass.
type axisFilter struct {
	hp     biquadState
	lp     biquadState
	polish polishState
}

func (f *axisFilter) process(hpc, lpc biquadCoeffs, hpAlpha, x float64) float64 {
	y := f.hp.process(hpc, x)
	y = f.lp.process(lpc, y)
	return f.polish.process(hpAlpha, y)
}

func (f *axisFilter) reset() {
	f.hp.reset()
	f.lp.reset()
	f.polish.reset()
}
