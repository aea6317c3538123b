// Package simulate generates synthetic tri-axial accelerometer streams
// for exercising a seismic.Detector without real hardware. Each scenario
// mirrors one of the reference motion profiles used to validate the
// rejection cascade and trigger logic during development.
package simulate

import "math"

// Sample is one tri-axial reading with an offset from stream start.
type Sample struct {
	AX, AY, AZ float64
	OffsetMs   uint64
}

// Scenario generates a deterministic stream of Samples at the given
// sample rate. Generators are pure functions of (sampleRateHz, seed);
// they never read global state, so the same arguments always produce
// the same stream.
type Scenario func(sampleRateHz float64, seed uint64) []Sample

// splitmix64 is a small deterministic pseudo-random source
// used instead of math/rand so scenario generation never depends on
// global RNG state and stays reproducible across runs.
type splitmix64 struct{ state uint64 }

func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// normal returns an approximately standard-normal value via the
// Box-Muller transform over two uniform draws from the splitmix64
// source.
func (s *splitmix64) normal() float64 {
	u1 := float64(s.next()>>11) / (1 << 53)
	u2 := float64(s.next()>>11) / (1 << 53)
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// QuietBaseline produces tri-axial Gaussian noise with sigma 0.003 g on
// each axis and no seismic signal: the detector must never fire.
func QuietBaseline(n int) Scenario {
	return func(sampleRateHz float64, seed uint64) []Sample {
		return gaussianNoise(n, 0.003, sampleRateHz, seed)
	}
}

// ImpulseTap produces an S1-like baseline with a brief single-axis
// spike, modeling a phone being tapped or set down.
func ImpulseTap(baselineN int, spikeG float64, spikeSamples int) Scenario {
	return func(sampleRateHz float64, seed uint64) []Sample {
		samples := gaussianNoise(baselineN, 0.003, sampleRateHz, seed)
		for i := 0; i < spikeSamples; i++ {
			t := baselineN + i
			samples = append(samples, Sample{
				AX:       spikeG,
				AY:       samples[len(samples)-1].AY,
				AZ:       samples[len(samples)-1].AZ,
				OffsetMs: uint64(float64(t) * 1000 / sampleRateHz),
			})
		}
		return samples
	}
}

// WalkingSimulation produces a sustained 2 Hz sinusoid on all axes atop
// baseline noise, modeling a phone carried while walking.
func WalkingSimulation(baselineN int, durationSec float64) Scenario {
	return sustainedSine(baselineN, durationSec, 2.0, 0.05)
}

// LowFrequencySway produces a sustained 0.5 Hz sinusoid, below the
// configured P-wave frequency band, modeling a slow rocking motion.
func LowFrequencySway(baselineN int, durationSec float64) Scenario {
	return sustainedSine(baselineN, durationSec, 0.5, 0.1)
}

// PWaveArrival produces a 3 Hz broadband chirp of peak amplitude atop
// baseline noise, modeling a genuine P-wave arrival.
func PWaveArrival(baselineN int, durationSec float64) Scenario {
	return broadbandChirp(baselineN, durationSec, 3.0, 0.08)
}

// SevereShaking produces a 5 Hz broadband burst at high amplitude,
// modeling strong shaking.
func SevereShaking(baselineN int, durationSec float64) Scenario {
	return broadbandChirp(baselineN, durationSec, 5.0, 0.5)
}

func gaussianNoise(n int, sigma, sampleRateHz float64, seed uint64) []Sample {
	rng := &splitmix64{state: seed | 1}
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{
			AX:       sigma * rng.normal(),
			AY:       sigma * rng.normal(),
			AZ:       -1 + sigma*rng.normal(),
			OffsetMs: uint64(float64(i) * 1000 / sampleRateHz),
		}
	}
	return out
}

func sustainedSine(baselineN int, durationSec, freqHz, amplitudeG float64) Scenario {
	return func(sampleRateHz float64, seed uint64) []Sample {
		out := gaussianNoise(baselineN, 0.003, sampleRateHz, seed)
		n := int(durationSec * sampleRateHz)
		for i := 0; i < n; i++ {
			t := float64(i) / sampleRateHz
			v := amplitudeG * math.Sin(2*math.Pi*freqHz*t)
			out = append(out, Sample{
				AX:       v,
				AY:       v,
				AZ:       -1 + v,
				OffsetMs: uint64(float64(baselineN+i) * 1000 / sampleRateHz),
			})
		}
		return out
	}
}

// broadbandChirp sums three closely spaced sinusoids around centerHz to
// approximate a broadband pulse without a spectral-synthesis dependency.
func broadbandChirp(baselineN int, durationSec, centerHz, peakG float64) Scenario {
	return func(sampleRateHz float64, seed uint64) []Sample {
		out := gaussianNoise(baselineN, 0.003, sampleRateHz, seed)
		n := int(durationSec * sampleRateHz)
		component := peakG / 3
		for i := 0; i < n; i++ {
			t := float64(i) / sampleRateHz
			v := component*math.Sin(2*math.Pi*centerHz*t) +
				component*math.Sin(2*math.Pi*(centerHz*1.4)*t) +
				component*math.Sin(2*math.Pi*(centerHz*0.7)*t)
			out = append(out, Sample{
				AX:       v,
				AY:       v * 0.9,
				AZ:       -1 + v*0.8,
				OffsetMs: uint64(float64(baselineN+i) * 1000 / sampleRateHz),
			})
		}
		return out
	}
}
