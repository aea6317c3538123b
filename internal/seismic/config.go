package seismic

// Hard capacity maxima the ring buffers may never grow beyond, regardless
// of what UpdateConfig requests. These bound worst-case memory for the
// sampling thread.
const (
	MaxSTAWindow    = 100
	MaxLTAWindow    = 1000
	MaxCalibWindow  = 5000
	MaxPeriodWindow = 200
)

// Config holds the detector's tunable parameters. It is immutable for the
// duration of a processing session but may be swapped wholesale via
// Detector.UpdateConfig.
type Config struct {
	SampleRateHz      float64
	HPAlpha           float64
	STAWindow         int
	LTAWindow         int
	StaLtaTrigger     float64
	StaLtaDetrigger   float64
	MinAmplitudeG     float64
	MinSustained      int
	AxisCoherenceMin  float64
	Cooldown          int
	PWaveFreqMin      float64
	PWaveFreqMax      float64
	CalibWindow       int
	AdaptiveTrigMin   float64
	AdaptiveTrigMax   float64
	PeriodicityThresh float64
}

// DefaultConfig returns the configuration documented as the default for
// every tunable field.
func DefaultConfig() Config {
	return Config{
		SampleRateHz:      50,
		HPAlpha:           0.98,
		STAWindow:         25,
		LTAWindow:         500,
		StaLtaTrigger:     4.5,
		StaLtaDetrigger:   1.5,
		MinAmplitudeG:     0.012,
		MinSustained:      15,
		AxisCoherenceMin:  0.4,
		Cooldown:          500,
		PWaveFreqMin:      1,
		PWaveFreqMax:      15,
		CalibWindow:       2500,
		AdaptiveTrigMin:   3.5,
		AdaptiveTrigMax:   8.0,
		PeriodicityThresh: 0.6,
	}
}

// clampWindow restricts a window size request to [1, max].
func clampWindow(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// sanitized returns a copy of c with every window/rate field clamped into
// its legal range. Malformed configuration never causes an error at this
// boundary: it is clamped instead.
func (c Config) sanitized() Config {
	out := c
	out.STAWindow = clampWindow(c.STAWindow, MaxSTAWindow)
	out.LTAWindow = clampWindow(c.LTAWindow, MaxLTAWindow)
	out.CalibWindow = clampWindow(c.CalibWindow, MaxCalibWindow)
	if out.SampleRateHz <= 0 {
		out.SampleRateHz = DefaultConfig().SampleRateHz
	}
	if out.MinSustained < 1 {
		out.MinSustained = 1
	}
	if out.Cooldown < 0 {
		out.Cooldown = 0
	}
	if out.AdaptiveTrigMax < out.AdaptiveTrigMin {
		out.AdaptiveTrigMax = out.AdaptiveTrigMin
	}
	return out
}

// periodicityCapacity is floor(4*Fs), the ring size backing the
// autocorrelation periodicity check, clamped to MaxPeriodWindow.
func periodicityCapacity(sampleRateHz float64) int {
	n := int(4 * sampleRateHz)
	return clampWindow(n, MaxPeriodWindow)
}
