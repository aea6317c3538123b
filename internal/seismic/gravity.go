package seismic

// gravityAlpha is the single-pole low-pass coefficient that approximates a
// 0.1 Hz cutoff at 50 Hz sample rate.
const gravityAlpha = 0.01245

// gravityEstimator tracks the static gravity vector per axis with a slow
// first-order low-pass, so that subtracting its output from a raw sample
// yields linear body acceleration independent of device orientation.
type gravityEstimator struct {
	g [3]float64
}

// newGravityEstimator starts from a face-up guess; the filter converges
// to the true orientation regardless of the initial guess.
func newGravityEstimator() gravityEstimator {
	return gravityEstimator{g: [3]float64{0, 0, -1}}
}

// update advances the gravity estimate with one raw sample and returns
// the body-acceleration residual (raw minus estimated gravity) per axis.
func (ge *gravityEstimator) update(ax, ay, az float64) (bx, by, bz float64) {
	raw := [3]float64{ax, ay, az}
	for i := 0; i < 3; i++ {
		ge.g[i] += gravityAlpha * (raw[i] - ge.g[i])
	}
	return raw[0] - ge.g[0], raw[1] - ge.g[1], raw[2] - ge.g[2]
}

func (ge *gravityEstimator) reset() {
	ge.g = [3]float64{0, 0, -1}
}
