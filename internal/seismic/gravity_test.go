package seismic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravityEstimator_InitialState(t *testing.T) {
	t.Parallel()

	g := newGravityEstimator()
	assert.InDelta(t, 0, g.g[0], 1e-9)
	assert.InDelta(t, 0, g.g[1], 1e-9)
	assert.InDelta(t, -1, g.g[2], 1e-9)
}

func TestGravityEstimator_ConvergesToConstantInput(t *testing.T) {
	t.Parallel()

	g := newGravityEstimator()
	var bx, by, bz float64
	for i := 0; i < 5000; i++ {
		bx, by, bz = g.update(0.02, -0.01, -0.98)
	}

	// After enough samples at a constant input, gravity has converged and
	// body acceleration output should be near zero.
	assert.InDelta(t, 0, bx, 1e-3)
	assert.InDelta(t, 0, by, 1e-3)
	assert.InDelta(t, 0, bz, 1e-3)
}

func TestGravityEstimator_Reset(t *testing.T) {
	t.Parallel()

	g := newGravityEstimator()
	for i := 0; i < 100; i++ {
		g.update(1, 1, 1)
	}
	g.reset()

	assert.InDelta(t, 0, g.g[0], 1e-9)
	assert.InDelta(t, 0, g.g[1], 1e-9)
	assert.InDelta(t, -1, g.g[2], 1e-9)
}
