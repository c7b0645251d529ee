// Package activations provides unit tests for activation functions.
package activations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSigmoid tests Sigmoid activation.
func TestSigmoid(t *testing.T) {
	sigmoid := Sigmoid{}

	tests := []struct {
		input    float64
		expected float64
	}{
		{math.Inf(-1), 0.0},
		{-2.0, 1 / (1 + math.Exp(2))},
		{0.0, 0.5},
		{0.65, 0.6570104626734988},
		{2.0, 1 / (1 + math.Exp(-2))},
		{math.Inf(1), 1.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, sigmoid.Activate(tt.input), 1e-12, "Sigmoid(%v)", tt.input)
	}
}

// TestSigmoidDerivative tests the derivative expressed through the output.
func TestSigmoidDerivative(t *testing.T) {
	sigmoid := Sigmoid{}

	for _, x := range []float64{-3, -0.5, 0, 0.5, 3} {
		y := sigmoid.Activate(x)
		h := 1e-6
		numeric := (sigmoid.Activate(x+h) - sigmoid.Activate(x-h)) / (2 * h)
		assert.InDelta(t, numeric, sigmoid.Derivative(y), 1e-8, "Derivative(%v)", y)
	}

	assert.Equal(t, 0.25, sigmoid.Derivative(0.5))
}

// TestUniformRange tests that weights stay within [-1, 1].
func TestUniformRange(t *testing.T) {
	src := Seeded(42)
	var neg, pos int
	for i := 0; i < 10000; i++ {
		w := src()
		require.True(t, w >= -1 && w <= 1, "weight %v out of range", w)
		if w < 0 {
			neg++
		} else {
			pos++
		}
	}
	assert.Greater(t, neg, 4000)
	assert.Greater(t, pos, 4000)
}

// TestSeededIsReproducible tests that equal seeds give equal sequences.
func TestSeededIsReproducible(t *testing.T) {
	a, b := Seeded(7), Seeded(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a(), b(), "step %d", i)
	}
	assert.NotEqual(t, Seeded(7)(), Seeded(8)())
}

func TestConstant(t *testing.T) {
	src := Constant(0.3)
	assert.Equal(t, 0.3, src())
	assert.Equal(t, 0.3, src())
}
