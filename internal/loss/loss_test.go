// Package loss provides unit tests for loss functions.
package loss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSquaredErrorForward tests the loss value.
func TestSquaredErrorForward(t *testing.T) {
	tests := []struct {
		name     string
		pred     []float64
		target   []float64
		expected float64
	}{
		{"perfect", []float64{1, 0}, []float64{1, 0}, 0},
		{"one off", []float64{0.5, 0}, []float64{1, 0}, 0.125},
		{"both off", []float64{0, 1}, []float64{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredError{}.Forward(tt.pred, tt.target), 1e-12)
		})
	}
}

// TestSquaredErrorBackward tests the gradient.
func TestSquaredErrorBackward(t *testing.T) {
	pred := []float64{0.64, 0.2}
	target := []float64{1, 0}
	want := []float64{0.64 - 1, 0.2}

	assert.Equal(t, want, SquaredError{}.Backward(pred, target))

	buf := make([]float64, 2)
	var l Loss = SquaredError{}
	inPlace, ok := l.(BackwardInPlacer)
	require.True(t, ok)
	inPlace.BackwardInPlace(pred, target, buf)
	assert.Equal(t, want, buf)
}

// TestSquaredErrorLengthMismatch tests the panic on mismatched slices.
func TestSquaredErrorLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		SquaredError{}.Forward([]float64{1}, []float64{1, 2})
	})
}
