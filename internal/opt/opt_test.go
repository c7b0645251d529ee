// Package opt provides unit tests for optimizers and schedulers.
package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSGDStep tests SGD step computation.
func TestSGDStep(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}

	params := []float64{1.0, 2.0, 3.0}
	gradients := []float64{0.1, 0.2, 0.3}

	updated := sgd.Step(params, gradients)

	assert.InDeltaSlice(t, []float64{0.99, 1.98, 2.97}, updated, 1e-10)
	assert.Equal(t, 1.0, params[0], "Step modified its input")
}

// TestSGDStepInPlace tests in-place SGD update.
func TestSGDStepInPlace(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}

	params := []float64{1.0, 2.0, 3.0}
	gradients := []float64{0.1, 0.2, 0.3}

	sgd.StepInPlace(params, gradients)

	assert.InDeltaSlice(t, []float64{0.99, 1.98, 2.97}, params, 1e-10)
}

// TestHalvingLR tests the fixed decay schedule.
func TestHalvingLR(t *testing.T) {
	s := NewHalvingLR(0.8)

	// learning rate in effect during epochs 0..6
	expected := []float64{0.8, 0.8, 0.8, 0.4, 0.2, 0.1, 0.1}
	for epoch, want := range expected {
		assert.InDelta(t, want, s.LearningRate(), 1e-15, "epoch %d", epoch)
		s.Step()
	}
}

// TestMilestoneLR tests arbitrary milestones.
func TestMilestoneLR(t *testing.T) {
	var s Scheduler = NewMilestoneLR(1, 0.1, 0)
	s.Step()
	assert.InDelta(t, 0.1, s.LearningRate(), 1e-15)
	s.Step()
	assert.InDelta(t, 0.1, s.LearningRate(), 1e-15, "non-milestone step")
}
