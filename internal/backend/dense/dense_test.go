package dense

import (
	"testing"

	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardAndBackPropagation(t *testing.T) {
	mn, err := New(backend.Settings{HiddenLayers: 1, InputNeurons: 2, HiddenNeurons: 3, OutputNeurons: 1}, nil)
	require.NoError(t, err)

	require.NoError(t, mn.LoadWeights([]float64{0.5, 0.3, 0.2, 0.1, 0.6, 0.4, 0.2, 0.3, 0.4}))
	mn.SetInput([]float64{1, 0.5})
	mn.Forward()

	const want = 0.64015681610605701
	require.Len(t, mn.Output(), 1)
	assert.InDelta(t, want, mn.Output()[0], 1e-12)

	mn.Backward([]float64{1}, 0.3)
	mn.Forward()
	assert.Greater(t, mn.Output()[0], want)
}

func TestOutputBeforeForwardIsZero(t *testing.T) {
	mn, err := New(backend.Settings{HiddenLayers: 2, InputNeurons: 3, HiddenNeurons: 2, OutputNeurons: 4}, activations.Seeded(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, mn.Output())
}

func TestWeightsRowMajor(t *testing.T) {
	s := backend.Settings{HiddenLayers: 0, InputNeurons: 3, OutputNeurons: 2}
	mn, err := New(s, nil)
	require.NoError(t, err)

	w := []float64{1, 2, 3, 4, 5, 6}
	require.NoError(t, mn.LoadWeights(w))
	assert.Equal(t, w, mn.Weights())
	assert.Equal(t, 6.0, mn.weights[0].At(1, 2))

	mn.SetInput([]float64{0, 0, 0})
	mn.Forward()
	assert.Equal(t, []float64{0.5, 0.5}, mn.Output())
}

func TestLoadWeightsRejectsWrongLength(t *testing.T) {
	mn, err := New(backend.DefaultSettings(), activations.Seeded(2))
	require.NoError(t, err)
	err = mn.LoadWeights([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, backend.ErrWeightCount))
}

func TestSetInputPanicsOnWrongLength(t *testing.T) {
	mn, err := New(backend.Settings{InputNeurons: 2, OutputNeurons: 1}, nil)
	require.NoError(t, err)
	assert.Panics(t, func() { mn.SetInput([]float64{1, 2, 3}) })
}
