package backend

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsWidths(t *testing.T) {
	s := Settings{HiddenLayers: 2, InputNeurons: 4, HiddenNeurons: 3, OutputNeurons: 2}
	assert.Equal(t, []int{4, 3, 3, 2}, s.Widths())
	assert.Equal(t, 4*3+3*3+3*2, s.WeightCount())

	s.HiddenLayers = 0
	assert.Equal(t, []int{4, 2}, s.Widths())
	assert.Equal(t, 8, s.WeightCount())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, 784*140+3*140*140+140*26, s.WeightCount())
}

func TestSettingsValidate(t *testing.T) {
	bad := []Settings{
		{HiddenLayers: -1, InputNeurons: 1, HiddenNeurons: 1, OutputNeurons: 1},
		{HiddenLayers: 1, InputNeurons: 0, HiddenNeurons: 1, OutputNeurons: 1},
		{HiddenLayers: 1, InputNeurons: 1, HiddenNeurons: 0, OutputNeurons: 1},
		{HiddenLayers: 1, InputNeurons: 1, HiddenNeurons: 1, OutputNeurons: 0},
	}
	for _, s := range bad {
		assert.True(t, errors.Is(s.Validate(), ErrSettings), "%+v", s)
	}
	ok := Settings{HiddenLayers: 0, InputNeurons: 2, OutputNeurons: 1}
	assert.NoError(t, ok.Validate())
}

func TestTypeText(t *testing.T) {
	for _, typ := range []Type{Matrix, Graph} {
		b, err := typ.MarshalText()
		require.NoError(t, err)
		var got Type
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, typ, got)
	}

	v, err := ParseType(" Graph ")
	require.NoError(t, err)
	assert.Equal(t, Graph, v)

	_, err = ParseType("tensor")
	assert.Error(t, err)
	_, err = Type(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Type(7)", Type(7).String())
}
