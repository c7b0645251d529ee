package letternet

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade(t *testing.T) {
	m := New(WithLogger(log.New(io.Discard, "", 0)), WithSeed(3))
	assert.Equal(t, uint64(3), m.Configuration().Seed)
	assert.Equal(t, DefaultConfiguration().Epochs, m.Configuration().Epochs)

	_, err := m.Classify(make([]float64, 784))
	assert.True(t, errors.Is(err, ErrNetworkNotReady))

	typ, err := ParseNetworkType("graph")
	require.NoError(t, err)
	assert.Equal(t, Graph, typ)

	mode, err := ParseTestMode("weights")
	require.NoError(t, err)
	assert.Equal(t, Weights, mode)

	assert.Equal(t, 26, DefaultSettings().OutputNeurons)

	_, err = ReadDataset(filepath.Join(t.TempDir(), "none.csv"))
	assert.True(t, errors.Is(err, ErrDatasetNotFound))

	_, err = LoadConfiguration(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
