package weights

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Data {
	return Data{
		Settings: backend.Settings{HiddenLayers: 1, InputNeurons: 2, HiddenNeurons: 3, OutputNeurons: 1},
		Epoch:    3,
		Accuracy: 81,
		Weights:  []float64{0.5, -0.3, 0.2, 0.1, 0.6, 0.4, 0.2, 0.3, math.SmallestNonzeroFloat64},
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.bin")
	require.NoError(t, Write(path, sample()))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	// writing again truncates
	d := sample()
	d.Weights = d.Weights[:2]
	require.NoError(t, Write(path, d))
	got, err = Read(path)
	require.NoError(t, err)
	assert.Len(t, got.Weights, 2)
}

func TestLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Data{
		Settings: backend.Settings{HiddenLayers: 2, InputNeurons: 4, HiddenNeurons: 5, OutputNeurons: 6},
		Epoch:    7,
		Accuracy: 8,
		Weights:  []float64{1},
	}))
	b := buf.Bytes()
	require.Len(t, b, 8+1+6*8+8)
	assert.Equal(t, "LNWEIGHT", string(b[:8]))
	assert.Equal(t, byte(Version), b[8])
	assert.Equal(t, byte(2), b[9])
	assert.Equal(t, byte(4), b[17])
	assert.Equal(t, byte(7), b[41])
	assert.Equal(t, byte(8), b[49])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, b[57:])
}

func TestDecodeEmptyWeights(t *testing.T) {
	d := sample()
	d.Weights = nil
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Weights)
}

func TestDecodeErrors(t *testing.T) {
	var good bytes.Buffer
	require.NoError(t, Encode(&good, sample()))
	raw := good.Bytes()

	badSig := append([]byte(nil), raw...)
	copy(badSig, "SCHOOL21")
	badVersion := append([]byte(nil), raw...)
	badVersion[8] = 9
	noOutput := append([]byte(nil), raw...)
	copy(noOutput[33:41], make([]byte, 8))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", raw[:20]},
		{"signature", badSig},
		{"version", badVersion},
		{"settings", noOutput},
		{"partial float", raw[:len(raw)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.bin"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	_, err := Read(path)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 10, 19, 14, 3, 5, 0, time.UTC)
	assert.Equal(t, "mlp_l4_e2_a81_2026-10-19_14-03-05.bin", Filename(4, 2, 81, ts))
}
