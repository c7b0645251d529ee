package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRunsOnce(t *testing.T) {
	img := NewLabeled(1, []float64{0, 51, 255})
	img.Normalize()
	assert.True(t, img.Normalized())
	assert.Equal(t, []float64{0, 0.2, 1}, img.Pixels)

	img.Normalize()
	assert.Equal(t, []float64{0, 0.2, 1}, img.Pixels)
}

func TestNewRawCopies(t *testing.T) {
	px := []float64{255}
	img := NewRaw(px)
	img.Normalize()
	assert.Equal(t, Unknown, img.Label)
	assert.Equal(t, 255.0, px[0])
}

func TestDecode(t *testing.T) {
	r := &Reader{Width: 3, MaxLabel: 26}
	images, err := r.Decode(strings.NewReader("1,0,128,255\n\n26, 1.5, 2, 3\r\n3,4,5,6,\n"))
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, 1, images[0].Label)
	assert.Equal(t, []float64{0, 128, 255}, images[0].Pixels)
	assert.Equal(t, 26, images[1].Label)
	assert.Equal(t, []float64{1.5, 2, 3}, images[1].Pixels)
	assert.Equal(t, []float64{4, 5, 6}, images[2].Pixels)
	assert.False(t, images[0].Normalized())
}

func TestDecodeCustomComma(t *testing.T) {
	r := &Reader{Comma: ';'}
	images, err := r.Decode(strings.NewReader("2;1;2\n"))
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, []float64{1, 2}, images[0].Pixels)
}

func TestDecodeEmpty(t *testing.T) {
	images, err := NewReader().Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad label", "x,1,2\n", "line 1"},
		{"bad pixel", "1,2,2\n1,2,abc\n", "line 2, column 5"},
		{"label zero", "0,1,2\n", "out of range"},
		{"label too big", "27,1,2\n", "out of range"},
		{"short record", "1,2\n", "1 pixels, want 2"},
		{"bare quote", "1,2\",3\n", "dataset"},
	}
	r := &Reader{Width: 2, MaxLabel: 26}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letters.csv")
	line := "5" + strings.Repeat(",255", Size) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(line+line), 0o644))

	images, err := NewReader().Read(path)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 5, images[1].Label)
	assert.Len(t, images[1].Pixels, Size)

	Normalize(images)
	assert.Equal(t, 1.0, images[0].Pixels[Size-1])
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewReader().Read(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, ErrNotFound))
}
