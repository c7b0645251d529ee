// Package dataset holds letter images and reads them from CSV files.
package dataset

const (
	// Side is the height and width of an image in pixels.
	Side = 28
	// Size is the number of pixels of an image.
	Size = Side * Side
	// MaxValue is the brightest pixel value before normalization.
	MaxValue = 255.0
	// Letters is the number of classes, 'A' to 'Z'.
	Letters = 26
	// Unknown labels an image that did not come from a dataset.
	Unknown = -1
)

// Image is a labelled grayscale bitmap. Label is 1 for 'A' up to 26 for
// 'Z', or Unknown.
type Image struct {
	Label  int
	Pixels []float64

	normalized bool
}

// NewRaw returns an unlabelled image over a copy of pixels.
func NewRaw(pixels []float64) Image {
	return Image{Label: Unknown, Pixels: append([]float64(nil), pixels...)}
}

// NewLabeled returns an image with the given label over pixels.
func NewLabeled(label int, pixels []float64) Image {
	return Image{Label: label, Pixels: pixels}
}

// Normalize scales pixels from [0, MaxValue] into [0, 1]. It runs once.
func (img *Image) Normalize() {
	if img.normalized {
		return
	}
	for i := range img.Pixels {
		img.Pixels[i] /= MaxValue
	}
	img.normalized = true
}

// Normalized reports whether Normalize has run.
func (img *Image) Normalized() bool { return img.normalized }

// Normalize normalizes every image in place.
func Normalize(images []Image) {
	for i := range images {
		images[i].Normalize()
	}
}
