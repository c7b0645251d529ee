package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the dataset file cannot be opened.
	ErrNotFound = errors.New("dataset: file not found")
	// ErrParse is returned for malformed records.
	ErrParse = errors.New("dataset: malformed record")
)

// Reader decodes "<label>,<p0>,...,<pN>" records, one image per line.
// Blank lines are skipped.
type Reader struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// Width is the expected number of pixels per record. Zero disables the check.
	Width int
	// MaxLabel is the largest accepted label. Zero disables the check.
	MaxLabel int
}

// NewReader returns a Reader for 28x28 letter images.
func NewReader() *Reader {
	return &Reader{Comma: ',', Width: Size, MaxLabel: Letters}
}

// Read loads every image of the file at path.
func (r *Reader) Read(path string) ([]Image, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	images, err := r.Decode(file)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return images, nil
}

// Decode reads images from src until EOF.
func (r *Reader) Decode(src io.Reader) ([]Image, error) {
	cr := csv.NewReader(src)
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var images []Image
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return images, nil
		}
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "%v", err)
		}
		img, err := r.parse(cr, record)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
}

func (r *Reader) parse(cr *csv.Reader, record []string) (Image, error) {
	line, col := cr.FieldPos(0)
	label, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Image{}, errors.Wrapf(ErrParse, "line %d, column %d: label %q", line, col, record[0])
	}
	if label < 1 || (r.MaxLabel > 0 && label > r.MaxLabel) {
		return Image{}, errors.Wrapf(ErrParse, "line %d, column %d: label %d out of range", line, col, label)
	}

	fields := record[1:]
	// a trailing delimiter leaves an empty last field
	if n := len(fields); n > 0 && strings.TrimSpace(fields[n-1]) == "" {
		fields = fields[:n-1]
	}
	if r.Width > 0 && len(fields) != r.Width {
		return Image{}, errors.Wrapf(ErrParse, "line %d: %d pixels, want %d", line, len(fields), r.Width)
	}

	pixels := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			line, col := cr.FieldPos(i + 1)
			return Image{}, errors.Wrapf(ErrParse, "line %d, column %d: pixel %q", line, col, f)
		}
		pixels[i] = v
	}
	return NewLabeled(label, pixels), nil
}
