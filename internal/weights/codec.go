// Package weights stores trained weight vectors together with the topology
// and training state they belong to.
//
// File layout, little endian:
//
//	signature   8 bytes "LNWEIGHT"
//	version     1 byte
//	settings    4 x uint64: hidden layers, input, hidden, output neurons
//	epoch       uint64
//	accuracy    uint64, percent
//	weights     float64 until EOF
package weights

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/pkg/errors"
)

const (
	Signature = "LNWEIGHT"
	Version   = 1

	// maxNeurons bounds every settings field read from a file.
	maxNeurons = 1 << 24
)

var (
	// ErrNotFound is returned when the weight file cannot be opened.
	ErrNotFound = errors.New("weights: file not found")
	// ErrFormat is returned for files that are not weight files or are truncated.
	ErrFormat = errors.New("weights: invalid file format")
)

// Data is the content of a weight file.
type Data struct {
	Settings backend.Settings
	Epoch    int
	Accuracy int
	Weights  []float64
}

type header struct {
	Signature [8]byte
	Version   uint8
	Settings  [4]uint64
	Epoch     uint64
	Accuracy  uint64
}

// Filename is the name under which a training run saves its weights.
func Filename(layers, epoch, accuracy int, t time.Time) string {
	return fmt.Sprintf("mlp_l%d_e%d_a%d_%s.bin", layers, epoch, accuracy, t.Format("2006-01-02_15-04-05"))
}

// Write creates or truncates the file at path and encodes d into it.
func Write(path string, d Data) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := Encode(file, d); err != nil {
		file.Close()
		return errors.WithMessage(err, path)
	}
	return errors.Wrapf(file.Close(), "close %s", path)
}

// Read decodes the file at path.
func Read(path string) (Data, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Data{}, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return Data{}, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	d, err := Decode(file)
	if err != nil {
		return Data{}, errors.WithMessage(err, path)
	}
	return d, nil
}

// Encode writes d to w.
func Encode(w io.Writer, d Data) error {
	if d.Epoch < 0 || d.Accuracy < 0 {
		return errors.Errorf("weights: negative epoch %d or accuracy %d", d.Epoch, d.Accuracy)
	}
	h := header{
		Version: Version,
		Settings: [4]uint64{
			uint64(d.Settings.HiddenLayers),
			uint64(d.Settings.InputNeurons),
			uint64(d.Settings.HiddenNeurons),
			uint64(d.Settings.OutputNeurons),
		},
		Epoch:    uint64(d.Epoch),
		Accuracy: uint64(d.Accuracy),
	}
	copy(h.Signature[:], Signature)

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "write header")
	}
	var buf [8]byte
	for _, v := range d.Weights {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return errors.Wrap(err, "write weights")
		}
	}
	return errors.Wrap(bw.Flush(), "flush")
}

// Decode reads a weight file from r until EOF.
func Decode(r io.Reader) (Data, error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Data{}, errors.Wrap(ErrFormat, "short header")
		}
		return Data{}, errors.Wrap(err, "read header")
	}
	if string(h.Signature[:]) != Signature {
		return Data{}, errors.Wrapf(ErrFormat, "signature %q", h.Signature[:])
	}
	if h.Version != Version {
		return Data{}, errors.Wrapf(ErrFormat, "version %d", h.Version)
	}
	for _, v := range h.Settings {
		if v > maxNeurons {
			return Data{}, errors.Wrapf(ErrFormat, "settings %v", h.Settings)
		}
	}
	if h.Epoch > math.MaxInt32 || h.Accuracy > math.MaxInt32 {
		return Data{}, errors.Wrapf(ErrFormat, "epoch %d, accuracy %d", h.Epoch, h.Accuracy)
	}

	d := Data{
		Settings: backend.Settings{
			HiddenLayers:  int(h.Settings[0]),
			InputNeurons:  int(h.Settings[1]),
			HiddenNeurons: int(h.Settings[2]),
			OutputNeurons: int(h.Settings[3]),
		},
		Epoch:    int(h.Epoch),
		Accuracy: int(h.Accuracy),
	}
	if err := d.Settings.Validate(); err != nil {
		return Data{}, errors.Wrapf(ErrFormat, "%v", err)
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return Data{}, errors.Wrap(err, "read weights")
	}
	if len(rest)%8 != 0 {
		return Data{}, errors.Wrapf(ErrFormat, "%d trailing bytes", len(rest)%8)
	}
	d.Weights = make([]float64, len(rest)/8)
	for i := range d.Weights {
		d.Weights[i] = math.Float64frombits(binary.LittleEndian.Uint64(rest[i*8:]))
	}
	return d, nil
}
