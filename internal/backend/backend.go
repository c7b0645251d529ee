// Package backend defines the contract shared by the network implementations
// and the topology they are built from.
package backend

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrWeightCount is returned when a weight vector does not fit the topology.
	ErrWeightCount = errors.New("backend: weight vector length does not match topology")
	// ErrSettings is returned for topologies that cannot be built.
	ErrSettings = errors.New("backend: invalid network settings")
)

// Backend is a feed-forward sigmoid network trained by gradient descent.
type Backend interface {
	// SetInput installs x as the input layer output. len(x) must equal the
	// input width.
	SetInput(x []float64)
	// Forward recomputes every layer from the current input and weights.
	Forward()
	// Backward updates all weights and biases against the expected output of
	// the last forward pass.
	Backward(expected []float64, learningRate float64)
	// Output returns a copy of the last layer's output.
	Output() []float64
	// Weights returns the flat weight vector.
	Weights() []float64
	// LoadWeights replaces the weights with w.
	LoadWeights(w []float64) error
}

// Type selects a backend implementation.
type Type int

const (
	// Matrix keeps one weight matrix per layer transition.
	Matrix Type = iota
	// Graph keeps explicit neurons with weighted connections.
	Graph
)

func (t Type) String() string {
	switch t {
	case Matrix:
		return "matrix"
	case Graph:
		return "graph"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType parses "matrix" or "graph".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matrix":
		return Matrix, nil
	case "graph":
		return Graph, nil
	}
	return 0, errors.Errorf("backend: unknown network type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t != Matrix && t != Graph {
		return nil, errors.Errorf("backend: unknown network type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Settings is the topology of a network: an input layer, HiddenLayers layers
// of HiddenNeurons each and an output layer.
type Settings struct {
	HiddenLayers  int
	InputNeurons  int
	HiddenNeurons int
	OutputNeurons int
}

// DefaultSettings is a 28x28 pixel input, four hidden layers of 140 neurons
// and one output per letter.
func DefaultSettings() Settings {
	return Settings{
		HiddenLayers:  4,
		InputNeurons:  784,
		HiddenNeurons: 140,
		OutputNeurons: 26,
	}
}

// Validate checks that every layer has at least one neuron.
func (s Settings) Validate() error {
	if s.HiddenLayers < 0 || s.InputNeurons <= 0 || s.OutputNeurons <= 0 ||
		(s.HiddenLayers > 0 && s.HiddenNeurons <= 0) {
		return errors.Wrapf(ErrSettings, "%+v", s)
	}
	return nil
}

// Widths returns the neuron count of every layer, input first.
func (s Settings) Widths() []int {
	w := make([]int, 0, s.HiddenLayers+2)
	w = append(w, s.InputNeurons)
	for i := 0; i < s.HiddenLayers; i++ {
		w = append(w, s.HiddenNeurons)
	}
	return append(w, s.OutputNeurons)
}

// WeightCount is the length of the flat weight vector for s.
func (s Settings) WeightCount() int {
	w := s.Widths()
	n := 0
	for i := 1; i < len(w); i++ {
		n += w[i] * w[i-1]
	}
	return n
}
