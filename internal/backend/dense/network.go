// Package dense implements the backend with one weight matrix per layer
// transition.
package dense

import (
	"fmt"

	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/FlavioCFOliveira/letternet/internal/loss"
	"github.com/FlavioCFOliveira/letternet/internal/matrix"
	"github.com/FlavioCFOliveira/letternet/internal/opt"
	"github.com/pkg/errors"
)

// Network keeps, for transition i, an out x in weight matrix weights[i] and
// an out x 1 bias column biases[i]. values[i] is the output column of layer i.
type Network struct {
	settings backend.Settings
	act      activations.Activation
	weights  []*matrix.Matrix
	biases   []*matrix.Matrix
	values   []*matrix.Matrix
}

var _ backend.Backend = (*Network)(nil)

// New builds a network for s. Weights are drawn from src matrix by matrix in
// row-major order.
func New(s backend.Settings, src activations.WeightSource) (*Network, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = activations.Uniform(nil)
	}
	widths := s.Widths()
	n := &Network{
		settings: s,
		act:      activations.Sigmoid{},
		values:   make([]*matrix.Matrix, len(widths)),
	}
	for i, w := range widths {
		n.values[i] = matrix.Must(matrix.New(w, 1))
	}
	for i := 1; i < len(widths); i++ {
		w := matrix.Must(matrix.New(widths[i], widths[i-1]))
		raw := w.Raw()
		for j := range raw {
			raw[j] = src()
		}
		n.weights = append(n.weights, w)
		n.biases = append(n.biases, matrix.Must(matrix.New(widths[i], 1)))
	}
	return n, nil
}

func (n *Network) SetInput(x []float64) {
	if len(x) != n.settings.InputNeurons {
		panic(fmt.Sprintf("dense: %d values for an input layer of %d neurons", len(x), n.settings.InputNeurons))
	}
	n.values[0] = matrix.Must(matrix.Column(x))
}

func (n *Network) Forward() {
	for i, w := range n.weights {
		z := matrix.Must(matrix.Mul(w, n.values[i]))
		if err := z.AddInPlace(n.biases[i]); err != nil {
			panic(err)
		}
		n.values[i+1] = z.Apply(n.act.Activate)
	}
}

func (n *Network) Backward(expected []float64, learningRate float64) {
	sgd := opt.SGD{LearningRate: learningRate}
	last := len(n.values) - 1

	grad := loss.SquaredError{}.Backward(n.values[last].Raw(), expected)
	errM := matrix.Must(matrix.Hadamard(
		matrix.Must(matrix.Column(grad)),
		n.values[last].Apply(n.act.Derivative),
	))

	for i := len(n.weights) - 1; i >= 0; i-- {
		gradW := matrix.Must(matrix.Mul(errM, n.values[i].Transpose()))
		sgd.StepInPlace(n.weights[i].Raw(), gradW.Raw())
		sgd.StepInPlace(n.biases[i].Raw(), errM.Raw())
		if i == 0 {
			break
		}
		errM = matrix.Must(matrix.Hadamard(
			matrix.Must(matrix.Mul(n.weights[i].Transpose(), errM)),
			n.values[i].Apply(n.act.Derivative),
		))
	}
}

func (n *Network) Output() []float64 {
	return append([]float64(nil), n.values[len(n.values)-1].Raw()...)
}

// Weights flattens every weight matrix in row-major order.
func (n *Network) Weights() []float64 {
	w := make([]float64, 0, n.settings.WeightCount())
	for _, m := range n.weights {
		w = append(w, m.Raw()...)
	}
	return w
}

func (n *Network) LoadWeights(w []float64) error {
	if want := n.settings.WeightCount(); len(w) != want {
		return errors.Wrapf(backend.ErrWeightCount, "got %d, want %d", len(w), want)
	}
	k := 0
	for _, m := range n.weights {
		k += copy(m.Raw(), w[k:])
	}
	return nil
}
