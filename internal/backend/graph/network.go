// Package graph implements the backend as an explicit graph of neurons.
// Every layer owns its neurons; a neuron refers to upstream neurons by index.
package graph

import (
	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/pkg/errors"
)

// Network is a fully connected neuron graph.
type Network struct {
	settings backend.Settings
	layers   []*Layer
}

var _ backend.Backend = (*Network)(nil)

// New builds a network for s. Weights are drawn from src in flattening order.
func New(s backend.Settings, src activations.WeightSource) (*Network, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = activations.Uniform(nil)
	}
	widths := s.Widths()
	layers := make([]*Layer, 0, len(widths))
	layers = append(layers, NewInputLayer(widths[0]))
	for _, w := range widths[1:] {
		layers = append(layers, NewLayer(w, layers[len(layers)-1], src))
	}
	return &Network{settings: s, layers: layers}, nil
}

// Layers returns the layers, input first.
func (n *Network) Layers() []*Layer { return n.layers }

func (n *Network) SetInput(x []float64) {
	n.layers[0].SetOutput(x)
}

func (n *Network) Forward() {
	for _, l := range n.layers {
		l.CalculateOutput()
	}
}

func (n *Network) Backward(expected []float64, learningRate float64) {
	errs := n.layers[len(n.layers)-1].Error(expected)
	for i := len(n.layers) - 1; i > 0; i-- {
		errs = n.layers[i].AdjustWeights(learningRate, errs)
	}
}

func (n *Network) Output() []float64 {
	return n.layers[len(n.layers)-1].Outputs()
}

// Weights flattens per layer, per neuron, per connection.
func (n *Network) Weights() []float64 {
	w := make([]float64, 0, n.settings.WeightCount())
	for _, l := range n.layers {
		for i := range l.neurons {
			for _, c := range l.neurons[i].connections {
				w = append(w, c.Weight)
			}
		}
	}
	return w
}

func (n *Network) LoadWeights(w []float64) error {
	if want := n.settings.WeightCount(); len(w) != want {
		return errors.Wrapf(backend.ErrWeightCount, "got %d, want %d", len(w), want)
	}
	k := 0
	for _, l := range n.layers {
		for i := range l.neurons {
			conns := l.neurons[i].connections
			for j := range conns {
				conns[j].Weight = w[k]
				k++
			}
		}
	}
	return nil
}
