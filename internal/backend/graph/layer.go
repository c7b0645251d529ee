package graph

import (
	"fmt"

	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/loss"
)

// Role is the position of a layer in the network.
type Role int

const (
	Input Role = iota
	Hidden
	Output
)

func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Hidden:
		return "hidden"
	case Output:
		return "output"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Layer owns a contiguous arena of neurons.
type Layer struct {
	role    Role
	neurons []Neuron
	prev    *Layer
	act     activations.Activation
}

// NewInputLayer returns a layer of n unconnected neurons.
func NewInputLayer(n int) *Layer {
	return &Layer{role: Input, neurons: make([]Neuron, n), act: activations.Sigmoid{}}
}

// NewLayer returns an output layer of n neurons fully connected to prev.
// If prev was the output layer it becomes a hidden layer.
func NewLayer(n int, prev *Layer, src activations.WeightSource) *Layer {
	if prev.role == Output {
		prev.role = Hidden
	}
	l := &Layer{role: Output, neurons: make([]Neuron, n), prev: prev, act: activations.Sigmoid{}}
	for i := range l.neurons {
		l.neurons[i] = NewNeuron(len(prev.neurons), src)
	}
	return l
}

// Role returns the layer role.
func (l *Layer) Role() Role { return l.role }

// Neurons returns the neuron arena. The slice is shared.
func (l *Layer) Neurons() []Neuron { return l.neurons }

// SetOutput assigns x to the neuron outputs.
func (l *Layer) SetOutput(x []float64) {
	if len(x) != len(l.neurons) {
		panic(fmt.Sprintf("graph: %d values for a layer of %d neurons", len(x), len(l.neurons)))
	}
	for i := range l.neurons {
		l.neurons[i].output = x[i]
	}
}

// Outputs returns a copy of the neuron outputs.
func (l *Layer) Outputs() []float64 {
	out := make([]float64, len(l.neurons))
	for i := range l.neurons {
		out[i] = l.neurons[i].output
	}
	return out
}

// CalculateOutput recomputes every neuron. Input layers are left untouched.
func (l *Layer) CalculateOutput() {
	if l.role == Input {
		return
	}
	for i := range l.neurons {
		l.neurons[i].calcOutput(l.prev.neurons, l.act)
	}
}

// Error returns output - expected for every neuron.
func (l *Layer) Error(expected []float64) []float64 {
	return loss.SquaredError{}.Backward(l.Outputs(), expected)
}

// AdjustWeights applies one gradient step given the error arriving at each
// neuron and returns the error for the previous layer, accumulated with the
// updated weights.
func (l *Layer) AdjustWeights(learningRate float64, errs []float64) []float64 {
	upstream := l.prev.neurons
	inErr := make([]float64, len(upstream))
	for i := range l.neurons {
		n := &l.neurons[i]
		delta := n.delta(errs[i], l.act)
		coef := delta * learningRate
		for j := range n.connections {
			c := &n.connections[j]
			c.Weight -= upstream[c.From].output * coef
			inErr[c.From] += delta * c.Weight
		}
		n.bias -= coef
	}
	return inErr
}
