package graph

import "github.com/FlavioCFOliveira/letternet/internal/activations"

// Connection is a weighted link to a neuron of the previous layer,
// identified by its index in that layer.
type Connection struct {
	From   int
	Weight float64
}

// Neuron holds its output, bias and upstream connections. Connections are
// ordered by upstream index; the upstream neurons belong to the previous layer.
type Neuron struct {
	output      float64
	bias        float64
	connections []Connection
}

// NewNeuron returns a neuron connected to every one of n upstream neurons with
// weights drawn from src.
func NewNeuron(n int, src activations.WeightSource) Neuron {
	conns := make([]Connection, n)
	for i := range conns {
		conns[i] = Connection{From: i, Weight: src()}
	}
	return Neuron{connections: conns}
}

// Output returns the last computed (or assigned) output.
func (n *Neuron) Output() float64 { return n.output }

// SetOutput assigns the output directly, as input neurons do.
func (n *Neuron) SetOutput(v float64) { n.output = v }

// Bias returns the bias.
func (n *Neuron) Bias() float64 { return n.bias }

// Connections returns the upstream connections. The slice is shared.
func (n *Neuron) Connections() []Connection { return n.connections }

// calcOutput computes act(bias + sum(weight * upstream output)).
func (n *Neuron) calcOutput(upstream []Neuron, act activations.Activation) {
	sum := n.bias
	for _, c := range n.connections {
		sum += c.Weight * upstream[c.From].output
	}
	n.output = act.Activate(sum)
}

func (n *Neuron) delta(err float64, act activations.Activation) float64 {
	return act.Derivative(n.output) * err
}
