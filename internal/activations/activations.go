// Package activations provides the sigmoid activation and initial weight sources.
package activations

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) from the activated value y = f(x)
	Derivative(y float64) float64
}

// Sigmoid activation function.
type Sigmoid struct{}

// Activate computes 1 / (1 + e^-x)
func (Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Derivative computes y * (1 - y)
func (Sigmoid) Derivative(y float64) float64 {
	return y * (1 - y)
}

// WeightSource yields initial connection weights.
type WeightSource func() float64

// Uniform returns a source of weights drawn uniformly from [-1, 1).
// A nil src uses the global generator.
func Uniform(src rand.Source) WeightSource {
	d := distuv.Uniform{Min: -1, Max: 1, Src: src}
	return d.Rand
}

// Seeded returns a reproducible uniform weight source.
func Seeded(seed uint64) WeightSource {
	return Uniform(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Constant returns a source that always yields v.
func Constant(v float64) WeightSource {
	return func() float64 { return v }
}
