// Package net trains and evaluates letter classifiers on top of a backend.
package net

import (
	"context"
	"sync"
	"time"

	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/FlavioCFOliveira/letternet/internal/backend/dense"
	"github.com/FlavioCFOliveira/letternet/internal/backend/graph"
	"github.com/FlavioCFOliveira/letternet/internal/dataset"
	"github.com/FlavioCFOliveira/letternet/internal/loss"
	"github.com/FlavioCFOliveira/letternet/internal/opt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrLabel is returned for images whose label has no output neuron.
	ErrLabel = errors.New("net: label out of range")
	// ErrInput is returned for images whose size differs from the input layer.
	ErrInput = errors.New("net: input size mismatch")
)

// NeuralNetwork is a classifier with one output neuron per label. Label l
// maps to output l-1. Sample steps and predictions are serialized, so a
// network can be queried while it trains.
type NeuralNetwork struct {
	mu       sync.Mutex
	typ      backend.Type
	settings backend.Settings
	backend  backend.Backend
	loss     loss.SquaredError
}

// New creates a network of the given type. src provides the initial
// weights; nil draws them uniformly from [-1, 1).
func New(typ backend.Type, s backend.Settings, src activations.WeightSource) (*NeuralNetwork, error) {
	var (
		b   backend.Backend
		err error
	)
	switch typ {
	case backend.Matrix:
		b, err = dense.New(s, src)
	case backend.Graph:
		b, err = graph.New(s, src)
	default:
		return nil, errors.Errorf("net: unknown network type %v", typ)
	}
	if err != nil {
		return nil, err
	}
	return &NeuralNetwork{typ: typ, settings: s, backend: b}, nil
}

// Type returns the backend type.
func (n *NeuralNetwork) Type() backend.Type { return n.typ }

// Settings returns the topology.
func (n *NeuralNetwork) Settings() backend.Settings { return n.settings }

// Weights returns a copy of the flat weight vector.
func (n *NeuralNetwork) Weights() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backend.Weights()
}

// LoadWeights replaces the weights.
func (n *NeuralNetwork) LoadWeights(w []float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backend.LoadWeights(w)
}

// Prediction returns the output layer for pixels.
func (n *NeuralNetwork) Prediction(pixels []float64) []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.backend.SetInput(pixels)
	n.backend.Forward()
	return n.backend.Output()
}

// Predict returns the index of the most activated output and its
// activation. Ties resolve to the lowest index.
func (n *NeuralNetwork) Predict(pixels []float64) (int, float64) {
	out := n.Prediction(pixels)
	i := floats.MaxIdx(out)
	return i, out[i]
}

// Train runs epochs passes over images in order, one gradient step per
// image. The learning rate follows opt.NewHalvingLR. It returns ctx.Err()
// as soon as the context is done, without calling OnTrainEnd.
func (n *NeuralNetwork) Train(ctx context.Context, images []dataset.Image, epochs int, learningRate float64, cb Callback) error {
	if cb == nil {
		cb = BaseCallback{}
	}
	if err := n.check(images); err != nil {
		return err
	}

	cb.OnTrainBegin()
	sched := opt.NewHalvingLR(learningRate)
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := n.trainEpoch(ctx, images, epoch, sched.LearningRate(), cb)
		if err != nil {
			return err
		}
		sched.Step()
		cb.OnEpochEnd(epoch, l)
	}
	cb.OnTrainEnd()
	return nil
}

// trainEpoch returns the mean loss over the epoch.
func (n *NeuralNetwork) trainEpoch(ctx context.Context, images []dataset.Image, epoch int, lr float64, cb Callback) (float64, error) {
	expected := make([]float64, n.settings.OutputNeurons)
	total := 0.0
	prev := -1
	for i := range images {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		img := &images[i]
		clear(expected)
		expected[img.Label-1] = 1
		total += n.step(img.Pixels, expected, lr)

		if p := (i + 1) * 100 / len(images); p != prev {
			prev = p
			cb.OnEpochProgress(epoch, p)
		}
	}
	if len(images) == 0 {
		return 0, nil
	}
	return total / float64(len(images)), nil
}

func (n *NeuralNetwork) step(pixels, expected []float64, lr float64) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.backend.SetInput(pixels)
	n.backend.Forward()
	l := n.loss.Forward(n.backend.Output(), expected)
	n.backend.Backward(expected, lr)
	return l
}

// Test evaluates the first floor(fraction*len(images)) images. It returns
// ctx.Err() as soon as the context is done, without calling OnTestEnd.
func (n *NeuralNetwork) Test(ctx context.Context, images []dataset.Image, fraction float64, cb Callback) (Metrics, error) {
	if cb == nil {
		cb = BaseCallback{}
	}
	if err := n.check(images); err != nil {
		return Metrics{}, err
	}

	cb.OnTestBegin()
	start := time.Now()

	part := int(fraction * float64(len(images)))
	part = max(0, min(part, len(images)))

	var m Metrics
	prev := -1
	for i := 0; i < part; i++ {
		if err := ctx.Err(); err != nil {
			return Metrics{}, err
		}
		img := &images[i]
		idx, activation := n.Predict(img.Pixels)
		m.Count(idx == img.Label-1, activation)

		if p := (i + 1) * 100 / part; p != prev {
			prev = p
			cb.OnTestProgress(p)
		}
	}
	m.Compute()
	m.Elapsed = time.Since(start)

	cb.OnTestEnd(m)
	return m, nil
}

func (n *NeuralNetwork) check(images []dataset.Image) error {
	for i := range images {
		if l := images[i].Label; l < 1 || l > n.settings.OutputNeurons {
			return errors.Wrapf(ErrLabel, "image %d: label %d", i, l)
		}
		if len(images[i].Pixels) != n.settings.InputNeurons {
			return errors.Wrapf(ErrInput, "image %d: %d pixels, want %d", i, len(images[i].Pixels), n.settings.InputNeurons)
		}
	}
	return nil
}
