// Package letternet recognizes handwritten Latin letters with a multilayer
// perceptron. It re-exports the model, its configuration and the types
// needed to drive training and testing.
package letternet

import (
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/FlavioCFOliveira/letternet/internal/config"
	"github.com/FlavioCFOliveira/letternet/internal/dataset"
	"github.com/FlavioCFOliveira/letternet/internal/model"
	"github.com/FlavioCFOliveira/letternet/internal/net"
	"github.com/FlavioCFOliveira/letternet/internal/weights"
)

// Re-export common types for easier access
type (
	Model         = model.Model
	Option        = model.Option
	Task          = model.Task
	Listener      = model.Listener
	BaseListener  = model.BaseListener
	DatasetKind   = model.DatasetKind
	Configuration = config.Configuration
	TestMode      = config.TestMode
	NetworkType   = backend.Type
	Settings      = backend.Settings
	Metrics       = net.Metrics
	Image         = dataset.Image
	WeightData    = weights.Data
)

// Network types
const (
	Matrix = backend.Matrix
	Graph  = backend.Graph
)

// Test modes
const (
	Weights         = config.Weights
	CrossValidation = config.CrossValidation
)

// Dataset kinds
const (
	TrainDataset = model.TrainDataset
	TestDataset  = model.TestDataset
)

// Errors
var (
	ErrMissingDataset  = model.ErrMissingDataset
	ErrNetworkNotReady = model.ErrNetworkNotReady
	ErrBusy            = model.ErrBusy
	ErrInvalidInput    = model.ErrInvalidInput
	ErrInvalidConfig   = config.ErrInvalid
	ErrDatasetNotFound = dataset.ErrNotFound
	ErrDatasetParse    = dataset.ErrParse
	ErrWeightsNotFound = weights.ErrNotFound
	ErrWeightsFormat   = weights.ErrFormat
	ErrWeightCount     = backend.ErrWeightCount
)

// Options
var (
	WithLogger        = model.WithLogger
	WithSeed          = model.WithSeed
	WithReader        = model.WithReader
	WithConfiguration = model.WithConfiguration
	WithClock         = model.WithClock
)

// New creates a model with the default configuration.
func New(opts ...Option) *Model {
	return model.New(opts...)
}

// DefaultConfiguration returns the default configuration.
func DefaultConfiguration() Configuration {
	return config.Default()
}

// LoadConfiguration reads a YAML configuration file.
func LoadConfiguration(path string) (Configuration, error) {
	return config.Load(path)
}

// ParseNetworkType parses "matrix" or "graph".
func ParseNetworkType(s string) (NetworkType, error) {
	return backend.ParseType(s)
}

// ParseTestMode parses "weights" or "cross_validation".
func ParseTestMode(s string) (TestMode, error) {
	return config.ParseTestMode(s)
}

// DefaultSettings returns the 784-140x4-26 topology.
func DefaultSettings() Settings {
	return backend.DefaultSettings()
}

// ReadDataset reads a letter dataset without normalizing it.
func ReadDataset(path string) ([]Image, error) {
	return dataset.NewReader().Read(path)
}
