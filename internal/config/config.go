// Package config holds the user-facing training and testing options.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// TestMode selects how Test evaluates a network.
type TestMode int

const (
	// Weights tests the loaded network on the test dataset.
	Weights TestMode = iota
	// CrossValidation trains one network per fold of the training dataset.
	CrossValidation
)

func (m TestMode) String() string {
	switch m {
	case Weights:
		return "weights"
	case CrossValidation:
		return "cross_validation"
	}
	return fmt.Sprintf("TestMode(%d)", int(m))
}

// ParseTestMode parses "weights" or "cross_validation".
func ParseTestMode(s string) (TestMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "weights":
		return Weights, nil
	case "cross_validation":
		return CrossValidation, nil
	}
	return 0, errors.Errorf("config: unknown test mode %q", s)
}

func (m TestMode) MarshalText() ([]byte, error) {
	if m != Weights && m != CrossValidation {
		return nil, errors.Errorf("config: unknown test mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *TestMode) UnmarshalText(b []byte) error {
	v, err := ParseTestMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Configuration is a value type; copies are independent.
type Configuration struct {
	NetworkType  backend.Type `yaml:"network_type"`
	HiddenLayers int          `yaml:"hidden_layers"`
	TestMode     TestMode     `yaml:"test_mode"`
	// EvalFraction is the share of the test dataset used in weights mode.
	EvalFraction float64 `yaml:"eval_fraction"`
	// Folds is the number of cross-validation folds.
	Folds         int     `yaml:"folds"`
	Epochs        int     `yaml:"epochs"`
	SaveEachEpoch bool    `yaml:"save_each_epoch"`
	LearningRate  float64 `yaml:"learning_rate"`
	// WeightsDir receives the weight files saved after each epoch.
	WeightsDir string `yaml:"weights_dir"`
	// MetricsLog is an optional CSV file receiving per-epoch metrics.
	MetricsLog string `yaml:"metrics_log"`
	// Seed makes weight initialization reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// Default returns the default configuration.
func Default() Configuration {
	return Configuration{
		NetworkType:   backend.Matrix,
		HiddenLayers:  backend.DefaultSettings().HiddenLayers,
		TestMode:      Weights,
		EvalFraction:  1,
		Folds:         1,
		Epochs:        3,
		SaveEachEpoch: true,
		LearningRate:  0.15,
		WeightsDir:    ".",
	}
}

// Validate reports the first field out of range.
func (c Configuration) Validate() error {
	switch {
	case c.NetworkType != backend.Matrix && c.NetworkType != backend.Graph:
		return errors.Wrapf(ErrInvalid, "network type %d", int(c.NetworkType))
	case c.HiddenLayers < 0:
		return errors.Wrapf(ErrInvalid, "hidden layers %d", c.HiddenLayers)
	case c.TestMode != Weights && c.TestMode != CrossValidation:
		return errors.Wrapf(ErrInvalid, "test mode %d", int(c.TestMode))
	case !(c.EvalFraction > 0 && c.EvalFraction <= 1):
		return errors.Wrapf(ErrInvalid, "eval fraction %v not in (0, 1]", c.EvalFraction)
	case c.Folds < 1:
		return errors.Wrapf(ErrInvalid, "folds %d", c.Folds)
	case c.Epochs < 0:
		return errors.Wrapf(ErrInvalid, "epochs %d", c.Epochs)
	case !(c.LearningRate > 0):
		return errors.Wrapf(ErrInvalid, "learning rate %v", c.LearningRate)
	}
	return nil
}

// Settings returns the network topology for c.
func (c Configuration) Settings() backend.Settings {
	s := backend.DefaultSettings()
	s.HiddenLayers = c.HiddenLayers
	return s
}

// Load reads a YAML file. Fields missing from the file keep their defaults.
func Load(path string) (Configuration, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, errors.Wrapf(ErrInvalid, "%s: %v", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, errors.WithMessage(err, path)
	}
	return c, nil
}

// Save writes c as YAML.
func (c Configuration) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode configuration")
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "write %s", path)
}
