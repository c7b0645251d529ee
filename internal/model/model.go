// Package model coordinates datasets, configuration and the active network,
// and runs training and testing in background tasks.
package model

import (
	"context"
	"log"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FlavioCFOliveira/letternet/internal/activations"
	"github.com/FlavioCFOliveira/letternet/internal/backend"
	"github.com/FlavioCFOliveira/letternet/internal/config"
	"github.com/FlavioCFOliveira/letternet/internal/dataset"
	"github.com/FlavioCFOliveira/letternet/internal/net"
	"github.com/FlavioCFOliveira/letternet/internal/weights"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrMissingDataset is returned when an operation needs a dataset that
	// has not been loaded.
	ErrMissingDataset = errors.New("model: dataset not loaded")
	// ErrNetworkNotReady is returned when an operation needs a network.
	ErrNetworkNotReady = errors.New("model: network not ready")
	// ErrBusy is returned when a task of the same kind is running.
	ErrBusy = errors.New("model: task already running")
	// ErrInvalidInput is returned for raw images of the wrong size.
	ErrInvalidInput = errors.New("model: invalid input")
)

// Model owns the configuration, the datasets and the active network.
// At most one training and one testing task run at a time.
type Model struct {
	mu        sync.Mutex
	cfg       config.Configuration
	network   *net.NeuralNetwork
	train     []dataset.Image
	test      []dataset.Image
	trainPath string
	testPath  string
	trainTask *Task
	testTask  *Task

	reader *dataset.Reader
	log    *log.Logger
	now    func() time.Time
	seq    atomic.Uint64
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger. The default writes to stderr.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithSeed sets the configuration seed used for weight initialization.
func WithSeed(seed uint64) Option {
	return func(m *Model) { m.cfg.Seed = seed }
}

// WithReader sets the dataset reader.
func WithReader(r *dataset.Reader) Option {
	return func(m *Model) { m.reader = r }
}

// WithConfiguration sets the initial configuration. It is not validated.
func WithConfiguration(c config.Configuration) Option {
	return func(m *Model) { m.cfg = c }
}

// WithClock sets the clock used to name saved weight files.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New returns a Model with the default configuration.
func New(opts ...Option) *Model {
	m := &Model{
		cfg:    config.Default(),
		reader: dataset.NewReader(),
		log:    log.New(os.Stderr, "letternet: ", log.LstdFlags),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configuration returns a copy of the configuration.
func (m *Model) Configuration() config.Configuration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetConfiguration validates and installs c. When the network type changes
// the active network is rebuilt with the new backend and keeps its weights.
func (m *Model) SetConfiguration(c config.Configuration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.NetworkType != m.cfg.NetworkType && m.network != nil {
		old := m.network
		n, err := net.New(c.NetworkType, old.Settings(), m.source(c))
		if err != nil {
			return err
		}
		if err := n.LoadWeights(old.Weights()); err != nil {
			m.log.Printf("keeping fresh weights for %s network: %v", c.NetworkType, err)
		}
		m.network = n
	}
	m.cfg = c
	return nil
}

// LoadWeights replaces the active network with one built from the weight
// file at path, using the configured network type.
func (m *Model) LoadWeights(path string) (weights.Data, error) {
	d, err := weights.Read(path)
	if err != nil {
		return weights.Data{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := net.New(m.cfg.NetworkType, d.Settings, m.source(m.cfg))
	if err != nil {
		return weights.Data{}, err
	}
	if err := n.LoadWeights(d.Weights); err != nil {
		return weights.Data{}, errors.WithMessage(err, path)
	}
	m.network = n
	m.log.Printf("loaded %s: %d hidden layers, epoch %d, accuracy %d%%", path, d.Settings.HiddenLayers, d.Epoch, d.Accuracy)
	return d, nil
}

// SaveWeights writes the active network to path.
func (m *Model) SaveWeights(path string, epoch, accuracy int) error {
	m.mu.Lock()
	n := m.network
	m.mu.Unlock()
	if n == nil {
		return ErrNetworkNotReady
	}
	return weights.Write(path, weights.Data{
		Settings: n.Settings(),
		Epoch:    epoch,
		Accuracy: accuracy,
		Weights:  n.Weights(),
	})
}

// HasNetwork reports whether a network is active.
func (m *Model) HasNetwork() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.network != nil
}

// Weights returns the weights of the active network, or nil.
func (m *Model) Weights() []float64 {
	m.mu.Lock()
	n := m.network
	m.mu.Unlock()
	if n == nil {
		return nil
	}
	return n.Weights()
}

// Settings returns the topology of the active network, or the configured
// topology when there is none.
func (m *Model) Settings() backend.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.network != nil {
		return m.network.Settings()
	}
	return m.cfg.Settings()
}

// DatasetSize returns the number of loaded images of kind.
func (m *Model) DatasetSize(kind DatasetKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == TrainDataset {
		return len(m.train)
	}
	return len(m.test)
}

// LoadTrainDataset reads and normalizes the training dataset in the
// background. Loading the path that is already loaded reports success
// without reading the file again.
func (m *Model) LoadTrainDataset(path string, l Listener) *Task {
	return m.loadDataset(TrainDataset, path, l)
}

// LoadTestDataset is LoadTrainDataset for the test dataset.
func (m *Model) LoadTestDataset(path string, l Listener) *Task {
	return m.loadDataset(TestDataset, path, l)
}

func (m *Model) loadDataset(kind DatasetKind, path string, l Listener) *Task {
	if l == nil {
		l = BaseListener{}
	}
	m.mu.Lock()
	loaded, images := m.trainPath, m.train
	if kind == TestDataset {
		loaded, images = m.testPath, m.test
	}
	reader := m.reader
	m.mu.Unlock()

	if path != "" && path == loaded {
		size := len(images)
		return m.start("load "+kind.String(), l, func(context.Context) error {
			l.OnDatasetLoaded(kind, path, size)
			return nil
		})
	}

	return m.start("load "+kind.String(), l, func(ctx context.Context) error {
		images, err := reader.Read(path)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dataset.Normalize(images)

		m.mu.Lock()
		if kind == TrainDataset {
			m.train, m.trainPath = images, path
		} else {
			m.test, m.testPath = images, path
		}
		m.mu.Unlock()

		l.OnDatasetLoaded(kind, path, len(images))
		return nil
	})
}

// Train trains a fresh network on the training dataset. After every epoch
// the network is tested on the whole test dataset and, if configured, its
// weights are saved. The new network becomes active when training starts.
func (m *Model) Train(l Listener) (*Task, error) {
	if l == nil {
		l = BaseListener{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case len(m.train) == 0:
		return nil, errors.Wrap(ErrMissingDataset, "training dataset")
	case len(m.test) == 0:
		return nil, errors.Wrap(ErrMissingDataset, "test dataset")
	case m.trainTask.running():
		return nil, errors.Wrap(ErrBusy, "training")
	}

	cfg := m.cfg
	n, err := net.New(cfg.NetworkType, cfg.Settings(), m.source(cfg))
	if err != nil {
		return nil, err
	}
	m.network = n
	tr := &trainer{
		Callback: net.Callbacks{l, net.NewLogger(m.log, 0)},
		listener: l,
		model:    m,
		cfg:      cfg,
		network:  n,
		train:    m.train,
		test:     m.test,
	}
	m.trainTask = m.start("train", l, tr.run)
	return m.trainTask, nil
}

// StopTrain cancels the running training task, if any.
func (m *Model) StopTrain() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trainTask != nil {
		m.trainTask.Cancel()
	}
}

// Test evaluates according to the configured test mode. In weights mode the
// active network is tested on the configured fraction of the test dataset.
// In cross-validation mode the training dataset is split into folds and the
// best fold network becomes active.
func (m *Model) Test(l Listener) (*Task, error) {
	if l == nil {
		l = BaseListener{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.testTask.running() {
		return nil, errors.Wrap(ErrBusy, "testing")
	}
	cfg := m.cfg
	cb := net.Callbacks{l, net.NewLogger(m.log, 0)}

	switch cfg.TestMode {
	case config.CrossValidation:
		if len(m.train) == 0 {
			return nil, errors.Wrap(ErrMissingDataset, "training dataset")
		}
		if len(m.train) < cfg.Folds {
			return nil, errors.Wrapf(ErrMissingDataset, "%d training images for %d folds", len(m.train), cfg.Folds)
		}
		cv := &crossValidation{model: m, cfg: cfg, data: m.train, cb: cb}
		m.testTask = m.start("cross-validation", l, cv.run)
	default:
		if m.network == nil {
			return nil, ErrNetworkNotReady
		}
		if len(m.test) == 0 {
			return nil, errors.Wrap(ErrMissingDataset, "test dataset")
		}
		n, images := m.network, m.test
		m.testTask = m.start("test", l, func(ctx context.Context) error {
			_, err := n.Test(ctx, images, cfg.EvalFraction, cb)
			return err
		})
	}
	return m.testTask, nil
}

// StopTest cancels the running testing task, if any.
func (m *Model) StopTest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.testTask != nil {
		m.testTask.Cancel()
	}
}

// Classify returns the letter recognized in raw, a bitmap of 0..255 pixels.
func (m *Model) Classify(raw []float64) (rune, error) {
	m.mu.Lock()
	n := m.network
	m.mu.Unlock()

	if n == nil {
		return 0, ErrNetworkNotReady
	}
	if want := n.Settings().InputNeurons; len(raw) != want {
		return 0, errors.Wrapf(ErrInvalidInput, "%d pixels, want %d", len(raw), want)
	}
	img := dataset.NewRaw(raw)
	img.Normalize()
	i, _ := n.Predict(img.Pixels)
	return 'A' + rune(i), nil
}

// source returns the weight source for the next network. Every network
// built from a seeded configuration gets its own reproducible stream.
func (m *Model) source(c config.Configuration) activations.WeightSource {
	if c.Seed == 0 {
		return activations.Seeded(rand.Uint64())
	}
	return activations.Seeded(c.Seed + m.seq.Add(1) - 1)
}

func (m *Model) start(name string, l Listener, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		ID:     uuid.New(),
		Name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		defer cancel()

		m.log.Printf("%s %s: started", name, t.ID)
		err := fn(ctx)
		t.err = err
		switch {
		case err == nil:
			m.log.Printf("%s %s: done", name, t.ID)
		case errors.Is(err, context.Canceled):
			m.log.Printf("%s %s: stopped", name, t.ID)
		default:
			m.log.Printf("%s %s: %v", name, t.ID, err)
			l.OnError(err)
		}
	}()
	return t
}
