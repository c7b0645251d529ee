package model

import (
	"context"
	"path/filepath"

	"github.com/FlavioCFOliveira/letternet/internal/config"
	"github.com/FlavioCFOliveira/letternet/internal/dataset"
	"github.com/FlavioCFOliveira/letternet/internal/net"
	"github.com/FlavioCFOliveira/letternet/internal/weights"
	"github.com/pkg/errors"
)

// trainer runs one training task. It forwards network events to the
// listener chain and tests, saves and logs at the end of every epoch.
type trainer struct {
	net.Callback

	listener Listener
	model    *Model
	cfg      config.Configuration
	network  *net.NeuralNetwork
	train    []dataset.Image
	test     []dataset.Image

	ctx     context.Context
	stop    context.CancelFunc
	metrics *net.MetricsLogger
	err     error
}

func (t *trainer) run(ctx context.Context) error {
	t.ctx, t.stop = context.WithCancel(ctx)
	defer t.stop()

	if t.cfg.MetricsLog != "" {
		t.metrics = net.NewMetricsLogger(t.cfg.MetricsLog, true)
		if err := t.metrics.Open(); err != nil {
			return err
		}
		defer func() {
			if err := t.metrics.Close(); err != nil {
				t.model.log.Printf("close %s: %v", t.cfg.MetricsLog, err)
			}
		}()
	}

	err := t.network.Train(t.ctx, t.train, t.cfg.Epochs, t.cfg.LearningRate, t)
	if t.err != nil {
		return t.err
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (t *trainer) OnEpochEnd(epoch int, loss float64) {
	if t.ctx.Err() != nil {
		return
	}
	m, err := t.network.Test(t.ctx, t.test, 1, t.Callback)
	if err != nil {
		if t.ctx.Err() == nil {
			t.err = err
			t.stop()
		}
		return
	}

	if t.cfg.SaveEachEpoch {
		if err := t.save(epoch, m.AccuracyPercent); err != nil {
			t.model.log.Printf("epoch %d: %v", epoch, err)
			t.listener.OnError(err)
		}
	}
	if t.metrics != nil {
		if err := t.metrics.Log(epoch, loss, m); err != nil {
			t.model.log.Printf("epoch %d: %v", epoch, err)
		}
	}
	t.Callback.OnEpochEnd(epoch, loss)
}

// OnTrainEnd is suppressed once the task is stopped.
func (t *trainer) OnTrainEnd() {
	if t.ctx.Err() == nil {
		t.Callback.OnTrainEnd()
	}
}

func (t *trainer) save(epoch, accuracy int) error {
	s := t.network.Settings()
	name := weights.Filename(s.HiddenLayers, epoch, accuracy, t.model.now())
	path := filepath.Join(t.cfg.WeightsDir, name)
	err := weights.Write(path, weights.Data{
		Settings: s,
		Epoch:    epoch,
		Accuracy: accuracy,
		Weights:  t.network.Weights(),
	})
	if err != nil {
		return errors.WithMessagef(err, "save epoch %d", epoch)
	}
	t.model.log.Printf("saved %s", path)
	return nil
}
