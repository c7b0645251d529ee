package model

import (
	"context"
	"math"

	"github.com/FlavioCFOliveira/letternet/internal/config"
	"github.com/FlavioCFOliveira/letternet/internal/dataset"
	"github.com/FlavioCFOliveira/letternet/internal/net"
)

// fold splits data for fold i of k. The held out block is
// data[i*b:(i+1)*b] with b = len(data)/k; the training part is the rest of
// data rotated so that it starts right after the block. data is not
// modified.
func fold(data []dataset.Image, k, i int) (train, held []dataset.Image) {
	b := len(data) / k
	held = data[i*b : (i+1)*b]
	train = make([]dataset.Image, 0, len(data)-b)
	train = append(train, data[(i+1)*b:]...)
	train = append(train, data[:i*b]...)
	return train, held
}

// crossValidation runs one k-fold cross-validation task.
type crossValidation struct {
	model *Model
	cfg   config.Configuration
	data  []dataset.Image
	cb    net.Callback

	// scores holds the metrics of every completed fold.
	scores []net.Metrics
}

// better reports whether fold metrics m should replace the current best.
// A NaN F-score never wins over a real one.
func better(m, best net.Metrics) bool {
	if math.IsNaN(best.FScore) {
		return !math.IsNaN(m.FScore)
	}
	return m.FScore > best.FScore
}

func (cv *crossValidation) run(ctx context.Context) error {
	k := cv.cfg.Folds
	cv.cb.OnTestBegin()

	var (
		best        *net.NeuralNetwork
		bestMetrics net.Metrics
	)
	progress := &foldProgress{cb: cv.cb, folds: k, epochs: cv.cfg.Epochs, last: -1}
	for i := 0; i < k; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		train, held := fold(cv.data, k, i)

		n, err := net.New(cv.cfg.NetworkType, cv.cfg.Settings(), cv.model.source(cv.cfg))
		if err != nil {
			return err
		}
		progress.fold = i
		if err := n.Train(ctx, train, cv.cfg.Epochs, cv.cfg.LearningRate, progress); err != nil {
			return err
		}
		m, err := n.Test(ctx, held, 1, nil)
		if err != nil {
			return err
		}
		cv.model.log.Printf("fold %d/%d: %s", i+1, k, m)
		cv.scores = append(cv.scores, m)

		if best == nil || better(m, bestMetrics) {
			best, bestMetrics = n, m
		}
		progress.report((i + 1) * 100 / k)
	}

	cv.model.mu.Lock()
	cv.model.network = best
	cv.model.mu.Unlock()

	cv.cb.OnTestEnd(bestMetrics)
	return nil
}

// foldProgress maps the training progress of each fold to the overall
// test progress.
type foldProgress struct {
	net.BaseCallback
	cb     net.Callback
	folds  int
	epochs int
	fold   int
	last   int
}

func (p *foldProgress) OnEpochProgress(epoch, percent int) {
	done := (epoch-1)*100 + percent
	p.report((p.fold*100*p.epochs + done) / (p.folds * p.epochs))
}

func (p *foldProgress) report(percent int) {
	if percent != p.last {
		p.last = percent
		p.cb.OnTestProgress(percent)
	}
}
