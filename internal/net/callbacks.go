package net

import (
	"log"
)

// Callback receives training and testing events. Epochs and percents are
// 1-based and 0..100 respectively.
type Callback interface {
	OnTrainBegin()
	OnEpochProgress(epoch, percent int)
	OnEpochEnd(epoch int, loss float64)
	OnTrainEnd()
	OnTestBegin()
	OnTestProgress(percent int)
	OnTestEnd(m Metrics)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (BaseCallback) OnTrainBegin()                      {}
func (BaseCallback) OnEpochProgress(epoch, percent int) {}
func (BaseCallback) OnEpochEnd(epoch int, loss float64) {}
func (BaseCallback) OnTrainEnd()                        {}
func (BaseCallback) OnTestBegin()                       {}
func (BaseCallback) OnTestProgress(percent int)         {}
func (BaseCallback) OnTestEnd(m Metrics)                {}

// Callbacks forwards every event to each callback in order.
type Callbacks []Callback

func (cs Callbacks) OnTrainBegin() {
	for _, c := range cs {
		c.OnTrainBegin()
	}
}

func (cs Callbacks) OnEpochProgress(epoch, percent int) {
	for _, c := range cs {
		c.OnEpochProgress(epoch, percent)
	}
}

func (cs Callbacks) OnEpochEnd(epoch int, loss float64) {
	for _, c := range cs {
		c.OnEpochEnd(epoch, loss)
	}
}

func (cs Callbacks) OnTrainEnd() {
	for _, c := range cs {
		c.OnTrainEnd()
	}
}

func (cs Callbacks) OnTestBegin() {
	for _, c := range cs {
		c.OnTestBegin()
	}
}

func (cs Callbacks) OnTestProgress(percent int) {
	for _, c := range cs {
		c.OnTestProgress(percent)
	}
}

func (cs Callbacks) OnTestEnd(m Metrics) {
	for _, c := range cs {
		c.OnTestEnd(m)
	}
}

// Logger logs training progress.
type Logger struct {
	BaseCallback
	Log *log.Logger
	// Interval is the progress step, in percent, between two progress lines.
	// Zero disables progress lines.
	Interval int
}

// NewLogger returns a Logger writing to l every interval percent.
func NewLogger(l *log.Logger, interval int) Logger {
	return Logger{Log: l, Interval: interval}
}

func (c Logger) printf(format string, args ...any) {
	if c.Log == nil {
		log.Printf(format, args...)
		return
	}
	c.Log.Printf(format, args...)
}

func (c Logger) OnTrainBegin() { c.printf("training started") }

func (c Logger) OnEpochProgress(epoch, percent int) {
	if c.Interval > 0 && percent%c.Interval == 0 {
		c.printf("epoch %d: %d%%", epoch, percent)
	}
}

func (c Logger) OnEpochEnd(epoch int, loss float64) {
	c.printf("epoch %d: loss = %.6f", epoch, loss)
}

func (c Logger) OnTrainEnd() { c.printf("training finished") }

func (c Logger) OnTestBegin() { c.printf("testing started") }

func (c Logger) OnTestProgress(percent int) {
	if c.Interval > 0 && percent%c.Interval == 0 {
		c.printf("test: %d%%", percent)
	}
}

func (c Logger) OnTestEnd(m Metrics) {
	c.printf("test: %s", m)
}
