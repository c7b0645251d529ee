package model

import (
	"context"

	"github.com/google/uuid"
)

// Task is a background operation started by a Model.
type Task struct {
	ID   uuid.UUID
	Name string

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Wait blocks until the task ends and returns its error. A stopped task
// returns context.Canceled.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Done is closed when the task ends.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel asks the task to stop.
func (t *Task) Cancel() { t.cancel() }

func (t *Task) running() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
