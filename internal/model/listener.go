package model

import (
	"github.com/FlavioCFOliveira/letternet/internal/net"
)

// DatasetKind tells the training and test datasets apart.
type DatasetKind int

const (
	TrainDataset DatasetKind = iota
	TestDataset
)

func (k DatasetKind) String() string {
	if k == TrainDataset {
		return "train"
	}
	return "test"
}

// Listener receives the events of model tasks. Methods are called from the
// task goroutine.
type Listener interface {
	net.Callback
	OnDatasetLoaded(kind DatasetKind, path string, size int)
	// OnError receives task failures. Stopped tasks are not failures.
	OnError(err error)
}

// BaseListener provides default empty implementations for Listener.
type BaseListener struct {
	net.BaseCallback
}

func (BaseListener) OnDatasetLoaded(kind DatasetKind, path string, size int) {}
func (BaseListener) OnError(err error)                                       {}
