package main

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/FlavioCFOliveira/letternet/letternet"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUnknownCommand(t *testing.T) {
	m := letternet.New(letternet.WithLogger(log.New(io.Discard, "", 0)))
	err := run(context.Background(), m, options{}, "fit")
	require.Error(t, err)
	assert.Equal(t, `unknown command "fit"`, err.Error())
}

func TestRunWithoutDatasets(t *testing.T) {
	m := letternet.New(letternet.WithLogger(log.New(io.Discard, "", 0)))

	err := run(context.Background(), m, options{}, "train")
	assert.True(t, errors.Is(err, letternet.ErrMissingDataset))
	assert.Contains(t, err.Error(), "train dataset")

	err = load(m, letternet.TestDataset, "")
	assert.True(t, errors.Is(err, letternet.ErrMissingDataset))
	assert.Contains(t, err.Error(), "test dataset")
}
