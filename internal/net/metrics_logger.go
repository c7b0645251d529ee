package net

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// MetricsLogger writes one CSV row per epoch with the loss and the test
// metrics of that epoch. The caller owns the file through Open and Close.
type MetricsLogger struct {
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
}

// NewMetricsLogger creates a new MetricsLogger.
func NewMetricsLogger(filename string, append bool) *MetricsLogger {
	return &MetricsLogger{
		Filename: filename,
		Append:   append,
	}
}

// Open creates, truncates or appends to the file and writes the header when
// the file is empty.
func (c *MetricsLogger) Open() error {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open metrics log %s", c.Filename)
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	info, err := file.Stat()
	if err == nil && info.Size() == 0 {
		c.writer.Write([]string{"epoch", "loss", "accuracy", "precision", "recall", "fscore", "time_seconds"})
		c.writer.Flush()
	}
	return c.writer.Error()
}

// Log appends the row for epoch.
func (c *MetricsLogger) Log(epoch int, loss float64, m Metrics) error {
	if c.writer == nil {
		return errors.New("metrics log is not open")
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	c.writer.Write([]string{
		strconv.Itoa(epoch),
		f(loss),
		f(m.Accuracy),
		f(m.Precision),
		f(m.Recall),
		f(m.FScore),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	})
	c.writer.Flush()
	return errors.Wrap(c.writer.Error(), "write metrics log")
}

// Close flushes and closes the file.
func (c *MetricsLogger) Close() error {
	if c.file == nil {
		return nil
	}
	c.writer.Flush()
	err := c.file.Close()
	c.file = nil
	c.writer = nil
	return err
}
