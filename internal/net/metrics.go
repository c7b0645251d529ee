package net

import (
	"fmt"
	"math"
	"time"
)

// ActivationThreshold splits predictions into positives and negatives.
const ActivationThreshold = 0.5

// Metrics summarizes a test pass. A prediction is a hit when the most
// activated output matches the label, and positive when that activation
// exceeds ActivationThreshold.
type Metrics struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int

	Accuracy        float64
	AccuracyPercent int
	Precision       float64
	Recall          float64
	FScore          float64
	Elapsed         time.Duration
}

// Count adds one prediction.
func (m *Metrics) Count(hit bool, activation float64) {
	positive := activation > ActivationThreshold
	switch {
	case hit && positive:
		m.TruePositive++
	case hit:
		m.TrueNegative++
	case positive:
		m.FalsePositive++
	default:
		m.FalseNegative++
	}
}

// Total is the number of counted predictions.
func (m *Metrics) Total() int {
	return m.TruePositive + m.TrueNegative + m.FalsePositive + m.FalseNegative
}

// Compute derives the ratios from the counts. Empty buckets yield NaN or
// Inf, which propagate.
func (m *Metrics) Compute() {
	tp, tn := float64(m.TruePositive), float64(m.TrueNegative)
	fp, fn := float64(m.FalsePositive), float64(m.FalseNegative)

	m.Accuracy = (tp + tn) / (tp + tn + fp + fn)
	m.AccuracyPercent = 0
	if !math.IsNaN(m.Accuracy) && !math.IsInf(m.Accuracy, 0) {
		m.AccuracyPercent = int(m.Accuracy * 100)
	}
	m.Precision = tp / (tp + fp)
	m.Recall = tp / (tp + fn)
	m.FScore = 2 * (m.Precision * m.Recall / (m.Precision + m.Recall))
}

func (m Metrics) String() string {
	return fmt.Sprintf("accuracy %.4f (%d%%), precision %.4f, recall %.4f, f-score %.4f in %s",
		m.Accuracy, m.AccuracyPercent, m.Precision, m.Recall, m.FScore, m.Elapsed.Round(time.Millisecond))
}
