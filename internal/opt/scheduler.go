package opt

// Scheduler defines the interface for learning rate schedulers.
type Scheduler interface {
	// Step is called once at the end of every epoch.
	Step()
	LearningRate() float64
}

// MilestoneLR multiplies the learning rate by gamma after each epoch whose
// zero-based index is listed in milestones.
type MilestoneLR struct {
	lr         float64
	gamma      float64
	milestones map[int]bool
	lastEpoch  int
}

// NewMilestoneLR creates a MilestoneLR starting at lr.
func NewMilestoneLR(lr, gamma float64, milestones ...int) *MilestoneLR {
	m := make(map[int]bool, len(milestones))
	for _, e := range milestones {
		m[e] = true
	}
	return &MilestoneLR{lr: lr, gamma: gamma, milestones: m}
}

// NewHalvingLR returns the fixed training schedule: the learning rate is
// halved after epochs 2, 3 and 4 (zero-based).
func NewHalvingLR(lr float64) *MilestoneLR {
	return NewMilestoneLR(lr, 0.5, 2, 3, 4)
}

func (s *MilestoneLR) Step() {
	if s.milestones[s.lastEpoch] {
		s.lr *= s.gamma
	}
	s.lastEpoch++
}

func (s *MilestoneLR) LearningRate() float64 {
	return s.lr
}
