// Package metrics accumulates scalar observations of a running particle system.
package metrics

import "math"

// Observable is the read side of a simulation. *life.System satisfies it.
type Observable interface {
	MeanSpeed() float64
	KineticEnergy() float64
	Momentum() (px, py float64)
}

type Metric interface {
	Name() string
	Observe(o Observable)
	Value() float64
	Reset()
}

// Energy is the mean total kinetic energy over the observed steps.
type Energy struct {
	samples int
	total   float64
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "kinetic_energy" }

func (e *Energy) Observe(o Observable) {
	e.total += o.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Speed is the mean particle speed over the observed steps.
type Speed struct {
	samples int
	sum     float64
}

func NewSpeed() *Speed { return &Speed{} }

func (s *Speed) Name() string { return "mean_speed" }

func (s *Speed) Observe(o Observable) {
	s.sum += o.MeanSpeed()
	s.samples++
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.sum = 0
	s.samples = 0
}

// MomentumDrift is the largest distance of the total momentum from its first
// observed value.
type MomentumDrift struct {
	started bool
	px, py  float64
	max     float64
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(o Observable) {
	px, py := o.Momentum()
	if !m.started {
		m.px, m.py, m.started = px, py, true
		return
	}
	m.max = math.Max(m.max, math.Hypot(px-m.px, py-m.py))
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	*m = MomentumDrift{}
}

// SpeedBound is the fraction of observations whose mean speed stays at or
// below a threshold.
type SpeedBound struct {
	threshold  float64
	violations int
	samples    int
}

func NewSpeedBound(threshold float64) *SpeedBound {
	return &SpeedBound{threshold: threshold}
}

func (s *SpeedBound) Name() string { return "speed_bound" }

func (s *SpeedBound) Observe(o Observable) {
	s.samples++
	if o.MeanSpeed() > s.threshold {
		s.violations++
	}
}

func (s *SpeedBound) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SpeedBound) Reset() {
	s.violations = 0
	s.samples = 0
}

// Default returns the metrics the stats command reports.
func Default(speedLimit float64) []Metric {
	return []Metric{NewSpeed(), NewEnergy(), NewMomentumDrift(), NewSpeedBound(speedLimit)}
}
