package canvas

import (
	"github.com/san-kum/partisim/internal/particle"
)

// Surface is the external rendering target.
type Surface interface {
	SetData(set particle.ParticleSet)
	Clear()
	Redraw()
}

// Fitter is implemented by surfaces with a camera that can frame a bounding box.
type Fitter interface {
	Fit(lo, hi particle.Vec3)
}

type State int

const (
	Empty State = iota
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// DefaultScaling is applied to particle sizes on insert.
const DefaultScaling = 0.77

type Canvas struct {
	surface Surface
	scaling float64
	state   State
	set     particle.ParticleSet
}

func New(surface Surface, scaling float64) *Canvas {
	if scaling <= 0 {
		scaling = DefaultScaling
	}
	return &Canvas{surface: surface, scaling: scaling}
}

func (c *Canvas) State() State { return c.state }

// Len is the baseline particle count; zero when Empty.
func (c *Canvas) Len() int { return c.set.Len() }

// Snapshot returns a copy of the particle set being rendered.
func (c *Canvas) Snapshot() particle.ParticleSet { return c.set.Clone() }

// Reset clears every particle. Calling it repeatedly has no further effect.
func (c *Canvas) Reset() {
	c.set = particle.ParticleSet{}
	c.state = Empty
	c.surface.Clear()
	c.surface.Redraw()
}

// InsertData replaces the whole particle set. All arrays must have equal length.
func (c *Canvas) InsertData(positions []particle.Vec3, colors []particle.RGBA, sizes []float64) error {
	n := len(positions)
	if len(colors) != n {
		return &particle.DimensionError{Op: "insert data: colors", Want: n, Got: len(colors)}
	}
	if len(sizes) != n {
		return &particle.DimensionError{Op: "insert data: sizes", Want: n, Got: len(sizes)}
	}

	scaled := make([]float64, n)
	for i, s := range sizes {
		scaled[i] = s * c.scaling
	}
	c.set = particle.ParticleSet{
		Positions: append([]particle.Vec3(nil), positions...),
		Colors:    append([]particle.RGBA(nil), colors...),
		Sizes:     scaled,
	}
	c.state = Populated

	c.surface.Clear()
	if f, ok := c.surface.(Fitter); ok {
		f.Fit(c.set.Bounds())
	}
	c.surface.SetData(c.set)
	c.surface.Redraw()
	return nil
}

// InsertSet is InsertData for an assembled set.
func (c *Canvas) InsertSet(set particle.ParticleSet) error {
	return c.InsertData(set.Positions, set.Colors, set.Sizes)
}

// UpdatePositions replaces positions only; the count must match the inserted set.
func (c *Canvas) UpdatePositions(positions []particle.Vec3) error {
	if c.state == Empty {
		return &particle.DimensionError{Op: "update positions on empty canvas", Want: 0, Got: len(positions)}
	}
	if len(positions) != c.set.Len() {
		return &particle.DimensionError{Op: "update positions", Want: c.set.Len(), Got: len(positions)}
	}
	copy(c.set.Positions, positions)
	c.surface.SetData(c.set)
	c.surface.Redraw()
	return nil
}
