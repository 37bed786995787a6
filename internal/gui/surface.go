package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/partisim/internal/particle"
)

const minMarkerRadius = 1.5

// RaylibSurface keeps the particles a canvas pushed to it and draws them as
// screen-space markers every frame.
type RaylibSurface struct {
	Camera rl.Camera3D
	Yaw    float64
	Pitch  float64

	data     particle.ParticleSet
	colors   []rl.Color
	target   rl.Vector3
	distance float32
	dirty    bool
}

func NewRaylibSurface() *RaylibSurface {
	s := &RaylibSurface{distance: 30}
	s.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, 30),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	return s
}

// SetData keeps the color cache when only positions changed.
func (s *RaylibSurface) SetData(set particle.ParticleSet) {
	if !sameBacking(s.data.Colors, set.Colors) {
		s.dirty = true
	}
	s.data = set
}

func sameBacking(a, b []particle.RGBA) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func (s *RaylibSurface) Clear() {
	s.data = particle.ParticleSet{}
	s.colors = nil
	s.dirty = true
}

// Redraw refreshes cached colors; drawing happens in Draw on the render loop.
func (s *RaylibSurface) Redraw() {
	if s.dirty || len(s.colors) != len(s.data.Colors) {
		s.colors = make([]rl.Color, len(s.data.Colors))
		for i, c := range s.data.Colors {
			s.colors[i] = toColor(c)
		}
	}
	s.dirty = false
}

// Fit frames the bounding box so its largest extent fills the field of view.
func (s *RaylibSurface) Fit(lo, hi particle.Vec3) {
	center := lo.Add(hi).Scale(0.5)
	span := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	if span <= 0 {
		span = 1
	}
	s.target = rl.NewVector3(float32(center.X), float32(center.Y), float32(center.Z))
	half := float64(s.Camera.Fovy) * math.Pi / 360
	s.distance = float32(span/2/math.Tan(half)) * 1.15
	s.Yaw, s.Pitch = 0, 0
	s.orbit()
}

func (s *RaylibSurface) Rotate(dyaw, dpitch float64) {
	s.Yaw += dyaw
	s.Pitch = math.Max(-1.5, math.Min(1.5, s.Pitch+dpitch))
	s.orbit()
}

func (s *RaylibSurface) Zoom(factor float32) {
	s.distance = max(0.5, s.distance*factor)
	s.orbit()
}

func (s *RaylibSurface) orbit() {
	cp, sp := math.Cos(s.Pitch), math.Sin(s.Pitch)
	cy, sy := math.Cos(s.Yaw), math.Sin(s.Yaw)
	d := float64(s.distance)
	s.Camera.Target = s.target
	s.Camera.Position = rl.NewVector3(
		s.target.X+float32(d*cp*sy),
		s.target.Y+float32(d*sp),
		s.target.Z+float32(d*cp*cy),
	)
}

// Draw renders the markers into the viewport at (x, y) of size w by h.
func (s *RaylibSurface) Draw(x, y, w, h int32) {
	if s.dirty {
		s.Redraw()
	}
	rl.BeginScissorMode(x, y, w, h)
	offset := rl.NewVector2(float32(x), float32(y))
	for i, p := range s.data.Positions {
		pos := rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
		screen := rl.Vector2Add(rl.GetWorldToScreenEx(pos, s.Camera, w, h), offset)
		r := float32(math.Max(minMarkerRadius, s.data.Sizes[i]/2))
		rl.DrawCircleV(screen, r, s.colors[i])
	}
	rl.EndScissorMode()
}

func (s *RaylibSurface) Len() int { return s.data.Len() }

func toColor(c particle.RGBA) rl.Color {
	return rl.NewColor(to255(c.R), to255(c.G), to255(c.B), to255(c.A))
}

func to255(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
