package particle

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// RGBA holds a color with every channel in [0,1].
type RGBA struct {
	R float64 `yaml:"r" json:"r"`
	G float64 `yaml:"g" json:"g"`
	B float64 `yaml:"b" json:"b"`
	A float64 `yaml:"a" json:"a"`
}

func (c RGBA) Valid() bool {
	for _, ch := range [4]float64{c.R, c.G, c.B, c.A} {
		if ch < 0 || ch > 1 || math.IsNaN(ch) {
			return false
		}
	}
	return true
}

// Hex formats the color channels as #rrggbb, ignoring alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to255(c.R), to255(c.G), to255(c.B))
}

func to255(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ParticleSet is an index-aligned collection of particle attributes.
type ParticleSet struct {
	Positions []Vec3
	Colors    []RGBA
	Sizes     []float64
}

func (s ParticleSet) Len() int {
	return len(s.Positions)
}

// Validate reports a DimensionError when the three arrays disagree in length.
func (s ParticleSet) Validate() error {
	n := len(s.Positions)
	if len(s.Colors) != n {
		return &DimensionError{Op: "colors", Want: n, Got: len(s.Colors)}
	}
	if len(s.Sizes) != n {
		return &DimensionError{Op: "sizes", Want: n, Got: len(s.Sizes)}
	}
	return nil
}

// Clone returns a deep copy.
func (s ParticleSet) Clone() ParticleSet {
	return ParticleSet{
		Positions: append([]Vec3(nil), s.Positions...),
		Colors:    append([]RGBA(nil), s.Colors...),
		Sizes:     append([]float64(nil), s.Sizes...),
	}
}

// Bounds returns the axis-aligned min and max corners of the positions.
func (s ParticleSet) Bounds() (lo, hi Vec3) {
	if len(s.Positions) == 0 {
		return
	}
	lo, hi = s.Positions[0], s.Positions[0]
	for _, p := range s.Positions[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
		lo.Z, hi.Z = math.Min(lo.Z, p.Z), math.Max(hi.Z, p.Z)
	}
	return lo, hi
}
