// Package fakedata produces synthetic particle attributes for previews and tests.
package fakedata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

const (
	DefaultMaxCoord = 15.0
	DefaultMinSize  = 10.0
	DefaultMaxSize  = 25.0
)

// Generator draws independent uniform samples. It is not safe for concurrent use;
// create one per goroutine.
type Generator struct {
	rng      *rand.Rand
	maxCoord float64
	minSize  float64
	maxSize  float64
}

type Option func(*Generator)

// WithSeed makes the output reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

func WithMaxCoord(m float64) Option {
	return func(g *Generator) { g.maxCoord = m }
}

// WithSizeRange sets the half-open size interval (lo, hi].
func WithSizeRange(lo, hi float64) Option {
	return func(g *Generator) { g.minSize, g.maxSize = lo, hi }
}

func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		maxCoord: DefaultMaxCoord,
		minSize:  DefaultMinSize,
		maxSize:  DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.maxCoord <= 0 {
		return nil, fmt.Errorf("%w: max coordinate must be positive, got %g", particle.ErrInvalidArgument, g.maxCoord)
	}
	if g.minSize < 0 || g.maxSize <= g.minSize {
		return nil, fmt.Errorf("%w: size range (%g, %g] is empty", particle.ErrInvalidArgument, g.minSize, g.maxSize)
	}
	return g, nil
}

// Positions returns n points with every coordinate uniform in [0, maxCoord).
func (g *Generator) Positions(n int) ([]particle.Vec3, error) {
	if err := particle.CheckCount(n); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	out := make([]particle.Vec3, n)
	for i := range out {
		out[i] = particle.Vec3{
			X: g.rng.Float64() * g.maxCoord,
			Y: g.rng.Float64() * g.maxCoord,
			Z: g.rng.Float64() * g.maxCoord,
		}
	}
	return out, nil
}

// Colors returns n colors with every channel uniform in [0,1].
func (g *Generator) Colors(n int) ([]particle.RGBA, error) {
	if err := particle.CheckCount(n); err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	out := make([]particle.RGBA, n)
	for i := range out {
		out[i] = particle.RGBA{
			R: g.rng.Float64(),
			G: g.rng.Float64(),
			B: g.rng.Float64(),
			A: g.rng.Float64(),
		}
	}
	return out, nil
}

// ParticleSizes returns n sizes uniform in (minSize, maxSize].
func (g *Generator) ParticleSizes(n int) ([]float64, error) {
	if err := particle.CheckCount(n); err != nil {
		return nil, fmt.Errorf("sizes: %w", err)
	}
	out := make([]float64, n)
	span := g.maxSize - g.minSize
	for i := range out {
		// Float64 is in [0,1), so 1-u is in (0,1].
		out[i] = g.minSize + (1-g.rng.Float64())*span
	}
	return out, nil
}

// ParticleSet builds all three attribute arrays of length n.
func (g *Generator) ParticleSet(n int) (particle.ParticleSet, error) {
	pos, err := g.Positions(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	cols, err := g.Colors(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	sizes, err := g.ParticleSizes(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	return particle.ParticleSet{Positions: pos, Colors: cols, Sizes: sizes}, nil
}
