// Package middleware is the seam between the presentation layer and the particle
// data source. Windows depend on it instead of on a concrete generator.
package middleware

import (
	"github.com/san-kum/partisim/internal/logging"
	"github.com/san-kum/partisim/internal/particle"
	"go.uber.org/zap"
)

// Source produces particle attributes. *fakedata.Generator satisfies it.
type Source interface {
	Positions(n int) ([]particle.Vec3, error)
	Colors(n int) ([]particle.RGBA, error)
	ParticleSizes(n int) ([]float64, error)
}

type Middleware struct {
	src    Source
	logger *zap.Logger
}

func New(src Source, logger *zap.Logger) *Middleware {
	return &Middleware{src: src, logger: logging.OrNop(logger)}
}

func (m *Middleware) Positions(n int) ([]particle.Vec3, error) {
	m.logger.Debug("positions requested", zap.Int("n", n))
	return m.src.Positions(n)
}

func (m *Middleware) Colors(n int) ([]particle.RGBA, error) {
	m.logger.Debug("colors requested", zap.Int("n", n))
	return m.src.Colors(n)
}

func (m *Middleware) ParticleSizes(n int) ([]float64, error) {
	m.logger.Debug("sizes requested", zap.Int("n", n))
	return m.src.ParticleSizes(n)
}

// ParticleSet fetches all three arrays for n particles.
func (m *Middleware) ParticleSet(n int) (particle.ParticleSet, error) {
	pos, err := m.Positions(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	cols, err := m.Colors(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	sizes, err := m.ParticleSizes(n)
	if err != nil {
		return particle.ParticleSet{}, err
	}
	return particle.ParticleSet{Positions: pos, Colors: cols, Sizes: sizes}, nil
}
