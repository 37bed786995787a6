package life

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

const (
	DefaultRadius      = 1.0
	DefaultDt          = 1.0 / 60
	DefaultBrownianStd = 0.01
	DefaultMinVel      = -5.0
	DefaultMaxVel      = 5.0
	// InteractionScale multiplies the radius to get the interaction radius.
	InteractionScale = 10.0
)

type Options struct {
	Radius      float64
	Dt          float64
	BrownianStd float64
	MinVel      float64
	MaxVel      float64
	Seed        int64
	// SkipInteraction disables relationship steering.
	SkipInteraction bool
}

func DefaultOptions() Options {
	return Options{
		Radius:      DefaultRadius,
		Dt:          DefaultDt,
		BrownianStd: DefaultBrownianStd,
		MinVel:      DefaultMinVel,
		MaxVel:      DefaultMaxVel,
	}
}

type vec2 struct{ x, y float64 }

type System struct {
	width, height float64
	opts          Options
	rel           particle.Relationships
	rng           *rand.Rand

	pos         []vec2
	vel         []vec2
	class       []int
	colors      []particle.RGBA
	mass        []float64
	restitution []float64

	grid *grid
	step int
}

// New seeds every class uniformly over a width x height area.
func New(width, height float64, species []particle.Species, rel particle.Relationships, opts Options) (*System, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: area must be positive, got %gx%g", particle.ErrInvalidArgument, width, height)
	}
	if opts.Radius <= 0 || opts.Dt <= 0 {
		return nil, fmt.Errorf("%w: radius and dt must be positive", particle.ErrInvalidArgument)
	}
	if opts.MaxVel < opts.MinVel {
		return nil, fmt.Errorf("%w: velocity range [%g, %g] is empty", particle.ErrInvalidArgument, opts.MinVel, opts.MaxVel)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if rel == nil {
		rel = particle.Relationships{}
	}
	s := &System{
		width:  width,
		height: height,
		opts:   opts,
		rel:    rel,
		rng:    rand.New(rand.NewSource(seed)),
	}

	for idx, sp := range species {
		if err := sp.Validate(); err != nil {
			return nil, fmt.Errorf("class %d: %w", idx+1, err)
		}
		for k := 0; k < sp.Count; k++ {
			s.pos = append(s.pos, vec2{s.rng.Float64() * width, s.rng.Float64() * height})
			s.class = append(s.class, idx+1)
			s.colors = append(s.colors, sp.Color)
			s.mass = append(s.mass, sp.Mass)
			s.restitution = append(s.restitution, sp.Restitution)
		}
	}

	s.vel = make([]vec2, len(s.pos))
	for i := range s.vel {
		speed := opts.MinVel + s.rng.Float64()*(opts.MaxVel-opts.MinVel)
		angle := s.rng.Float64() * 2 * math.Pi
		s.vel[i] = vec2{speed * math.Cos(angle), speed * math.Sin(angle)}
	}

	s.grid = newGrid(width, height, 2*opts.Radius*InteractionScale)
	return s, nil
}

func (s *System) Len() int        { return len(s.pos) }
func (s *System) Steps() int      { return s.step }
func (s *System) Width() float64  { return s.width }
func (s *System) Height() float64 { return s.height }

// Positions returns the current positions lifted to 3D with z = 0.
func (s *System) Positions() []particle.Vec3 {
	out := make([]particle.Vec3, len(s.pos))
	for i, p := range s.pos {
		out[i] = particle.Vec3{X: p.x, Y: p.y}
	}
	return out
}

// ParticleSet returns positions, class colors and radius-sized particles.
func (s *System) ParticleSet() particle.ParticleSet {
	sizes := make([]float64, len(s.pos))
	for i := range sizes {
		sizes[i] = s.opts.Radius
	}
	return particle.ParticleSet{
		Positions: s.Positions(),
		Colors:    append([]particle.RGBA(nil), s.colors...),
		Sizes:     sizes,
	}
}

// MeanSpeed is the average velocity magnitude.
func (s *System) MeanSpeed() float64 {
	if len(s.vel) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range s.vel {
		total += math.Hypot(v.x, v.y)
	}
	return total / float64(len(s.vel))
}

// KineticEnergy is the total kinetic energy.
func (s *System) KineticEnergy() float64 {
	e := 0.0
	for i, v := range s.vel {
		e += 0.5 * s.mass[i] * (v.x*v.x + v.y*v.y)
	}
	return e
}

// Momentum returns the total linear momentum.
func (s *System) Momentum() (px, py float64) {
	for i, v := range s.vel {
		px += s.mass[i] * v.x
		py += s.mass[i] * v.y
	}
	return px, py
}

// Step advances the simulation by one time step.
func (s *System) Step() {
	s.step++
	if len(s.pos) == 0 {
		return
	}
	s.perturbHeadings()

	for i := range s.pos {
		s.pos[i] = s.wrap(vec2{s.pos[i].x + s.vel[i].x*s.opts.Dt, s.pos[i].y + s.vel[i].y*s.opts.Dt})
	}

	s.grid.rebuild(s.pos)
	s.resolveCollisions()
	if !s.opts.SkipInteraction {
		// Collisions move particles by up to r.
		s.grid.rebuild(s.pos)
		s.steer()
	}
}

func (s *System) perturbHeadings() {
	moving := false
	for i, v := range s.vel {
		speed := math.Hypot(v.x, v.y)
		if speed == 0 {
			continue
		}
		moving = true
		angle := math.Atan2(v.y, v.x) + s.rng.NormFloat64()*s.opts.BrownianStd
		s.vel[i] = vec2{speed * math.Cos(angle), speed * math.Sin(angle)}
	}
	if moving {
		return
	}
	for i := range s.vel {
		angle := s.rng.Float64() * 2 * math.Pi
		s.vel[i] = vec2{math.Cos(angle), math.Sin(angle)}
	}
}

func (s *System) resolveCollisions() {
	r := s.opts.Radius
	s.grid.pairs(s.pos, 2*r, s.delta, func(i, j int, dx, dy, dist float64) {
		nx, ny := 0.0, 0.0
		if dist > 0 {
			nx, ny = dx/dist, dy/dist
		}
		depth := 2*r - dist
		s.pos[i] = s.wrap(vec2{s.pos[i].x + 0.5*depth*nx, s.pos[i].y + 0.5*depth*ny})
		s.pos[j] = s.wrap(vec2{s.pos[j].x - 0.5*depth*nx, s.pos[j].y - 0.5*depth*ny})

		dot := (s.vel[j].x-s.vel[i].x)*nx + (s.vel[j].y-s.vel[i].y)*ny
		if dot <= 0 {
			// Separating already.
			return
		}
		e := math.Min(s.restitution[i], s.restitution[j])
		impulse := -(1 + e) * dot / (1/s.mass[i] + 1/s.mass[j])
		s.vel[i].x -= impulse / s.mass[i] * nx
		s.vel[i].y -= impulse / s.mass[i] * ny
		s.vel[j].x += impulse / s.mass[j] * nx
		s.vel[j].y += impulse / s.mass[j] * ny
	})
}

func (s *System) steer() {
	reach := 2 * s.opts.Radius * InteractionScale
	s.grid.pairs(s.pos, reach, s.delta, func(i, j int, dx, dy, dist float64) {
		if dist == 0 {
			return
		}
		m := s.rel.Get(s.class[i], s.class[j])
		if m == 0 {
			return
		}
		alpha := 0.05 * math.Abs(float64(m))
		// Towards the partner when attracting, away when repelling.
		toJ := math.Atan2(-dy, -dx)
		if m < 0 {
			alpha = 0.1 * math.Abs(float64(m))
			toJ += math.Pi
		}
		s.turn(i, toJ, alpha)
		s.turn(j, toJ+math.Pi, alpha)
	})
}

func (s *System) turn(i int, desired, alpha float64) {
	v := s.vel[i]
	speed := math.Hypot(v.x, v.y)
	if speed == 0 {
		return
	}
	cur := math.Atan2(v.y, v.x)
	angle := cur + math.Min(alpha, 1)*wrapAngle(desired-cur)
	s.vel[i] = vec2{speed * math.Cos(angle), speed * math.Sin(angle)}
}

// delta returns the minimum-image vector from b to a.
func (s *System) delta(a, b vec2) (dx, dy float64) {
	dx = minImage(a.x-b.x, s.width)
	dy = minImage(a.y-b.y, s.height)
	return dx, dy
}

func (s *System) wrap(p vec2) vec2 {
	return vec2{floorMod(p.x, s.width), floorMod(p.y, s.height)}
}

func floorMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

func minImage(d, size float64) float64 {
	return floorMod(d+size/2, size) - size/2
}

// wrapAngle maps an angle to [-pi, pi).
func wrapAngle(a float64) float64 {
	return floorMod(a+math.Pi, 2*math.Pi) - math.Pi
}
