package life

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partisim/internal/particle"
)

func testSpecies(counts ...int) []particle.Species {
	out := make([]particle.Species, len(counts))
	for i, n := range counts {
		out[i] = particle.Species{Color: particle.RGBA{R: 1, A: 1}, Count: n, Mass: 1, Restitution: 1}
	}
	return out
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 1
	return opts
}

func TestNew_Validation(t *testing.T) {
	bad := testSpecies(3)
	bad[0].Mass = 0
	if _, err := New(100, 100, bad, nil, testOptions()); !errors.Is(err, particle.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero mass, got %v", err)
	}
	if _, err := New(0, 100, testSpecies(1), nil, testOptions()); !errors.Is(err, particle.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero width, got %v", err)
	}
	opts := testOptions()
	opts.Radius = 0
	if _, err := New(100, 100, testSpecies(1), nil, opts); !errors.Is(err, particle.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero radius, got %v", err)
	}
}

func TestNew_Layout(t *testing.T) {
	species := testSpecies(3, 5)
	species[1].Color = particle.RGBA{B: 1, A: 1}
	s, err := New(100, 50, species, nil, testOptions())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Len() != 8 {
		t.Fatalf("expected 8 particles, got %d", s.Len())
	}

	set := s.ParticleSet()
	if err := set.Validate(); err != nil {
		t.Fatalf("set not aligned: %v", err)
	}
	if set.Colors[0] != species[0].Color || set.Colors[7] != species[1].Color {
		t.Error("expected colors to follow class order")
	}
	for i, p := range set.Positions {
		if p.X < 0 || p.X >= 100 || p.Y < 0 || p.Y >= 50 || p.Z != 0 {
			t.Errorf("particle %d outside area: %v", i, p)
		}
	}
}

func TestStep_StaysInArea(t *testing.T) {
	rel := particle.Relationships{}
	rel.Set(1, 1, 3)
	rel.Set(1, 2, -4)
	rel.Set(2, 2, 1)
	s, err := New(60, 40, testSpecies(40, 40), rel, testOptions())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := 0; i < 200; i++ {
		s.Step()
	}
	if s.Steps() != 200 {
		t.Errorf("expected 200 steps, got %d", s.Steps())
	}
	for i, p := range s.Positions() {
		if p.X < 0 || p.X >= 60 || p.Y < 0 || p.Y >= 40 {
			t.Fatalf("particle %d escaped the area: %v", i, p)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("particle %d has NaN position", i)
		}
	}
}

func TestCollision_ElasticHeadOn(t *testing.T) {
	opts := testOptions()
	opts.SkipInteraction = true
	s, err := New(100, 100, testSpecies(2), nil, opts)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.pos = []vec2{{10, 10}, {11.5, 10}}
	s.vel = []vec2{{1, 0}, {-1, 0}}
	px0, py0 := s.Momentum()
	e0 := s.KineticEnergy()
	if e0 != 1 {
		t.Errorf("expected kinetic energy 1, got %f", e0)
	}

	s.grid.rebuild(s.pos)
	s.resolveCollisions()

	if math.Abs(s.vel[0].x+1) > 1e-9 || math.Abs(s.vel[1].x-1) > 1e-9 {
		t.Errorf("expected velocities to swap, got %v %v", s.vel[0], s.vel[1])
	}
	px1, py1 := s.Momentum()
	if math.Abs(px1-px0) > 1e-9 || math.Abs(py1-py0) > 1e-9 {
		t.Errorf("momentum changed from (%f,%f) to (%f,%f)", px0, py0, px1, py1)
	}
	if e1 := s.KineticEnergy(); math.Abs(e1-e0) > 1e-9 {
		t.Errorf("elastic collision changed kinetic energy from %f to %f", e0, e1)
	}
	if d := s.pos[1].x - s.pos[0].x; math.Abs(d-2) > 1e-9 {
		t.Errorf("expected overlap resolved to distance 2, got %f", d)
	}
}

func TestCollision_SeparatingPairKeepsVelocity(t *testing.T) {
	s, _ := New(100, 100, testSpecies(2), nil, testOptions())
	s.pos = []vec2{{10, 10}, {11.5, 10}}
	s.vel = []vec2{{-1, 0}, {1, 0}}

	s.grid.rebuild(s.pos)
	s.resolveCollisions()

	if s.vel[0].x != -1 || s.vel[1].x != 1 {
		t.Errorf("separating pair should keep its velocity, got %v %v", s.vel[0], s.vel[1])
	}
}

func TestSteer_AttractAndRepel(t *testing.T) {
	for _, tt := range []struct {
		name  string
		value int
		sign  float64
	}{
		{"attract", 5, 1},
		{"repel", -5, -1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rel := particle.Relationships{}
			rel.Set(1, 1, tt.value)
			s, _ := New(100, 100, testSpecies(2), rel, testOptions())
			s.pos = []vec2{{10, 10}, {15, 10}}
			s.vel = []vec2{{0, 1}, {0, 1}}

			s.grid.rebuild(s.pos)
			s.steer()

			// Particle 0 sits left of particle 1.
			if s.vel[0].x*tt.sign <= 0 {
				t.Errorf("particle 0 turned the wrong way: %v", s.vel[0])
			}
			if s.vel[1].x*tt.sign >= 0 {
				t.Errorf("particle 1 turned the wrong way: %v", s.vel[1])
			}
			if speed := math.Hypot(s.vel[0].x, s.vel[0].y); math.Abs(speed-1) > 1e-9 {
				t.Errorf("steering changed speed to %f", speed)
			}
		})
	}
}

func TestPerturb_RestingParticlesStart(t *testing.T) {
	s, _ := New(100, 100, testSpecies(5), nil, testOptions())
	for i := range s.vel {
		s.vel[i] = vec2{}
	}
	s.perturbHeadings()
	for i, v := range s.vel {
		if speed := math.Hypot(v.x, v.y); math.Abs(speed-1) > 1e-9 {
			t.Errorf("particle %d: expected unit speed, got %f", i, speed)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := floorMod(-1, 10); got != 9 {
		t.Errorf("floorMod(-1, 10) = %f, want 9", got)
	}
	if got := minImage(9, 10); got != -1 {
		t.Errorf("minImage(9, 10) = %f, want -1", got)
	}
	if got := wrapAngle(3 * math.Pi / 2); math.Abs(got+math.Pi/2) > 1e-12 {
		t.Errorf("wrapAngle(3pi/2) = %f, want -pi/2", got)
	}
}

func TestEmptySystem(t *testing.T) {
	s, err := New(10, 10, nil, nil, testOptions())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Step()
	if s.Len() != 0 || s.MeanSpeed() != 0 {
		t.Error("expected an empty system to stay empty")
	}
}

func TestStep_SteersAfterCollisionMoves(t *testing.T) {
	rel := particle.Relationships{}
	rel.Set(1, 1, 5)
	opts := testOptions()
	opts.BrownianStd = 0
	s, err := New(200, 200, testSpecies(3), rel, opts)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// Cells are 20 wide. Particle 1 starts in cell 1, just out of reach of
	// particle 0 in cell 3, and the overlap with particle 2 pushes it into cell 2.
	s.pos = []vec2{{60.5, 100}, {39.9, 100}, {39.4, 100}}
	s.vel = []vec2{{0, 1}, {0, 1}, {0, 1}}

	s.Step()

	if d := s.pos[0].x - s.pos[1].x; d >= 20 {
		t.Fatalf("expected particle 1 within reach after the collision, distance %f", d)
	}
	if s.vel[0].x >= 0 {
		t.Errorf("expected particle 0 to turn toward particle 1, got %v", s.vel[0])
	}
}
