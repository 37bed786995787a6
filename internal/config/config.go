package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/san-kum/partisim/internal/colormap"
	"github.com/san-kum/partisim/internal/particle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxParticles     = 750
	DefaultMaxClasses       = 5
	DefaultRelationships    = 10
	DefaultMinMass          = 1
	DefaultMaxMass          = 10
	DefaultRestitutionSteps = 100
	DefaultColormap         = "viridis"
	DefaultScaling          = 0.77
	DefaultTickRate         = 30
	DefaultBackground       = "#24242b"

	DefaultSimWidth  = 320.0
	DefaultSimHeight = 200.0
	DefaultRadius    = 1.0

	DefaultMaxCoord = 15.0
	DefaultMinSize  = 10.0
	DefaultMaxSize  = 25.0
	DefaultPreview  = 1000

	DefaultDataDir = ".partisim"
)

type Config struct {
	DataDir    string           `yaml:"data_dir"`
	Seed       int64            `yaml:"seed"`
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Generator  GeneratorConfig  `yaml:"generator"`
}

type WindowConfig struct {
	MaxParticles     int     `yaml:"max_particles"`
	MaxClasses       int     `yaml:"max_classes"`
	Relationships    int     `yaml:"relationships"`
	MinMass          int     `yaml:"min_mass"`
	MaxMass          int     `yaml:"max_mass"`
	RestitutionSteps int     `yaml:"restitution_steps"`
	Colormap         string  `yaml:"colormap"`
	Scaling          float64 `yaml:"scaling"`
	TickRate         int     `yaml:"tick_rate"`
	Background       string  `yaml:"background"`
}

type SimulationConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Radius      float64 `yaml:"radius"`
	BrownianStd float64 `yaml:"brownian_std"`
	MinVel      float64 `yaml:"min_vel"`
	MaxVel      float64 `yaml:"max_vel"`
}

type GeneratorConfig struct {
	MaxCoord float64 `yaml:"max_coord"`
	MinSize  float64 `yaml:"min_size"`
	MaxSize  float64 `yaml:"max_size"`
	Preview  int     `yaml:"preview"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Window: WindowConfig{
			MaxParticles:     DefaultMaxParticles,
			MaxClasses:       DefaultMaxClasses,
			Relationships:    DefaultRelationships,
			MinMass:          DefaultMinMass,
			MaxMass:          DefaultMaxMass,
			RestitutionSteps: DefaultRestitutionSteps,
			Colormap:         DefaultColormap,
			Scaling:          DefaultScaling,
			TickRate:         DefaultTickRate,
			Background:       DefaultBackground,
		},
		Simulation: SimulationConfig{
			Width:       DefaultSimWidth,
			Height:      DefaultSimHeight,
			Radius:      DefaultRadius,
			BrownianStd: 0.01,
			MinVel:      -5,
			MaxVel:      5,
		},
		Generator: GeneratorConfig{
			MaxCoord: DefaultMaxCoord,
			MinSize:  DefaultMinSize,
			MaxSize:  DefaultMaxSize,
			Preview:  DefaultPreview,
		},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	w := c.Window
	switch {
	case w.MaxParticles < 1:
		return fmt.Errorf("%w: max_particles must be at least 1", particle.ErrInvalidArgument)
	case w.MaxClasses < 1:
		return fmt.Errorf("%w: max_classes must be at least 1", particle.ErrInvalidArgument)
	case w.Relationships < 2 || w.Relationships%2 != 0:
		return fmt.Errorf("%w: relationships must be a positive even number", particle.ErrInvalidArgument)
	case w.MinMass < 1 || w.MaxMass < w.MinMass:
		return fmt.Errorf("%w: mass range [%d, %d] is invalid", particle.ErrInvalidArgument, w.MinMass, w.MaxMass)
	case w.RestitutionSteps < 1:
		return fmt.Errorf("%w: restitution_steps must be at least 1", particle.ErrInvalidArgument)
	case w.TickRate < 1:
		return fmt.Errorf("%w: tick_rate must be at least 1", particle.ErrInvalidArgument)
	case !slices.Contains(colormap.Names(), w.Colormap):
		return fmt.Errorf("%w: colormap %q is not one of %s", particle.ErrInvalidArgument, w.Colormap, strings.Join(colormap.Names(), ", "))
	}
	s := c.Simulation
	if s.Width <= 0 || s.Height <= 0 || s.Radius <= 0 {
		return fmt.Errorf("%w: simulation area and radius must be positive", particle.ErrInvalidArgument)
	}
	g := c.Generator
	if g.MaxCoord <= 0 || g.MinSize < 0 || g.MaxSize <= g.MinSize || g.Preview < 0 {
		return fmt.Errorf("%w: generator ranges are invalid", particle.ErrInvalidArgument)
	}
	return nil
}
