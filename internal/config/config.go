package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lensim/internal/ensemble"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/integrators"
	"github.com/san-kum/lensim/internal/physics"
)

const (
	DefaultMass     = 1.0e31
	DefaultX        = 1.0e6
	DefaultVY       = 5.0e4
	DefaultSteps    = geodesic.DefaultSteps
	DefaultDlam     = geodesic.DefaultStepSize
	DefaultDataDir  = ".lensim"
	DefaultFanRays  = 41
	DefaultFanSpeed = 2000.0
)

type Config struct {
	Mass       float64         `yaml:"mass"`
	Launch     geodesic.Launch `yaml:"launch"`
	Steps      int             `yaml:"steps"`
	Dlam       float64         `yaml:"dlam"`
	Integrator string          `yaml:"integrator"`
	Fan        FanConfig       `yaml:"fan"`
}

// FanConfig distances are in Schwarzschild radii so a fan keeps its
// shape when the mass changes.
type FanConfig struct {
	Distance  float64 `yaml:"distance"`
	Speed     float64 `yaml:"speed"`
	ImpactMin float64 `yaml:"impact_min"`
	ImpactMax float64 `yaml:"impact_max"`
	Rays      int     `yaml:"rays"`
	Workers   int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Mass:       DefaultMass,
		Launch:     geodesic.Launch{X: DefaultX, VY: DefaultVY},
		Steps:      DefaultSteps,
		Dlam:       DefaultDlam,
		Integrator: integrators.Default,
		Fan: FanConfig{
			Distance:  60,
			Speed:     DefaultFanSpeed,
			ImpactMin: -6,
			ImpactMax: 6,
			Rays:      DefaultFanRays,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from
// the file keep the base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything a trace needs before any integration runs.
func (c *Config) Validate() error {
	if _, err := physics.NewBlackHole(c.Mass); err != nil {
		return err
	}
	if err := c.Launch.Validate(); err != nil {
		return err
	}
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	return nil
}

func (c *Config) BlackHole() (physics.BlackHole, error) {
	return physics.NewBlackHole(c.Mass)
}

func (c *Config) Options() geodesic.Options {
	return geodesic.Options{
		Steps:      c.Steps,
		StepSize:   c.Dlam,
		Integrator: c.Integrator,
	}
}

// FanFor converts the fan block to metres for the given black hole.
func (c *Config) FanFor(bh physics.BlackHole) ensemble.Fan {
	rs := bh.Radius()
	return ensemble.Fan{
		Distance:  c.Fan.Distance * rs,
		Speed:     c.Fan.Speed,
		ImpactMin: c.Fan.ImpactMin * rs,
		ImpactMax: c.Fan.ImpactMax * rs,
		Rays:      c.Fan.Rays,
	}
}
