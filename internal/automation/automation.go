package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lensim/internal/config"
	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/metrics"
)

// Scenario is a scripted batch of rays.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Mass        float64       `yaml:"mass"`
	Rays        []ScenarioRay `yaml:"rays"`
}

// ScenarioRay starts from a preset (or the defaults) and overrides any
// field that is set. Steps and Dlam are pointers so that an explicit
// zero reaches validation.
type ScenarioRay struct {
	Name       string           `yaml:"name"`
	Preset     string           `yaml:"preset"`
	Mass       float64          `yaml:"mass"`
	Launch     *geodesic.Launch `yaml:"launch"`
	Steps      *int             `yaml:"steps"`
	Dlam       *float64         `yaml:"dlam"`
	Integrator string           `yaml:"integrator"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

// Config resolves the ray against the scenario defaults.
func (r ScenarioRay) Config(sc *Scenario) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrInvalidInput, r.Preset)
		}
	}

	switch {
	case r.Mass != 0:
		cfg.Mass = r.Mass
	case sc.Mass != 0:
		cfg.Mass = sc.Mass
	}
	if r.Launch != nil {
		cfg.Launch = *r.Launch
	}
	if r.Steps != nil {
		cfg.Steps = *r.Steps
	}
	if r.Dlam != nil {
		cfg.Dlam = *r.Dlam
	}
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Outcome is one traced scenario ray.
type Outcome struct {
	Name   string
	Config *config.Config
	Result *geodesic.Result
}

// Progress is called before each ray is traced.
type Progress func(i, n int, name string)

// RunScenario traces every ray in order. Rays without a name are called
// "<scenario>-<index>".
func RunScenario(ctx context.Context, scenario *Scenario, progress Progress) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Rays))

	for i, ray := range scenario.Rays {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
		}

		name := ray.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		if progress != nil {
			progress(i, len(scenario.Rays), name)
		}

		cfg, err := ray.Config(scenario)
		if err != nil {
			return outcomes, fmt.Errorf("ray %d (%s): %w", i+1, name, err)
		}
		bh, err := cfg.BlackHole()
		if err != nil {
			return outcomes, fmt.Errorf("ray %d (%s): %w", i+1, name, err)
		}

		tracer := geodesic.NewTracer()
		for _, m := range metrics.Defaults() {
			tracer.AddMetric(m)
		}
		result, err := tracer.Run(bh, cfg.Launch, cfg.Options())
		if err != nil {
			return outcomes, fmt.Errorf("ray %d (%s): %w", i+1, name, err)
		}

		outcomes = append(outcomes, Outcome{Name: name, Config: cfg, Result: result})
	}

	return outcomes, nil
}

// MonteCarloConfig jitters the launch of Base uniformly by up to
// Position metres in x and y and Velocity in vx and vy.
type MonteCarloConfig struct {
	Base      *config.Config
	Position  float64
	Velocity  float64
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID    int
	Launch     geodesic.Launch
	HitHorizon bool
	Periapsis  float64
}

// RunMonteCarlo traces NumTrials perturbed copies of the base ray. A
// zero Seed uses the clock.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: need at least one trial", dynamo.ErrInvalidInput)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}
	bh, err := cfg.Base.BlackHole()
	if err != nil {
		return nil, err
	}
	opts := cfg.Base.Options()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	jitter := func(scale float64) float64 { return (rng.Float64() - 0.5) * 2 * scale }

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	periapsis := metrics.NewPeriapsis()
	tracer := geodesic.NewTracer()
	tracer.AddMetric(periapsis)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
		}

		base := cfg.Base.Launch
		launch := geodesic.Launch{
			X:  base.X + jitter(cfg.Position),
			Y:  base.Y + jitter(cfg.Position),
			VX: base.VX + jitter(cfg.Velocity),
			VY: base.VY + jitter(cfg.Velocity),
		}

		result, err := tracer.Run(bh, launch, opts)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Launch:     launch,
			HitHorizon: result.HitHorizon,
			Periapsis:  result.Metrics[periapsis.Name()],
		})
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (captured int, escaped int) {
	for _, r := range results {
		if r.HitHorizon {
			captured++
		} else {
			escaped++
		}
	}
	return
}
