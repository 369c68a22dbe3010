package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/san-kum/lensim/internal/config"
	"github.com/san-kum/lensim/internal/geodesic"
)

// resolveConfig layers the preset, the config file and explicitly set
// flags, in that order, and validates the result. The returned name
// labels the run.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "trace"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
		name = preset
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	cfg.Launch = mergeLaunch(cmd, cfg.Launch)
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dlam") {
		cfg.Dlam = dlam
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	slog.Debug("resolved config",
		"name", name,
		"mass", cfg.Mass,
		"launch", cfg.Launch,
		"steps", cfg.Steps,
		"dlam", cfg.Dlam,
		"integrator", cfg.Integrator,
	)
	return cfg, name, nil
}

func mergeLaunch(cmd *cobra.Command, l geodesic.Launch) geodesic.Launch {
	flags := cmd.Flags()
	if flags.Changed("x") {
		l.X = x0
	}
	if flags.Changed("y") {
		l.Y = y0
	}
	if flags.Changed("vx") {
		l.VX = vx0
	}
	if flags.Changed("vy") {
		l.VY = vy0
	}
	return l
}
