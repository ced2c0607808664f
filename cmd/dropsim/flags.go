package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/logger"
)

type floatFlag struct {
	name  string
	usage string
	field func(*config.Config) *float64
}

var floatFlags = []floatFlag{
	{"dt", "fixed timestep in seconds", func(c *config.Config) *float64 { return &c.Dt }},
	{"time", "simulated duration in seconds", func(c *config.Config) *float64 { return &c.Duration }},
	{"output-step", "time between printed samples (0 prints every step)", func(c *config.Config) *float64 { return &c.OutputStep }},
	{"height", "start height of the sphere centre", func(c *config.Config) *float64 { return &c.Ball.Height }},
	{"radius", "sphere radius", func(c *config.Config) *float64 { return &c.Ball.Radius }},
	{"density", "sphere density", func(c *config.Config) *float64 { return &c.Ball.Density }},
	{"gravity", "vertical gravity", func(c *config.Config) *float64 { return &c.Gravity }},
	{"restitution", "restitution label of the output header", func(c *config.Config) *float64 { return &c.Restitution }},
	{"mu", "contact friction coefficient", func(c *config.Config) *float64 { return &c.Surface.Mu }},
	{"soft-erp", "contact error reduction (0 disables)", func(c *config.Config) *float64 { return &c.Surface.SoftERP }},
	{"soft-cfm", "contact constraint force mixing (0 disables)", func(c *config.Config) *float64 { return &c.Surface.SoftCFM }},
	{"bounce", "contact bounce (0 disables)", func(c *config.Config) *float64 { return &c.Surface.Bounce }},
}

type intFlag struct {
	name  string
	usage string
	field func(*config.Config) *int
}

var intFlags = []intFlag{
	{"max-contacts", "contact points requested per pair", func(c *config.Config) *int { return &c.Solver.MaxContacts }},
	{"iterations", "solver iterations per step", func(c *config.Config) *int { return &c.Solver.Iterations }},
}

// addSimFlags registers one flag per tunable with the default config values.
func addSimFlags(fs *pflag.FlagSet) {
	def := config.DefaultConfig()
	for _, f := range floatFlags {
		fs.Float64(f.name, *f.field(def), f.usage)
	}
	for _, f := range intFlags {
		fs.Int(f.name, *f.field(def), f.usage)
	}
}

// applySimFlags copies explicitly set flags into cfg.
func applySimFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	for _, f := range floatFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetFloat64(f.name)
		if err != nil {
			return err
		}
		*f.field(cfg) = v
	}
	for _, f := range intFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetInt(f.name)
		if err != nil {
			return err
		}
		*f.field(cfg) = v
	}
	return nil
}

type env struct {
	cfg    *config.Config
	preset string
	log    *zap.Logger
}

// setup resolves the configuration of a command: preset, then config file,
// then explicitly changed flags. fallback names the preset used when none
// is given.
func setup(cmd *cobra.Command, fallback string) (*env, error) {
	name := preset
	if name == "" {
		name = fallback
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := applySimFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}

	cfg.Log = logger.FromEnv(cfg.Log)
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	log.Debug("configuration resolved",
		zap.String("preset", name),
		zap.String("config", configFile),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
	)
	return &env{cfg: cfg, preset: name, log: log}, nil
}
