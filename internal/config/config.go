package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dropsim/internal/logger"
	"github.com/san-kum/dropsim/internal/rigid"
	"github.com/san-kum/dropsim/internal/sim"
)

const (
	DefaultDt          = 0.001
	DefaultDuration    = 10.0
	DefaultOutputStep  = 0.05
	DefaultGravity     = -9.81
	DefaultRestitution = 0.9
	DefaultDensity     = 1.0
	DefaultRadius      = 0.3
	DefaultHeight      = 10.0
	DefaultMu          = 50.0
	DefaultSoftERP     = 0.96
	DefaultSoftCFM     = 2.0
	DefaultMaxContacts = 8

	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
	DefaultFPS          = 60
)

type Config struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	OutputStep  float64 `yaml:"output_step"`
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`

	Ball    BallConfig     `yaml:"ball"`
	Surface SurfaceConfig  `yaml:"surface"`
	Solver  SolverConfig   `yaml:"solver"`
	Window  WindowConfig   `yaml:"window"`
	Log     logger.Options `yaml:"log"`
}

type BallConfig struct {
	Density float64 `yaml:"density"`
	Radius  float64 `yaml:"radius"`
	Height  float64 `yaml:"height"`
}

// SurfaceConfig is the contact policy. Soft ERP/CFM, bounce and mu2 are
// enabled when their value is positive.
type SurfaceConfig struct {
	Mu        float64 `yaml:"mu"`
	Mu2       float64 `yaml:"mu2,omitempty"`
	SoftERP   float64 `yaml:"soft_erp"`
	SoftCFM   float64 `yaml:"soft_cfm"`
	Bounce    float64 `yaml:"bounce,omitempty"`
	BounceVel float64 `yaml:"bounce_vel,omitempty"`
	Slip      float64 `yaml:"slip,omitempty"`
	Approx    bool    `yaml:"approx"`
}

type SolverConfig struct {
	MaxContacts int `yaml:"max_contacts"`
	Iterations  int `yaml:"iterations"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Title  string `yaml:"title"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		OutputStep:  DefaultOutputStep,
		Gravity:     DefaultGravity,
		Restitution: DefaultRestitution,
		Ball: BallConfig{
			Density: DefaultDensity,
			Radius:  DefaultRadius,
			Height:  DefaultHeight,
		},
		Surface: SurfaceConfig{
			Mu:      DefaultMu,
			SoftERP: DefaultSoftERP,
			SoftCFM: DefaultSoftCFM,
			Approx:  true,
		},
		Solver: SolverConfig{
			MaxContacts: DefaultMaxContacts,
			Iterations:  rigid.DefaultIterations,
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			FPS:    DefaultFPS,
			Title:  "dropsim",
		},
		Log: logger.DefaultOptions(),
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path on top of a copy of base. Keys missing from the file
// keep the base values.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SurfaceParams converts the surface section into contact parameters.
func (s SurfaceConfig) SurfaceParams() rigid.SurfaceParams {
	p := rigid.SurfaceParams{
		Mode:      rigid.ContactSlip1 | rigid.ContactSlip2,
		Mu:        s.Mu,
		Mu2:       s.Mu2,
		Bounce:    s.Bounce,
		BounceVel: s.BounceVel,
		SoftERP:   s.SoftERP,
		SoftCFM:   s.SoftCFM,
		Slip1:     s.Slip,
		Slip2:     s.Slip,
	}
	if s.Mu2 > 0 {
		p.Mode |= rigid.ContactMu2
	}
	if s.SoftERP > 0 {
		p.Mode |= rigid.ContactSoftERP
	}
	if s.SoftCFM > 0 {
		p.Mode |= rigid.ContactSoftCFM
	}
	if s.Bounce > 0 {
		p.Mode |= rigid.ContactBounce
	}
	if s.Approx {
		p.Mode |= rigid.ContactApprox1
	}
	return p
}

// SimConfig converts the file format into a driver configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:          c.Dt,
		Duration:    c.Duration,
		OutputStep:  c.OutputStep,
		Density:     c.Ball.Density,
		Radius:      c.Ball.Radius,
		StartHeight: c.Ball.Height,
		Gravity:     c.Gravity,
		Restitution: c.Restitution,
		MaxContacts: c.Solver.MaxContacts,
		Iterations:  c.Solver.Iterations,
		Surface:     c.Surface.SurfaceParams(),
	}
}

// Validate checks the window section and the derived driver configuration.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %d", c.Window.FPS)
	}
	return c.SimConfig().Validate()
}
