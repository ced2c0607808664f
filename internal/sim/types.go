package sim

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/dropsim/internal/rigid"
)

// Config describes one sphere-drop run.
type Config struct {
	Dt         float64
	Duration   float64
	OutputStep float64

	Density     float64
	Radius      float64
	StartHeight float64
	Gravity     float64

	// Restitution only labels the output; the bounce comes from Surface.
	Restitution float64

	MaxContacts int
	Iterations  int
	Surface     rigid.SurfaceParams
}

// DefaultSurface is the contact policy applied to every colliding pair.
func DefaultSurface() rigid.SurfaceParams {
	return rigid.SurfaceParams{
		Mode: rigid.ContactSoftERP | rigid.ContactSoftCFM | rigid.ContactApprox1 |
			rigid.ContactSlip1 | rigid.ContactSlip2,
		Mu:      50.0,
		SoftERP: 0.96,
		SoftCFM: 2.0,
	}
}

// DefaultConfig is the headless time-series scene.
func DefaultConfig() Config {
	return Config{
		Dt:          0.001,
		Duration:    10.0,
		OutputStep:  0.05,
		Density:     1.0,
		Radius:      0.3,
		StartHeight: 10.0,
		Gravity:     -9.81,
		Restitution: 0.9,
		MaxContacts: 8,
		Iterations:  rigid.DefaultIterations,
		Surface:     DefaultSurface(),
	}
}

// InteractiveConfig is the windowed scene, stepped once per frame.
func InteractiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Dt = 0.01
	return cfg
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type surface rigid.SurfaceParams

func (c Config) Validate() error {
	switch {
	case !finite(c.Dt) || c.Dt <= 0:
		return invalid("dt must be positive, got %g", c.Dt)
	case !finite(c.Duration) || c.Duration < 0:
		return invalid("duration must not be negative, got %g", c.Duration)
	case !finite(c.OutputStep) || c.OutputStep < 0:
		return invalid("output step must not be negative, got %g", c.OutputStep)
	case !finite(c.Density) || c.Density <= 0:
		return invalid("density must be positive, got %g", c.Density)
	case !finite(c.Radius) || c.Radius <= 0:
		return invalid("radius must be positive, got %g", c.Radius)
	case !finite(c.StartHeight):
		return invalid("start height must be finite")
	case !finite(c.Gravity):
		return invalid("gravity must be finite")
	case c.MaxContacts < 1:
		return invalid("max contacts must be at least 1, got %d", c.MaxContacts)
	case c.Iterations < 0:
		return invalid("iterations must not be negative, got %d", c.Iterations)
	}
	return surface(c.Surface).validate()
}

// friction may be +Inf; every other surface field must be finite.
func validFriction(mu float64) bool { return !math.IsNaN(mu) && mu >= 0 }

func (s surface) validate() error {
	switch {
	case !validFriction(s.Mu):
		return invalid("friction must be non-negative, got %g", s.Mu)
	case !validFriction(s.Mu2):
		return invalid("second friction must be non-negative, got %g", s.Mu2)
	case !finite(s.SoftERP) || s.SoftERP < 0 || s.SoftERP > 1:
		return invalid("soft erp must be in [0, 1], got %g", s.SoftERP)
	case !finite(s.SoftCFM) || s.SoftCFM < 0:
		return invalid("soft cfm must not be negative, got %g", s.SoftCFM)
	case !finite(s.Bounce) || s.Bounce < 0 || s.Bounce > 1:
		return invalid("bounce must be in [0, 1], got %g", s.Bounce)
	case !finite(s.BounceVel) || s.BounceVel < 0:
		return invalid("bounce velocity must not be negative, got %g", s.BounceVel)
	case !finite(s.Slip1) || !finite(s.Slip2) || s.Slip1 < 0 || s.Slip2 < 0:
		return invalid("slip must not be negative, got %g/%g", s.Slip1, s.Slip2)
	}
	return nil
}

// Steps is the number of ticks the headless loop takes: it keeps stepping
// while time < Duration, with Dt/2 of slack for rounding.
func (c Config) Steps() int {
	return int(math.Floor(c.Duration/c.Dt+0.5)) + 1
}

// ParamNames lists the names accepted by SetParam.
func ParamNames() []string {
	names := make([]string, 0, len(paramSetters))
	for k := range paramSetters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var paramSetters = map[string]func(*Config, float64){
	"dt":           func(c *Config, v float64) { c.Dt = v },
	"duration":     func(c *Config, v float64) { c.Duration = v },
	"output_step":  func(c *Config, v float64) { c.OutputStep = v },
	"density":      func(c *Config, v float64) { c.Density = v },
	"radius":       func(c *Config, v float64) { c.Radius = v },
	"height":       func(c *Config, v float64) { c.StartHeight = v },
	"gravity":      func(c *Config, v float64) { c.Gravity = v },
	"restitution":  func(c *Config, v float64) { c.Restitution = v },
	"max_contacts": func(c *Config, v float64) { c.MaxContacts = int(v) },
	"iterations":   func(c *Config, v float64) { c.Iterations = int(v) },
	"mu":           func(c *Config, v float64) { c.Surface.Mu = v },
	"soft_erp": func(c *Config, v float64) {
		c.Surface.SoftERP = v
		c.Surface.Mode |= rigid.ContactSoftERP
	},
	"soft_cfm": func(c *Config, v float64) {
		c.Surface.SoftCFM = v
		c.Surface.Mode |= rigid.ContactSoftCFM
	},
	"bounce": func(c *Config, v float64) {
		c.Surface.Bounce = v
		if v > 0 {
			c.Surface.Mode |= rigid.ContactBounce
		} else {
			c.Surface.Mode &^= rigid.ContactBounce
		}
	},
	"bounce_vel": func(c *Config, v float64) { c.Surface.BounceVel = v },
	"slip": func(c *Config, v float64) {
		c.Surface.Slip1, c.Surface.Slip2 = v, v
	},
}

// SetParam sets a named scalar parameter.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := paramSetters[name]
	if !ok {
		return ErrUnknownParam
	}
	set(c, v)
	return nil
}

func (c Config) Params() map[string]float64 {
	return map[string]float64{
		"dt":           c.Dt,
		"duration":     c.Duration,
		"output_step":  c.OutputStep,
		"density":      c.Density,
		"radius":       c.Radius,
		"height":       c.StartHeight,
		"gravity":      c.Gravity,
		"restitution":  c.Restitution,
		"max_contacts": float64(c.MaxContacts),
		"iterations":   float64(c.Iterations),
		"mu":           c.Surface.Mu,
		"soft_erp":     c.Surface.SoftERP,
		"soft_cfm":     c.Surface.SoftCFM,
		"bounce":       c.Surface.Bounce,
		"bounce_vel":   c.Surface.BounceVel,
		"slip":         c.Surface.Slip1,
	}
}

// Phase is the lifecycle state of a Driver.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseStepping
	PhaseShutdown
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseStepping:
		return "stepping"
	case PhaseShutdown:
		return "shutdown"
	}
	return "unknown"
}

// Sample is the sphere state after a tick.
type Sample struct {
	Step     int
	Time     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	// Contacts is the number of contact joints created during the tick.
	Contacts int
	// Pending is the size of the contact group after it was emptied.
	Pending int
}

// Height is the vertical coordinate of the sphere centre.
func (s Sample) Height() float64 { return s.Position.Y() }

type Observer interface {
	OnStep(s Sample)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Result holds the emitted samples of a headless run.
type Result struct {
	Times      []float64
	Positions  []mgl64.Vec3
	Velocities []mgl64.Vec3
	StepsTaken int
	Metrics    map[string]float64
}

// Heights returns the vertical coordinate of every recorded position.
func (r *Result) Heights() []float64 {
	h := make([]float64, len(r.Positions))
	for i, p := range r.Positions {
		h[i] = p.Y()
	}
	return h
}

func (r *Result) record(s Sample) {
	r.Times = append(r.Times, s.Time)
	r.Positions = append(r.Positions, s.Position)
	r.Velocities = append(r.Velocities, s.Velocity)
}
