package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/dropsim/internal/rigid"
)

// Driver owns the physics objects of one scene and steps them at a fixed
// timestep.
type Driver struct {
	cfg   Config
	log   *zap.Logger
	phase Phase

	world    *rigid.World
	space    *rigid.Space
	contacts *rigid.JointGroup
	ball     *rigid.Body
	ballGeom *rigid.Geom
	ground   *rigid.Geom
	data     *CollisionData

	step    int
	touched bool
	// failed holds the error that stopped the scene; only Reset clears it.
	failed error

	metrics   []Metric
	observers []Observer
}

type Option func(*Driver)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// New validates cfg and builds the scene: a world with gravity along Y, a
// simple space, an empty contact group, the sphere at (0, StartHeight, 0)
// and the ground plane y = 0.
func New(cfg Config, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:       cfg,
		log:       zap.NewNop(),
		phase:     PhaseInit,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.world = rigid.NewWorld()
	d.world.SetGravity(mgl64.Vec3{0, cfg.Gravity, 0})
	if cfg.Iterations > 0 {
		d.world.SetIterations(cfg.Iterations)
	}
	d.space = rigid.NewSimpleSpace()
	d.contacts = rigid.NewJointGroup()

	d.ball = d.world.NewBody()
	d.ball.SetPosition(mgl64.Vec3{0, cfg.StartHeight, 0})
	if err := d.ball.SetMass(rigid.SphereMass(cfg.Density, cfg.Radius)); err != nil {
		d.destroy()
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.ballGeom = d.space.NewSphere(cfg.Radius)
	d.ballGeom.SetBody(d.ball)
	d.ground = d.space.NewPlane(0, 1, 0, 0)

	d.data = &CollisionData{
		World:       d.world,
		Contacts:    d.contacts,
		MaxContacts: cfg.MaxContacts,
		Surface:     cfg.Surface,
	}

	d.phase = PhaseStepping
	d.log.Debug("scene initialised",
		zap.Float64("dt", cfg.Dt),
		zap.Float64("height", cfg.StartHeight),
		zap.Float64("radius", cfg.Radius),
		zap.Float64("mass", d.ball.Mass().Total),
	)
	return d, nil
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Config() Config { return d.cfg }
func (d *Driver) Phase() Phase   { return d.phase }

// Ball returns the sphere body. It is nil after Close.
func (d *Driver) Ball() *rigid.Body { return d.ball }

// Time is the simulated time after the last step.
func (d *Driver) Time() float64 { return float64(d.step) * d.cfg.Dt }

// ContactGroupLen reports how many contact joints are currently pending.
func (d *Driver) ContactGroupLen() int {
	if d.contacts == nil {
		return 0
	}
	return d.contacts.Len()
}

// Sample reports the current sphere state without stepping.
func (d *Driver) Sample() Sample {
	s := Sample{Step: d.step, Time: d.Time(), Pending: d.ContactGroupLen()}
	if d.ball != nil {
		s.Position = d.ball.Position()
		s.Velocity = d.ball.LinearVel()
	}
	return s
}

// Step runs one tick: collision detection, one world step of exactly Dt and
// the contact group empty. Once the state diverges every later Step returns
// the same ErrUnstable error until Reset.
func (d *Driver) Step() (Sample, error) {
	if d.phase != PhaseStepping {
		return Sample{}, ErrClosed
	}
	if d.failed != nil {
		return d.Sample(), d.failed
	}

	d.space.Collide(d.data.HandleCollision)
	created := d.contacts.Len()

	err := d.world.Step(d.cfg.Dt)
	d.contacts.Empty()
	if err != nil {
		return Sample{}, &SimulationError{Step: d.step, Time: d.Time(), Wrapped: err}
	}
	d.step++

	s := d.Sample()
	s.Contacts = created

	if !finite(s.Position.Len()) || !finite(s.Velocity.Len()) {
		d.failed = &SimulationError{Step: s.Step, Time: s.Time, Wrapped: ErrUnstable}
		d.log.Warn("simulation diverged", zap.Int("step", s.Step), zap.Float64("time", s.Time))
		return s, d.failed
	}
	if created > 0 && !d.touched {
		d.touched = true
		d.log.Debug("first ground contact",
			zap.Float64("time", s.Time),
			zap.Int("contacts", created),
			zap.Float64("vy", s.Velocity.Y()),
		)
	}

	for _, m := range d.metrics {
		m.Observe(s)
	}
	for _, obs := range d.observers {
		obs.OnStep(s)
	}
	return s, nil
}

// Run is the headless loop. It emits the initial state, steps until the
// configured duration is reached and emits a sample whenever simulated time
// crosses the next output boundary. An OutputStep of zero emits every tick.
func (d *Driver) Run(ctx context.Context, emit func(Sample)) (*Result, error) {
	if d.phase != PhaseStepping {
		return nil, ErrClosed
	}

	steps := d.cfg.Steps()
	capacity := steps + 1
	if d.cfg.OutputStep > 0 {
		capacity = min(capacity, int(math.Min(d.cfg.Duration/d.cfg.OutputStep, float64(steps)))+2)
	}
	result := &Result{
		Times:      make([]float64, 0, capacity),
		Positions:  make([]mgl64.Vec3, 0, capacity),
		Velocities: make([]mgl64.Vec3, 0, capacity),
		Metrics:    make(map[string]float64),
	}
	for _, m := range d.metrics {
		m.Reset()
	}

	out := func(s Sample) {
		result.record(s)
		if emit != nil {
			emit(s)
		}
	}
	out(d.Sample())

	outputs := 1
	next := d.cfg.OutputStep
	half := d.cfg.Dt / 2

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			d.collect(result)
			return result, ctx.Err()
		default:
		}

		s, err := d.Step()
		if err != nil {
			d.collect(result)
			return result, err
		}
		result.StepsTaken++

		if s.Time >= next-half {
			out(s)
			outputs++
			next = float64(outputs) * d.cfg.OutputStep
		}
	}

	d.collect(result)
	d.log.Debug("headless run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("samples", len(result.Times)),
		zap.Float64("time", d.Time()),
	)
	return result, nil
}

func (d *Driver) collect(r *Result) {
	for _, m := range d.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// RunUntil is the interactive loop. stop is polled once per iteration before
// stepping; frame receives every tick.
func (d *Driver) RunUntil(ctx context.Context, stop func() bool, frame func(Sample)) error {
	if d.phase != PhaseStepping {
		return ErrClosed
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if stop != nil && stop() {
			return nil
		}

		s, err := d.Step()
		if err != nil {
			return err
		}
		if frame != nil {
			frame(s)
		}
	}
}

// Reset puts the sphere back at its starting height at rest and clears a
// divergence error.
func (d *Driver) Reset() {
	if d.phase != PhaseStepping {
		return
	}
	d.contacts.Empty()
	d.ball.SetPosition(mgl64.Vec3{0, d.cfg.StartHeight, 0})
	d.ball.SetRotation(mgl64.QuatIdent())
	d.ball.SetLinearVel(mgl64.Vec3{})
	d.ball.SetAngularVel(mgl64.Vec3{})
	d.step = 0
	d.touched = false
	d.failed = nil
	for _, m := range d.metrics {
		m.Reset()
	}
}

// Close destroys the contact group, the space and the world. Calling it
// more than once is a no-op.
func (d *Driver) Close() {
	if d.phase == PhaseShutdown {
		return
	}
	d.destroy()
	d.log.Debug("scene shut down", zap.Int("steps", d.step))
}

func (d *Driver) destroy() {
	d.phase = PhaseShutdown
	if d.contacts != nil {
		d.contacts.Destroy()
	}
	if d.space != nil {
		d.space.Destroy()
	}
	if d.world != nil {
		d.world.Destroy()
	}
	d.contacts, d.space, d.world = nil, nil, nil
	d.ball, d.ballGeom, d.ground = nil, nil, nil
}

// Energy is the translational kinetic plus potential energy of the sphere,
// with y = 0 as the potential reference.
func Energy(cfg Config, s Sample) float64 {
	m := rigid.SphereMass(cfg.Density, cfg.Radius).Total
	v := s.Velocity.Len()
	return 0.5*m*v*v - m*cfg.Gravity*s.Position.Y()
}
