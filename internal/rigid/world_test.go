package rigid

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type ballScene struct {
	world  *World
	space  *Space
	group  *JointGroup
	ball   *Body
	geom   *Geom
	ground *Geom
}

func newBallScene(t *testing.T, height float64) *ballScene {
	t.Helper()
	s := &ballScene{
		world: NewWorld(),
		space: NewSimpleSpace(),
		group: NewJointGroup(),
	}
	s.world.SetGravity(mgl64.Vec3{0, -9.81, 0})
	s.ball = s.world.NewBody()
	s.ball.SetPosition(mgl64.Vec3{0, height, 0})
	if err := s.ball.SetMass(SphereMass(1.0, 0.3)); err != nil {
		t.Fatalf("set mass: %v", err)
	}
	s.geom = s.space.NewSphere(0.3)
	s.geom.SetBody(s.ball)
	s.ground = s.space.NewPlane(0, 1, 0, 0)
	return s
}

func (s *ballScene) step(t *testing.T, surface SurfaceParams, dt float64) int {
	t.Helper()
	created := 0
	s.space.Collide(func(g1, g2 *Geom) {
		for _, cg := range Collide(g1, g2, 8) {
			j := s.world.NewContactJoint(s.group, Contact{Surface: surface, Geom: cg})
			j.Attach(g1.Body(), g2.Body())
			created++
		}
	})
	if err := s.world.Step(dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	s.group.Empty()
	return created
}

var softSurface = SurfaceParams{
	Mode:    ContactSoftERP | ContactSoftCFM | ContactApprox1 | ContactSlip1 | ContactSlip2,
	Mu:      50,
	SoftERP: 0.96,
	SoftCFM: 2.0,
}

func TestSphereMass(t *testing.T) {
	m := SphereMass(1.0, 0.3)
	want := 4.0 / 3.0 * math.Pi * 0.027
	if math.Abs(m.Total-want) > 1e-12 {
		t.Errorf("mass = %v, want %v", m.Total, want)
	}
	i := 0.4 * want * 0.09
	if math.Abs(m.Inertia.At(0, 0)-i) > 1e-12 || math.Abs(m.Inertia.At(2, 2)-i) > 1e-12 {
		t.Errorf("inertia diagonal = %v, want %v", m.Inertia.At(0, 0), i)
	}
}

func TestSetMassRejectsInvalid(t *testing.T) {
	b := NewWorld().NewBody()
	tests := []struct {
		name string
		mass Mass
	}{
		{"zero", Mass{}},
		{"negative", SphereMassTotal(-1, 1)},
		{"infinite", Mass{Total: math.Inf(1), Inertia: mgl64.Ident3()}},
		{"singular inertia", Mass{Total: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.SetMass(tt.mass); !errors.Is(err, ErrInvalidMass) {
				t.Errorf("expected ErrInvalidMass, got %v", err)
			}
		})
	}
}

func TestFreeFallMatchesSemiImplicitEuler(t *testing.T) {
	s := newBallScene(t, 10)
	dt := 0.001
	g := 9.81

	for n := 1; n <= 1000; n++ {
		if c := s.step(t, softSurface, dt); c != 0 {
			t.Fatalf("unexpected contact at step %d", n)
		}
		elapsed := float64(n) * dt
		y := s.ball.Position()[1]

		exact := 10 - 0.5*g*elapsed*elapsed
		if math.Abs(y-exact) > 0.5*g*dt*elapsed+1e-9 {
			t.Fatalf("step %d: height %.9f deviates from %.9f", n, y, exact)
		}
		discrete := 10 - g*dt*dt*float64(n*(n+1))/2
		if math.Abs(y-discrete) > 1e-9 {
			t.Fatalf("step %d: height %.12f, want %.12f", n, y, discrete)
		}
	}
}

func TestContactBounceLosesEnergy(t *testing.T) {
	s := newBallScene(t, 2)
	dt := 0.001

	var before float64
	touched := false
	for n := 0; n < 5000; n++ {
		v := s.ball.LinearVel()[1]
		created := s.step(t, softSurface, dt)
		if created > 0 && !touched {
			touched = true
			before = v
		}
		if touched && created == 0 {
			after := s.ball.LinearVel()[1]
			if after <= 0 {
				t.Fatalf("expected upward velocity after contact, got %v", after)
			}
			if after > math.Abs(before) {
				t.Fatalf("rebound speed %v exceeds impact speed %v", after, math.Abs(before))
			}
			return
		}
		if touched && s.ball.Position()[1] <= 0 {
			t.Fatalf("ball sank through the ground: y=%v", s.ball.Position()[1])
		}
	}
	t.Fatal("ball never left the ground")
}

func TestInfiniteFrictionContact(t *testing.T) {
	s := newBallScene(t, 2)
	s.ball.SetLinearVel(mgl64.Vec3{1, 0, 0})
	surface := softSurface
	surface.Mu = Infinity

	touched := false
	for n := 0; n < 3000; n++ {
		created := s.step(t, surface, 0.001)
		touched = touched || created > 0

		p, v, w := s.ball.Position(), s.ball.LinearVel(), s.ball.AngularVel()
		for i := 0; i < 3; i++ {
			if math.IsNaN(p[i]+v[i]+w[i]) || math.IsInf(p[i]+v[i]+w[i], 0) {
				t.Fatalf("step %d: state diverged p=%v v=%v w=%v", n, p, v, w)
			}
		}
		if touched && created == 0 && v[1] > 0 {
			return
		}
	}
	t.Fatal("ball never rebounded")
}

func TestContactBounceMode(t *testing.T) {
	s := newBallScene(t, 0.3)
	s.ball.SetLinearVel(mgl64.Vec3{0, -2, 0})

	surface := SurfaceParams{Mode: ContactBounce, Mu: 0, Bounce: 0.5, BounceVel: 0.1}
	s.step(t, surface, 0.001)

	v := s.ball.LinearVel()[1]
	if math.Abs(v-1.0) > 1e-6 {
		t.Errorf("rebound velocity = %v, want 1.0", v)
	}
}

func TestFrictionStopsSliding(t *testing.T) {
	s := newBallScene(t, 0.299)
	s.ball.SetLinearVel(mgl64.Vec3{1, 0, 0})

	surface := SurfaceParams{Mode: ContactApprox1, Mu: 1}
	for n := 0; n < 500; n++ {
		s.step(t, surface, 0.001)
	}

	vx := s.ball.LinearVel()[0]
	if vx >= 1 || vx <= 0 {
		t.Errorf("expected friction to slow the sphere, vx = %v", vx)
	}
	if w := s.ball.AngularVel(); w[2] >= 0 {
		t.Errorf("expected rolling spin about -Z, got %v", w)
	}
}

func TestJointGroupEmpty(t *testing.T) {
	s := newBallScene(t, 0.2)

	s.space.Collide(func(g1, g2 *Geom) {
		for _, cg := range Collide(g1, g2, 8) {
			s.world.NewContactJoint(s.group, Contact{Surface: softSurface, Geom: cg}).Attach(g1.Body(), g2.Body())
		}
	})
	if s.group.Len() != 1 || len(s.world.Joints()) != 1 {
		t.Fatalf("expected 1 joint, group=%d world=%d", s.group.Len(), len(s.world.Joints()))
	}
	joint := s.world.Joints()[0]

	s.group.Empty()
	if s.group.Len() != 0 {
		t.Errorf("group not empty: %d", s.group.Len())
	}
	if len(s.world.Joints()) != 0 || joint.Live() {
		t.Error("emptied joint still constrains the world")
	}
}

func TestStepErrors(t *testing.T) {
	w := NewWorld()
	for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		if err := w.Step(dt); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("Step(%v) = %v, want ErrInvalidStep", dt, err)
		}
	}

	w.Destroy()
	if err := w.Step(0.01); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Step after destroy = %v, want ErrDestroyed", err)
	}
	j := w.NewContactJoint(NewJointGroup(), Contact{})
	if j.Live() {
		t.Error("joint on destroyed world should not be live")
	}
}

func TestRotationStaysNormalised(t *testing.T) {
	w := NewWorld()
	b := w.NewBody()
	b.SetAngularVel(mgl64.Vec3{3, -2, 5})
	for i := 0; i < 1000; i++ {
		if err := w.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if l := b.Rotation().Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("quaternion length = %v", l)
	}
}
