package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultERP        = 0.2
	DefaultCFM        = 1e-10
	DefaultIterations = 20
)

// World integrates bodies and solves the constraints of live contact joints.
type World struct {
	gravity    mgl64.Vec3
	erp, cfm   float64
	iterations int

	bodies []*Body
	joints []*ContactJoint
	rows   []row

	destroyed bool
}

func NewWorld() *World {
	return &World{
		erp:        DefaultERP,
		cfm:        DefaultCFM,
		iterations: DefaultIterations,
	}
}

func (w *World) SetGravity(g mgl64.Vec3) { w.gravity = g }
func (w *World) Gravity() mgl64.Vec3     { return w.gravity }

// SetERP sets the error reduction parameter used by joints without soft ERP.
func (w *World) SetERP(erp float64) { w.erp = erp }

// SetCFM sets the constraint force mixing used by joints without soft CFM.
func (w *World) SetCFM(cfm float64) { w.cfm = cfm }

func (w *World) ERP() float64 { return w.erp }
func (w *World) CFM() float64 { return w.cfm }

// SetIterations sets the number of Gauss-Seidel sweeps per step.
func (w *World) SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	w.iterations = n
}

func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Joints returns the contact joints that will take part in the next step.
func (w *World) Joints() []*ContactJoint {
	w.prune()
	out := make([]*ContactJoint, len(w.joints))
	copy(out, w.joints)
	return out
}

func (w *World) Destroyed() bool { return w.destroyed }

// Destroy releases all bodies and joints.
func (w *World) Destroy() {
	for _, j := range w.joints {
		j.live = false
	}
	w.joints = nil
	w.bodies = nil
	w.rows = nil
	w.destroyed = true
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return ErrInvalidStep
	}
	w.prune()

	// Rows see pre-step velocities so bounce uses the approach speed.
	w.buildRows(dt)

	for _, b := range w.bodies {
		acc := w.gravity.Add(b.force.Mul(b.invMass))
		b.linVel = b.linVel.Add(acc.Mul(dt))
		b.angVel = b.angVel.Add(b.worldInvInertia().Mul3x1(b.torque).Mul(dt))
	}

	w.solve()

	for _, b := range w.bodies {
		b.pos = b.pos.Add(b.linVel.Mul(dt))
		spin := mgl64.Quat{W: 0, V: b.angVel}.Mul(b.rot).Scale(0.5 * dt)
		b.rot = b.rot.Add(spin).Normalize()
		b.force = mgl64.Vec3{}
		b.torque = mgl64.Vec3{}
	}
	return nil
}

func (w *World) prune() {
	live := w.joints[:0]
	for _, j := range w.joints {
		if j.live {
			live = append(live, j)
		}
	}
	for i := len(live); i < len(w.joints); i++ {
		w.joints[i] = nil
	}
	w.joints = live
}
