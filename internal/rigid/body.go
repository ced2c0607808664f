package rigid

import "github.com/go-gl/mathgl/mgl64"

// Body is a dynamic rigid body owned by a World.
type Body struct {
	world *World

	pos    mgl64.Vec3
	rot    mgl64.Quat
	linVel mgl64.Vec3
	angVel mgl64.Vec3
	force  mgl64.Vec3
	torque mgl64.Vec3

	mass       Mass
	invMass    float64
	invInertia mgl64.Mat3
}

// NewBody creates a body at the origin with unit mass and identity inertia.
func (w *World) NewBody() *Body {
	b := &Body{world: w, rot: mgl64.QuatIdent()}
	b.applyMass(unitMass())
	if !w.destroyed {
		w.bodies = append(w.bodies, b)
	}
	return b
}

func (b *Body) World() *World { return b.world }

func (b *Body) SetPosition(p mgl64.Vec3) { b.pos = p }
func (b *Body) Position() mgl64.Vec3     { return b.pos }

func (b *Body) SetRotation(q mgl64.Quat) { b.rot = q.Normalize() }
func (b *Body) Rotation() mgl64.Quat     { return b.rot }

func (b *Body) SetLinearVel(v mgl64.Vec3) { b.linVel = v }
func (b *Body) LinearVel() mgl64.Vec3     { return b.linVel }

func (b *Body) SetAngularVel(v mgl64.Vec3) { b.angVel = v }
func (b *Body) AngularVel() mgl64.Vec3     { return b.angVel }

// AddForce accumulates a force through the centre of mass for the next step.
func (b *Body) AddForce(f mgl64.Vec3) { b.force = b.force.Add(f) }

// AddTorque accumulates a torque for the next step.
func (b *Body) AddTorque(t mgl64.Vec3) { b.torque = b.torque.Add(t) }

func (b *Body) Mass() Mass { return b.mass }

// SetMass replaces the mass distribution of the body.
func (b *Body) SetMass(m Mass) error {
	if !m.valid() {
		return ErrInvalidMass
	}
	b.applyMass(m)
	return nil
}

func (b *Body) applyMass(m Mass) {
	b.mass = m
	b.invMass = 1 / m.Total
	b.invInertia = m.Inertia.Inv()
}

// worldInvInertia returns R·I⁻¹·Rᵀ for the current orientation.
func (b *Body) worldInvInertia() mgl64.Mat3 {
	r := rotationMatrix(b.rot)
	return r.Mul3(b.invInertia).Mul3(r.Transpose())
}

// pointVel is the velocity of a world-space point attached to the body.
func (b *Body) pointVel(p mgl64.Vec3) mgl64.Vec3 {
	return b.linVel.Add(b.angVel.Cross(p.Sub(b.pos)))
}

func rotationMatrix(q mgl64.Quat) mgl64.Mat3 {
	x := q.Rotate(mgl64.Vec3{1, 0, 0})
	y := q.Rotate(mgl64.Vec3{0, 1, 0})
	z := q.Rotate(mgl64.Vec3{0, 0, 1})
	return mgl64.Mat3{
		x[0], x[1], x[2],
		y[0], y[1], y[2],
		z[0], z[1], z[2],
	}
}
