package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// row is one scalar constraint J·v = rhs − (cfm/h)·λ with lo ≤ λ ≤ hi,
// where λ is an impulse.
type row struct {
	b1, b2 *Body

	j1l, j1a mgl64.Vec3
	j2l, j2a mgl64.Vec3

	// M⁻¹Jᵀ, applied to velocities when λ changes
	m1l, m1a mgl64.Vec3
	m2l, m2a mgl64.Vec3

	rhs  float64
	cfmh float64
	invD float64

	lo, hi float64
	lambda float64

	// friction rows scale their bounds by the normal row's impulse
	normal int
	mu     float64
}

func (w *World) buildRows(h float64) {
	w.rows = w.rows[:0]
	for _, j := range w.joints {
		if j.b1 == nil && j.b2 == nil {
			continue
		}
		s := j.contact.Surface
		cg := j.contact.Geom
		n := cg.Normal

		erp, cfm := w.erp, w.cfm
		if s.Mode&ContactSoftERP != 0 {
			erp = s.SoftERP
		}
		if s.Mode&ContactSoftCFM != 0 {
			cfm = s.SoftCFM
		}

		rhs := erp * cg.Depth / h
		if s.Mode&ContactBounce != 0 && s.Bounce > 0 {
			outgoing := -s.Bounce * w.relativeVel(j, n)
			if outgoing > s.BounceVel && outgoing > rhs {
				rhs = outgoing
			}
		}

		ni := len(w.rows)
		w.addRow(j, cg.Pos, n, rhs, cfm, h, 0, math.Inf(1), -1, 0)

		if s.Mu <= 0 {
			continue
		}
		mu2 := s.Mu
		if s.Mode&ContactMu2 != 0 {
			mu2 = s.Mu2
		}
		t1, t2 := planeSpace(n)
		w.addFriction(j, cg.Pos, t1, s.Mu, s.Mode&ContactSlip1 != 0, s.Slip1, s.Mode&ContactApprox1_1 != 0, ni, h)
		if mu2 > 0 {
			w.addFriction(j, cg.Pos, t2, mu2, s.Mode&ContactSlip2 != 0, s.Slip2, s.Mode&ContactApprox1_2 != 0, ni, h)
		}
	}
}

func (w *World) addFriction(j *ContactJoint, p, t mgl64.Vec3, mu float64, slip bool, slipCFM float64, approx bool, normal int, h float64) {
	cfm := 0.0
	if slip {
		cfm = slipCFM
	}
	if approx {
		w.addRow(j, p, t, 0, cfm, h, 0, 0, normal, mu)
		return
	}
	bound := mu * h
	w.addRow(j, p, t, 0, cfm, h, -bound, bound, -1, 0)
}

func (w *World) addRow(j *ContactJoint, p, dir mgl64.Vec3, rhs, cfm, h, lo, hi float64, normal int, mu float64) {
	r := row{
		b1: j.b1, b2: j.b2,
		rhs: rhs, cfmh: cfm / h,
		lo: lo, hi: hi,
		normal: normal, mu: mu,
	}
	d := r.cfmh
	if b := j.b1; b != nil {
		r.j1l = dir
		r.j1a = p.Sub(b.pos).Cross(dir)
		r.m1l = dir.Mul(b.invMass)
		r.m1a = b.worldInvInertia().Mul3x1(r.j1a)
		d += r.j1l.Dot(r.m1l) + r.j1a.Dot(r.m1a)
	}
	if b := j.b2; b != nil {
		r.j2l = dir.Mul(-1)
		r.j2a = p.Sub(b.pos).Cross(dir).Mul(-1)
		r.m2l = r.j2l.Mul(b.invMass)
		r.m2a = b.worldInvInertia().Mul3x1(r.j2a)
		d += r.j2l.Dot(r.m2l) + r.j2a.Dot(r.m2a)
	}
	if d <= 0 {
		return
	}
	r.invD = 1 / d
	w.rows = append(w.rows, r)
}

// relativeVel is the separating speed of the joint's bodies along n.
func (w *World) relativeVel(j *ContactJoint, n mgl64.Vec3) float64 {
	p := j.contact.Geom.Pos
	v := 0.0
	if j.b1 != nil {
		v += j.b1.pointVel(p).Dot(n)
	}
	if j.b2 != nil {
		v -= j.b2.pointVel(p).Dot(n)
	}
	return v
}

func (w *World) solve() {
	if len(w.rows) == 0 {
		return
	}
	for it := 0; it < w.iterations; it++ {
		for i := range w.rows {
			r := &w.rows[i]
			lo, hi := r.lo, r.hi
			if r.normal >= 0 {
				bound := math.Inf(1)
				if !math.IsInf(r.mu, 1) {
					bound = r.mu * w.rows[r.normal].lambda
				}
				lo, hi = -bound, bound
			}

			jv := 0.0
			if r.b1 != nil {
				jv += r.j1l.Dot(r.b1.linVel) + r.j1a.Dot(r.b1.angVel)
			}
			if r.b2 != nil {
				jv += r.j2l.Dot(r.b2.linVel) + r.j2a.Dot(r.b2.angVel)
			}

			next := r.lambda + (r.rhs-jv-r.cfmh*r.lambda)*r.invD
			next = math.Max(lo, math.Min(hi, next))
			delta := next - r.lambda
			if delta == 0 {
				continue
			}
			r.lambda = next

			if r.b1 != nil {
				r.b1.linVel = r.b1.linVel.Add(r.m1l.Mul(delta))
				r.b1.angVel = r.b1.angVel.Add(r.m1a.Mul(delta))
			}
			if r.b2 != nil {
				r.b2.linVel = r.b2.linVel.Add(r.m2l.Mul(delta))
				r.b2.angVel = r.b2.angVel.Add(r.m2a.Mul(delta))
			}
		}
	}
}

// planeSpace returns two unit vectors orthogonal to n and to each other.
func planeSpace(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var p mgl64.Vec3
	if math.Abs(n[2]) > math.Sqrt2/2 {
		a := n[1]*n[1] + n[2]*n[2]
		k := 1 / math.Sqrt(a)
		p = mgl64.Vec3{0, -n[2] * k, n[1] * k}
	} else {
		a := n[0]*n[0] + n[1]*n[1]
		k := 1 / math.Sqrt(a)
		p = mgl64.Vec3{-n[1] * k, n[0] * k, 0}
	}
	return p, n.Cross(p)
}
