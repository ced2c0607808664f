package rigid

import "github.com/go-gl/mathgl/mgl64"

// ContactGeom is one contact point produced by the narrow phase.
// Normal points from G2 toward G1; moving G1 along it by Depth separates them.
type ContactGeom struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	G1, G2 *Geom
}

// Collide returns at most limit contact points between g1 and g2.
func Collide(g1, g2 *Geom, limit int) []ContactGeom {
	if limit <= 0 || g1 == nil || g2 == nil {
		return nil
	}
	var out []ContactGeom
	switch {
	case g1.class == SphereClass && g2.class == PlaneClass:
		out = collideSpherePlane(g1, g2)
	case g1.class == PlaneClass && g2.class == SphereClass:
		out = collideSpherePlane(g2, g1)
		for i := range out {
			out[i].Normal = out[i].Normal.Mul(-1)
			out[i].G1, out[i].G2 = g1, g2
		}
	case g1.class == SphereClass && g2.class == SphereClass:
		out = collideSphereSphere(g1, g2)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func collideSpherePlane(sphere, plane *Geom) []ContactGeom {
	p := sphere.Position()
	depth := plane.offset - plane.normal.Dot(p) + sphere.radius
	if depth < 0 {
		return nil
	}
	return []ContactGeom{{
		Pos:    p.Sub(plane.normal.Mul(sphere.radius)),
		Normal: plane.normal,
		Depth:  depth,
		G1:     sphere,
		G2:     plane,
	}}
}

func collideSphereSphere(a, b *Geom) []ContactGeom {
	d := a.Position().Sub(b.Position())
	dist := d.Len()
	depth := a.radius + b.radius - dist
	if depth < 0 {
		return nil
	}
	n := mgl64.Vec3{1, 0, 0}
	if dist > 0 {
		n = d.Mul(1 / dist)
	}
	return []ContactGeom{{
		Pos:    b.Position().Add(n.Mul(b.radius - 0.5*depth)),
		Normal: n,
		Depth:  depth,
		G1:     a,
		G2:     b,
	}}
}
