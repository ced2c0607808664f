package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Class identifies the shape of a Geom.
type Class int

const (
	SphereClass Class = iota
	PlaneClass
)

func (c Class) String() string {
	switch c {
	case SphereClass:
		return "sphere"
	case PlaneClass:
		return "plane"
	default:
		return "unknown"
	}
}

// Geom is a collision shape. Spheres may be bound to a body; planes are static.
type Geom struct {
	class Class
	space *Space
	body  *Body

	radius float64

	// plane: normal·p = offset, normal is unit length
	normal mgl64.Vec3
	offset float64

	pos mgl64.Vec3 // used while no body is bound

	category uint64
	collide  uint64
}

func newGeom(class Class) *Geom {
	return &Geom{class: class, category: ^uint64(0), collide: ^uint64(0)}
}

func (g *Geom) Class() Class    { return g.class }
func (g *Geom) Space() *Space   { return g.space }
func (g *Geom) Body() *Body     { return g.body }
func (g *Geom) Radius() float64 { return g.radius }

// Plane returns the unit normal and offset of a plane geom.
func (g *Geom) Plane() (mgl64.Vec3, float64) { return g.normal, g.offset }

// SetBody binds the geom to b, or unbinds it when b is nil. Planes ignore it.
func (g *Geom) SetBody(b *Body) {
	if g.class == PlaneClass {
		return
	}
	if b == nil && g.body != nil {
		g.pos = g.body.pos
	}
	g.body = b
}

// SetPosition moves a geom that has no body.
func (g *Geom) SetPosition(p mgl64.Vec3) {
	if g.body != nil {
		g.body.pos = p
		return
	}
	g.pos = p
}

func (g *Geom) Position() mgl64.Vec3 {
	if g.body != nil {
		return g.body.pos
	}
	return g.pos
}

func (g *Geom) SetCategoryBits(bits uint64) { g.category = bits }
func (g *Geom) SetCollideBits(bits uint64)  { g.collide = bits }
func (g *Geom) CategoryBits() uint64        { return g.category }
func (g *Geom) CollideBits() uint64         { return g.collide }

// AABB returns the axis-aligned bounds. Planes are unbounded.
func (g *Geom) AABB() (lo, hi mgl64.Vec3) {
	if g.class == PlaneClass {
		inf := math.Inf(1)
		return mgl64.Vec3{-inf, -inf, -inf}, mgl64.Vec3{inf, inf, inf}
	}
	p := g.Position()
	r := mgl64.Vec3{g.radius, g.radius, g.radius}
	return p.Sub(r), p.Add(r)
}

func aabbOverlap(a, b *Geom) bool {
	amin, amax := a.AABB()
	bmin, bmax := b.AABB()
	for i := 0; i < 3; i++ {
		if amin[i] > bmax[i] || bmin[i] > amax[i] {
			return false
		}
	}
	return true
}
