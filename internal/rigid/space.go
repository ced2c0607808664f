package rigid

import "github.com/go-gl/mathgl/mgl64"

// NearCallback is invoked for every geom pair that passes the broad phase.
type NearCallback func(g1, g2 *Geom)

// Space is a simple collision space that tests every pair of geoms.
type Space struct {
	geoms     []*Geom
	destroyed bool
}

func NewSimpleSpace() *Space {
	return &Space{geoms: make([]*Geom, 0, 4)}
}

// NewSphere creates a sphere geom in the space.
func (s *Space) NewSphere(radius float64) *Geom {
	g := newGeom(SphereClass)
	g.radius = radius
	s.Add(g)
	return g
}

// NewPlane creates a static plane a·x + b·y + c·z = d. The normal is
// normalised; a zero normal falls back to +Y.
func (s *Space) NewPlane(a, b, c, d float64) *Geom {
	g := newGeom(PlaneClass)
	n := mgl64.Vec3{a, b, c}
	l := n.Len()
	if l == 0 {
		n, l = mgl64.Vec3{0, 1, 0}, 1
	}
	g.normal = n.Mul(1 / l)
	g.offset = d / l
	s.Add(g)
	return g
}

// Add inserts g, moving it out of any space it was in.
func (s *Space) Add(g *Geom) {
	if s.destroyed || g.space == s {
		return
	}
	if g.space != nil {
		g.space.Remove(g)
	}
	g.space = s
	s.geoms = append(s.geoms, g)
}

func (s *Space) Remove(g *Geom) {
	for i, other := range s.geoms {
		if other == g {
			s.geoms = append(s.geoms[:i], s.geoms[i+1:]...)
			g.space = nil
			return
		}
	}
}

func (s *Space) Geoms() []*Geom {
	out := make([]*Geom, len(s.geoms))
	copy(out, s.geoms)
	return out
}

func (s *Space) Len() int { return len(s.geoms) }

// Collide runs the broad phase and calls cb for each candidate pair.
// Pairs sharing a body, pairs with no body at all, pairs whose category and
// collide bits do not intersect, and pairs with disjoint bounds are skipped.
func (s *Space) Collide(cb NearCallback) {
	if s.destroyed || cb == nil {
		return
	}
	for i := 0; i < len(s.geoms); i++ {
		g1 := s.geoms[i]
		for j := i + 1; j < len(s.geoms); j++ {
			g2 := s.geoms[j]
			if g1.body == g2.body {
				continue
			}
			if g1.category&g2.collide == 0 && g2.category&g1.collide == 0 {
				continue
			}
			if !aabbOverlap(g1, g2) {
				continue
			}
			cb(g1, g2)
		}
	}
}

// Destroy detaches every geom. The space is unusable afterwards.
func (s *Space) Destroy() {
	for _, g := range s.geoms {
		g.space = nil
	}
	s.geoms = nil
	s.destroyed = true
}
