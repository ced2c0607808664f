package metrics

import (
	"math"

	"github.com/san-kum/dropsim/internal/sim"
)

// Bounces counts contact episodes: runs of consecutive steps with at least
// one contact joint.
type Bounces struct {
	name     string
	count    int
	touching bool
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(s sim.Sample) {
	touching := s.Contacts > 0
	if touching && !b.touching {
		b.count++
	}
	b.touching = touching
}

func (b *Bounces) Value() float64 { return float64(b.count) }

func (b *Bounces) Reset() {
	b.count = 0
	b.touching = false
}

// MaxPenetration is the deepest the sphere sank below the ground plane.
type MaxPenetration struct {
	name   string
	radius float64
	depth  float64
}

func NewMaxPenetration(radius float64) *MaxPenetration {
	return &MaxPenetration{name: "max_penetration", radius: radius}
}

func (p *MaxPenetration) Name() string { return p.name }

func (p *MaxPenetration) Observe(s sim.Sample) {
	p.depth = math.Max(p.depth, p.radius-s.Height())
}

func (p *MaxPenetration) Value() float64 { return p.depth }

func (p *MaxPenetration) Reset() { p.depth = 0 }
