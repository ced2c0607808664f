package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mass describes the mass distribution of a body about its centre.
type Mass struct {
	Total   float64
	Inertia mgl64.Mat3
}

// SphereMass returns the mass of a solid sphere of the given density.
func SphereMass(density, radius float64) Mass {
	return SphereMassTotal(4.0/3.0*math.Pi*radius*radius*radius*density, radius)
}

// SphereMassTotal returns the mass of a solid sphere with the given total mass.
func SphereMassTotal(total, radius float64) Mass {
	i := 0.4 * total * radius * radius
	return Mass{
		Total:   total,
		Inertia: mgl64.Mat3{i, 0, 0, 0, i, 0, 0, 0, i},
	}
}

func unitMass() Mass {
	return Mass{Total: 1, Inertia: mgl64.Ident3()}
}

func (m Mass) valid() bool {
	if m.Total <= 0 || math.IsNaN(m.Total) || math.IsInf(m.Total, 0) {
		return false
	}
	return m.Inertia.Det() > 0
}
