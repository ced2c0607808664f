// Package scene maps simulation state onto what the window draws.
//
// Physics and the renderer are both Y-up and right-handed, so body
// positions are used as draw positions without any transform. Nothing here
// calls the renderer; gui turns a Frame into draw calls.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/dropsim/internal/sim"
)

const (
	SphereRings  = 16
	SphereSlices = 16
	GroundSize   = 32
	GridSlices   = 20
	GridSpacing  = 1.0
)

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
	Rings  int32
	Slices int32
}

type Plane struct {
	Center mgl32.Vec3
	Size   mgl32.Vec2
}

type Grid struct {
	Slices  int32
	Spacing float32
}

// Frame is everything drawn in 3D for one tick.
type Frame struct {
	Ball      Sphere
	Reference Sphere
	Ground    Plane
	Grid      Grid
}

// Layout places the ball at pos, a reference sphere of the same radius at
// the origin, and the ground plane and grid at y = 0.
func Layout(pos mgl64.Vec3, radius float64) Frame {
	r := float32(radius)
	return Frame{
		Ball: Sphere{
			Center: mgl32.Vec3{float32(pos[0]), float32(pos[1]), float32(pos[2])},
			Radius: r,
			Rings:  SphereRings,
			Slices: SphereSlices,
		},
		Reference: Sphere{Radius: r, Rings: SphereRings, Slices: SphereSlices},
		Ground:    Plane{Size: mgl32.Vec2{GroundSize, GroundSize}},
		Grid:      Grid{Slices: GridSlices, Spacing: GridSpacing},
	}
}

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

type Camera struct {
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Up         mgl32.Vec3
	Fovy       float32
	Projection Projection
}

// DefaultCamera looks at the origin from (10, 10, 10).
func DefaultCamera() Camera {
	return Camera{
		Position:   mgl32.Vec3{10, 10, 10},
		Target:     mgl32.Vec3{0, 0, 0},
		Up:         mgl32.Vec3{0, 1, 0},
		Fovy:       45,
		Projection: Perspective,
	}
}

// HUD returns the overlay text lines for a sample.
func HUD(s sim.Sample, cursorLocked bool) []string {
	mode := "free"
	if cursorLocked {
		mode = "locked"
	}
	return []string{
		fmt.Sprintf("t = %.2f s", s.Time),
		fmt.Sprintf("height = %.3f m", s.Height()),
		fmt.Sprintf("vy = %.3f m/s", s.Velocity.Y()),
		fmt.Sprintf("contacts = %d", s.Contacts),
		fmt.Sprintf("cursor: %s", mode),
	}
}
