package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/dropsim/internal/scene"
)

func vec3(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func toCamera(c scene.Camera) rl.Camera3D {
	projection := rl.CameraPerspective
	if c.Projection == scene.Orthographic {
		projection = rl.CameraOrthographic
	}
	return rl.NewCamera3D(vec3(c.Position), vec3(c.Target), vec3(c.Up), c.Fovy, projection)
}

func drawFrame(f scene.Frame) {
	rl.DrawPlane(vec3(f.Ground.Center), rl.NewVector2(f.Ground.Size[0], f.Ground.Size[1]), ColGround)
	rl.DrawGrid(f.Grid.Slices, f.Grid.Spacing)
	drawSphere(f.Reference, ColTextDim)
	drawSphere(f.Ball, ColSelect)
}

func drawSphere(s scene.Sphere, col rl.Color) {
	rl.DrawSphereWires(vec3(s.Center), s.Radius, s.Rings, s.Slices, col)
}
