// Package rigid is a small rigid-body dynamics engine with an ODE-style API.
//
// A [World] integrates [Body] motion under gravity. Collision geometry lives
// in a [Space] as [Geom] values (spheres and planes) that may be bound to a
// body; planes are always static. Collision handling is left to the caller:
//
//	space.Collide(func(g1, g2 *rigid.Geom) {
//	    for _, cg := range rigid.Collide(g1, g2, 8) {
//	        j := world.NewContactJoint(group, rigid.Contact{Surface: surface, Geom: cg})
//	        j.Attach(g1.Body(), g2.Body())
//	    }
//	})
//	world.Step(dt)
//	group.Empty()
//
// Contact joints are soft constraints parameterised by ERP and CFM and
// solved with projected Gauss-Seidel iterations. They are meant to live for
// a single step: emptying the [JointGroup] removes them from the world.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A world, its space and
// its joint groups must be driven from one goroutine.
package rigid
