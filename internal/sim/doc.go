// Package sim drives the sphere-drop scene at a fixed timestep.
//
// A [Driver] owns the physics world, its collision space, the contact joint
// group, the sphere body and the ground plane. Every tick it runs collision
// detection through [CollisionData.HandleCollision], advances the world by
// exactly one timestep and empties the contact group so no joint outlives
// the step that created it.
//
// Two loops are provided:
//
//   - [Driver.Run]: headless, stops once simulated time reaches the
//     configured duration and emits samples at a fixed output interval
//   - [Driver.RunUntil]: interactive, polls an external stop signal once per
//     iteration and hands every tick to a frame callback
//
// # Example
//
//	d, _ := sim.New(sim.DefaultConfig())
//	defer d.Close()
//	result, _ := d.Run(ctx, func(s sim.Sample) {
//	    fmt.Println(s.Time, s.Position.Y())
//	})
//
// # Thread Safety
//
// A Driver is NOT thread-safe. Use [Sweep] to run many configurations in
// parallel; every run there owns its own driver.
package sim
