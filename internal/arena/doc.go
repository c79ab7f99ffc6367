// Package arena implements the physics core of boxsim: a closed square
// arena with static obstacles and two mobile square bodies.
//
// The package is organised around three types:
//
//   - [Vector]: 2D value type with the handful of operations the solver needs
//   - [Body]: a tagged square with position, velocity and an AABB
//   - [Arena]: owns the bodies and advances them one discrete tick at a time
//
// # Step order
//
// Every call to [Arena.Step] performs, in this order:
//
//  1. integrate: position += velocity for every mobile body
//  2. collision pass over all ordered pairs (i, j) with i mobile
//  3. boundary clamp of every mobile body, both axes
//  4. tick++
//
// Resolutions inside the collision pass commit immediately, so a body that
// was nudged by pair (i, j) is seen at its new position by pair (i, j+1).
// Downstream trajectory data depends on this ordering.
//
// # Example
//
//	a, _ := arena.New(arena.DefaultGridSize, arena.WithSeed(42))
//	a.Initialize()
//	for i := 0; i < 600; i++ {
//	    a.Step()
//	}
//	snap := a.Snapshot()
//
// # Thread Safety
//
// An Arena is NOT safe for concurrent use. Collaborators receive
// [Snapshot] copies and never touch the live body set.
package arena
