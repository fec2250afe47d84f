// Package physics simulates rigid circular bodies inside a shakeable regular
// polygon (a hexagon by default).
//
// The types compose leaf-first:
//
//   - [Body]: a non-rotating circle with position, velocity and radius
//   - [Container]: polygon geometry plus its spring-damper shake state
//   - [World]: gravity, restitution and friction parameters, the container
//     and the bodies; [World.Step] advances everything by one tick
//
// Collision resolution is split into [ResolveEdge], [SnapInside] and
// [ResolvePair]. They mutate bodies in place and are exported so hosts and
// tests can drive them directly.
//
// # Step order
//
//	container dynamics -> integrate -> edges -> snap inside -> pairs -> anti-stall
//
// Pairs are resolved sequentially in ascending index order and each
// correction is visible to the next pair. Do not parallelise this loop.
//
// # Thread Safety
//
// A World is NOT thread-safe. It is owned by whichever goroutine calls Step.
package physics
