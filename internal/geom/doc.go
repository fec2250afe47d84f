// Package geom provides the 2D primitives the simulation is built on.
//
//   - [Vec2]: value-type vector (an alias of mgl64.Vec2) with free helpers
//   - [RegularPolygon]: counter-clockwise vertices of an N-sided polygon
//   - [Edge]: a directed boundary segment with unit tangent and inward normal
//
// All functions are pure; nothing here allocates beyond the returned slices.
package geom
