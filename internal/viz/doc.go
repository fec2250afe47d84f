// Package viz renders a live container in the terminal with Bubble Tea.
//
// [Model] draws the polygon and its bodies on a braille [Canvas] next to a
// stats pane with an energy chart and the tunable parameters. The same
// model is served over SSH by the remote package.
//
// # Key Bindings
//
//	Space - Shake the container
//	P     - Pause/Resume
//	R     - Reseed and reset
//	Tab   - Select parameter, ↑/↓ to tune
//	[ ]   - Time travel (rewind/forward)
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Full help
package viz
