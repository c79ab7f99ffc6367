// Package viz is the terminal front end for a running arena.
//
// [Model] is a Bubble Tea program that steps the arena once per frame and
// draws it on a braille [Canvas], with each body in its own color and a
// short trail behind the mobile blocks.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart with fresh headings
//	S     - Save the state to simulation_state_<tick>.json
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//	Q     - Quit
package viz
