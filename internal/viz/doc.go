// Package viz provides the terminal view of a live surface.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: preset picker and grid setup
//   - [Model]: live surface view with cursor splashes and parameter tuning
//   - [Canvas]: Braille-based pixel canvas for the height profile
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset the surface
//	S     - Splash at the cursor
//	W     - Toggle wrapped sampling
//	X     - Toggle debug markers
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
