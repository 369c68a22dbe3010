// Package viz renders traced rays in the terminal.
//
//   - [Canvas]: Braille sub-pixel canvas with a [Viewport] that maps world
//     metres around the black hole onto it
//   - [RenderTrails]: static plot of one or more trails with the horizon
//     and the dashed photon sphere
//   - [Model]: Bubble Tea program that plays a trace back point by point
//     beside an r/rs chart and the running energy error
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the launch point
//	[ ]   - Step backward/forward
//	+ -   - Playback speed
//	T     - Cycle color themes
//	?     - Show help
package viz
