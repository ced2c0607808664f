// Package viz is the terminal variant of the drop: a Bubble Tea program that
// steps the scene on a timer and draws the sphere on a braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step while paused
//	R     - Reset the sphere to its start height
//	T     - Cycle color themes
//	+/-   - Change simulation speed
//	[ ]   - Scrub through recent frames
//	?     - Show help overlay
//	Q     - Quit
package viz
