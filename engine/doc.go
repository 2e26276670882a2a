// Package engine is the explicit engine context tying a terminal session,
// the cell grid, per-frame input state and the audio thread together.
//
// All methods except Close and Running are called from the caller's goroutine.
// The audio goroutine shares only the ring buffer and the running flag.
package engine
