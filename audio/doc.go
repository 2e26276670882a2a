// Package audio streams mono float samples from the caller's thread to a sound
// device. The caller pushes into a lock-free single-producer single-consumer
// Ring; one dedicated goroutine, pinned to its OS thread, drains it through
// the Mixer and hands converted frames to a Backend.
//
// Backends differ only in how free device space is discovered:
// oto and beep pull frames from a device callback, the pipe backend pushes
// periodically into an external player process.
package audio
