// @focus: #sys { term }
// Package terminal provides direct ANSI terminal control for a character-cell display.
//
// Features:
//   - Cell grid of (byte, 24-bit fg, 24-bit bg) triples
//   - Run-length colour compression when serialising a frame
//   - Raw stdin decoding with partial-sequence handling and SGR mouse
//   - Session capability interface: raw ANSI on unix, tcell native events elsewhere
//   - SIGWINCH resize detection and clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct truecolor ANSI sequences.
package terminal
