package terminal

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotTerminal     = errors.New("stdin is not a terminal")
	ErrUnsupported     = errors.New("session kind not supported on this platform")
	ErrUnknownSession  = errors.New("unknown session kind")
	ErrSessionFinished = errors.New("session already finalized")
)

// Session kinds accepted by NewSession
const (
	SessionAuto  = "auto"
	SessionANSI  = "ansi"
	SessionTcell = "tcell"
)

// Session abstracts platform-specific terminal ownership
// Implementations: raw ANSI over stdin/stdout (unix), tcell native events
type Session interface {
	// Init enters raw mode, alternate screen, hides cursor, enables mouse
	// A zero width or height requests auto-detection; returns the effective size
	Init(width, height int, title string) (int, int, error)

	// Fini restores every toggled mode in reverse order. Safe to call multiple times
	Fini()

	// PollEvents delivers pending input to sink without blocking
	PollEvents(sink EventSink) error

	// Present writes one full frame
	Present(cells []Cell, width, height int) error

	// ReportsKeyRelease is false for byte-stream input where releases are never observed
	ReportsKeyRelease() bool

	// SetInterruptHandler registers a callback for SIGINT/SIGTERM style close requests
	// Must be called before Init; the handler may run on another goroutine
	SetInterruptHandler(fn func())
}

// SessionOptions configures NewSession
type SessionOptions struct {
	Kind  string
	Mouse bool
}

// NewSession creates a session of the requested kind
func NewSession(opts SessionOptions) (Session, error) {
	kind := opts.Kind
	if kind == "" || kind == SessionAuto {
		kind = defaultSessionKind
	}

	switch kind {
	case SessionANSI:
		return newANSISession(opts)
	case SessionTcell:
		return newTcellSession(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSession, opts.Kind)
}
