package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/cellbox/audio"
	"github.com/lixenwraith/cellbox/config"
	"github.com/lixenwraith/cellbox/input"
	"github.com/lixenwraith/cellbox/terminal"
)

// Sentinel errors
var (
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrShutdown           = errors.New("engine shut down")
	ErrNotInitialized     = errors.New("engine not initialized")
)

// Engine owns one terminal session and at most one audio thread
type Engine struct {
	// ===== Immutable After New =====

	cfg          *config.Config
	log          logrus.FieldLogger
	audioBackend audio.Backend // Optional injected backend

	// ===== Atomic (Self-Synchronized) =====
	// Shared with the audio goroutine and signal handlers

	running      atomic.Bool
	shutdownOnce sync.Once

	// ===== Caller-Goroutine Exclusive =====

	session     terminal.Session
	grid        *terminal.Grid
	input       input.State
	sink        eventSink
	initialized bool
	shut        bool

	// Audio; ring producer side is the caller, consumer is the thread
	ring      *audio.Ring
	thread    *audio.Thread
	backend   audio.Backend
	audioJoin time.Duration
}

// New creates an engine; nothing is acquired until Init / AudioInit
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:       config.Default(),
		log:       discardLogger(),
		audioJoin: audioJoinTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sink = eventSink{e: e}
	e.running.Store(true)
	return e
}

// Init takes over the terminal. Zero width and height auto-detect the size
func (e *Engine) Init(width, height int, title string) error {
	if e.shut {
		return ErrShutdown
	}
	if e.initialized {
		return ErrAlreadyInitialized
	}

	if e.session == nil {
		s, err := terminal.NewSession(terminal.SessionOptions{
			Kind:  e.cfg.Session.Kind,
			Mouse: e.cfg.Session.Mouse,
		})
		if err != nil {
			return fmt.Errorf("terminal session: %w", err)
		}
		e.session = s
	}
	if title == "" {
		title = e.cfg.Session.Title
	}

	e.session.SetInterruptHandler(e.Close)

	w, h, err := e.session.Init(width, height, title)
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	e.grid = terminal.NewGrid(w, h)
	e.initialized = true

	e.log.WithFields(logrus.Fields{
		"width":  w,
		"height": h,
		"kind":   e.cfg.Session.Kind,
	}).Info("terminal session started")
	return nil
}

// Update starts a frame: snapshots key state and drains pending input
// Returns false once a close has been requested
func (e *Engine) Update() bool {
	if !e.initialized || e.shut {
		return false
	}

	e.input.Snapshot(!e.session.ReportsKeyRelease())
	if err := e.session.PollEvents(&e.sink); err != nil {
		e.log.WithError(err).Error("input poll failed")
		e.running.Store(false)
	}
	return e.running.Load()
}

// Close requests shutdown; safe from any goroutine
func (e *Engine) Close() {
	e.running.Store(false)
}

// Running reports whether no close has been requested
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Clear fills the back buffer
func (e *Engine) Clear(fg, bg terminal.RGB, ch byte) {
	if e.grid != nil {
		e.grid.Clear(fg, bg, ch)
	}
}

// Put writes one cell; out-of-bounds is ignored
func (e *Engine) Put(x, y int, ch byte, fg, bg terminal.RGB) {
	if e.grid != nil {
		e.grid.Put(x, y, ch, fg, bg)
	}
}

// Print writes a string on one row without wrapping
func (e *Engine) Print(x, y int, s string, fg, bg terminal.RGB) {
	if e.grid != nil {
		e.grid.Print(x, y, s, fg, bg)
	}
}

// Present flushes the back buffer to the terminal
func (e *Engine) Present() error {
	if !e.initialized || e.shut {
		return ErrNotInitialized
	}
	return e.session.Present(e.grid.Cells(), e.grid.Width(), e.grid.Height())
}

// KeyDown reports whether k is held this frame
func (e *Engine) KeyDown(k terminal.Key) bool {
	return e.input.KeyDown(k)
}

// KeyPressed reports whether k went down this frame
func (e *Engine) KeyPressed(k terminal.Key) bool {
	return e.input.KeyPressed(k)
}

// MouseState returns the pointer snapshot for this frame
func (e *Engine) MouseState() input.Mouse {
	return e.input.Mouse()
}

// Width returns the grid width, 0 before Init
func (e *Engine) Width() int {
	if e.grid == nil {
		return 0
	}
	return e.grid.Width()
}

// Height returns the grid height, 0 before Init
func (e *Engine) Height() int {
	if e.grid == nil {
		return 0
	}
	return e.grid.Height()
}

// Shutdown tears down audio, then the terminal. Idempotent
// Order: stop flag, join audio thread, release device, restore terminal, free buffers
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.running.Store(false)
		e.shut = true

		e.stopAudio()

		if e.session != nil && e.initialized {
			e.session.Fini()
		}

		e.grid = nil
		e.input.Reset()
		e.log.Info("engine shut down")
	})
}
