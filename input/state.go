// Package input tracks edge-triggered keyboard and mouse state across frames.
package input

import (
	"github.com/lixenwraith/cellbox/terminal"
)

// Mouse is the accumulated pointer state for the current frame
type Mouse struct {
	X, Y   int
	Left   bool
	Right  bool
	Middle bool
	Wheel  int // Net wheel ticks this frame, +1 per up notch
}

// State holds current and previous-frame key tables plus mouse state
// Owned by the caller's thread; no synchronisation
type State struct {
	keys  [terminal.KeyMax]bool
	prev  [terminal.KeyMax]bool
	mouse Mouse
}

// Snapshot starts a new frame: copies current keys into prev and zeroes the wheel
// When releaseKeys is set every key is marked up, for sources that never report release
func (s *State) Snapshot(releaseKeys bool) {
	s.prev = s.keys
	s.mouse.Wheel = 0
	if releaseKeys {
		s.keys = [terminal.KeyMax]bool{}
	}
}

// SetKey records a key transition; codes outside the table are ignored
func (s *State) SetKey(k terminal.Key, down bool) {
	if !k.Valid() {
		return
	}
	s.keys[k] = down
}

// ApplyMouse folds one decoded mouse report into the state
func (s *State) ApplyMouse(ev terminal.MouseEvent) {
	s.mouse.X = ev.X
	s.mouse.Y = ev.Y

	if ev.Wheel != 0 {
		s.mouse.Wheel += ev.Wheel
		return
	}
	if ev.Motion {
		return
	}

	switch ev.Button {
	case terminal.MouseBtnLeft:
		s.mouse.Left = ev.Down
	case terminal.MouseBtnRight:
		s.mouse.Right = ev.Down
	case terminal.MouseBtnMiddle:
		s.mouse.Middle = ev.Down
	case terminal.MouseBtnNone:
		// Legacy release carries no button identity
		s.mouse.Left, s.mouse.Right, s.mouse.Middle = false, false, false
	}
}

// KeyDown reports whether k is currently held
func (s *State) KeyDown(k terminal.Key) bool {
	if !k.Valid() {
		return false
	}
	return s.keys[k]
}

// KeyPressed reports whether k went down since the previous Snapshot
func (s *State) KeyPressed(k terminal.Key) bool {
	if !k.Valid() {
		return false
	}
	return s.keys[k] && !s.prev[k]
}

// Mouse returns a copy of the pointer state
func (s *State) Mouse() Mouse {
	return s.mouse
}

// Reset clears all key and mouse state
func (s *State) Reset() {
	*s = State{}
}
