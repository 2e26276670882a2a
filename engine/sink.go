package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/cellbox/terminal"
)

// eventSink routes decoded session events into engine state
type eventSink struct {
	e *Engine
}

func (s *eventSink) KeyEvent(k terminal.Key, down bool) {
	s.e.input.SetKey(k, down)
}

func (s *eventSink) MouseEvent(ev terminal.MouseEvent) {
	s.e.input.ApplyMouse(ev)
}

// ResizeEvent reallocates the grid; contents reset to default cells
func (s *eventSink) ResizeEvent(width, height int) {
	if s.e.grid == nil || !s.e.grid.Resize(width, height) {
		return
	}
	s.e.log.WithFields(logrus.Fields{"width": width, "height": height}).Debug("terminal resized")
}

func (s *eventSink) CloseEvent() {
	s.e.Close()
}
