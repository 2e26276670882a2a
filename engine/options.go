package engine

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/cellbox/audio"
	"github.com/lixenwraith/cellbox/config"
	"github.com/lixenwraith/cellbox/terminal"
)

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithConfig replaces the default configuration
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithSession supplies a terminal session instead of creating one from config
func WithSession(s terminal.Session) Option {
	return func(e *Engine) {
		e.session = s
	}
}

// WithAudioBackend supplies an un-negotiated audio backend instead of opening one from config
func WithAudioBackend(b audio.Backend) Option {
	return func(e *Engine) {
		e.audioBackend = b
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
