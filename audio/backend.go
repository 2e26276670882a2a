package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrFormatRefused  = errors.New("audio format refused by device")
	ErrClosed         = errors.New("audio backend closed")
	ErrTimeout        = errors.New("audio device wait timed out")
	ErrAlreadyRunning = errors.New("audio thread already running")
)

// Backend kinds accepted by Open
const (
	BackendAuto = "auto"
	BackendOto  = "oto"
	BackendBeep = "beep"
	BackendPipe = "pipe"
	BackendNone = "none"
)

// Params describes a device stream
type Params struct {
	SampleRate int
	Channels   int
	Format     Format
}

// FrameBytes returns the encoded size of one interleaved frame
func (p Params) FrameBytes() int {
	return p.Channels * p.Format.BytesPerSample()
}

// Backend is the device capability the audio thread drives
// All methods except Close are called from the audio goroutine only
// Close may run while WaitForSpace or WriteFrames is blocked and must release them
type Backend interface {
	Name() string
	// Negotiate opens the device, trying want first and falling back to the
	// device's native format. The returned Params are what the device accepted
	Negotiate(want Params) (Params, error)
	// WaitForSpace blocks until the device can take frames and returns how many
	// Returns ErrTimeout after timeout, ErrClosed once the device is gone
	WaitForSpace(ctx context.Context, timeout time.Duration) (int, error)
	// WriteFrames delivers encoded interleaved frames
	WriteFrames(ctx context.Context, data []byte) error
	Close() error
}

// BackendOptions tunes push-style backends
type BackendOptions struct {
	Period    time.Duration // Poll interval of the pipe backend
	MaxFrames int           // Frames delivered per pipe cycle at most
}

// DefaultBackendOptions mirrors a 5ms poll with a 4096-frame conversion cap
func DefaultBackendOptions() BackendOptions {
	return BackendOptions{
		Period:    5 * time.Millisecond,
		MaxFrames: 4096,
	}
}

// backendCandidates returns constructors in preference order for kind
// beep shares oto's single process-wide context, so auto never tries both
func backendCandidates(kind string, opts BackendOptions) ([]func() Backend, error) {
	oto := func() Backend { return newOtoBackend() }
	beep := func() Backend { return newBeepBackend() }
	pipe := func() Backend { return newPipeBackend(opts) }

	switch strings.ToLower(kind) {
	case "", BackendAuto:
		return []func() Backend{oto, pipe}, nil
	case BackendOto:
		return []func() Backend{oto}, nil
	case BackendBeep:
		return []func() Backend{beep}, nil
	case BackendPipe:
		return []func() Backend{pipe}, nil
	case BackendNone:
		return nil, ErrNoAudioBackend
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrNoAudioBackend, kind)
}

// Open negotiates the first backend of kind that accepts a stream
func Open(kind string, want Params, opts BackendOptions, log logrus.FieldLogger) (Backend, Params, error) {
	candidates, err := backendCandidates(kind, opts)
	if err != nil {
		return nil, Params{}, err
	}

	for _, newBackend := range candidates {
		b := newBackend()
		got, err := b.Negotiate(want)
		if err != nil {
			log.WithError(err).WithField("backend", b.Name()).Debug("audio backend unavailable")
			_ = b.Close()
			continue
		}

		fields := logrus.Fields{
			"backend":  b.Name(),
			"rate":     got.SampleRate,
			"channels": got.Channels,
			"format":   got.Format.String(),
		}
		if got.Format != want.Format {
			fields["requested"] = want.Format.String()
			log.WithFields(fields).Info("audio format fallback accepted")
		} else {
			log.WithFields(fields).Info("audio backend selected")
		}
		return b, got, nil
	}

	return nil, Params{}, ErrNoAudioBackend
}
