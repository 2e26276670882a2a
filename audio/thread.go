package audio

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLivenessTimeout bounds a single wait for device space
const DefaultLivenessTimeout = 2 * time.Second

// Stats are cumulative counters readable from any goroutine
type Stats struct {
	Frames    uint64 // Frames delivered to the device
	Underruns uint64 // Frames synthesised by decay because the ring was empty
	Dropped   uint64 // Samples rejected by Push on overflow
}

// Thread owns the consumer side of the ring and the backend
type Thread struct {
	ring    *Ring
	mixer   *Mixer
	backend Backend
	params  Params
	log     logrus.FieldLogger

	running         *atomic.Bool // Shared close-request flag
	livenessTimeout time.Duration

	started atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	frames    atomic.Uint64
	underruns atomic.Uint64
}

// NewThread binds a negotiated backend to a ring
// The goroutine exits when running goes false or Stop is called
func NewThread(ring *Ring, backend Backend, params Params, running *atomic.Bool, log logrus.FieldLogger) *Thread {
	if params.Channels <= 0 {
		params.Channels = 1
	}
	return &Thread{
		ring:            ring,
		mixer:           NewMixer(),
		backend:         backend,
		params:          params,
		log:             log,
		running:         running,
		livenessTimeout: DefaultLivenessTimeout,
		done:            make(chan struct{}),
	}
}

// SetLivenessTimeout overrides the device wait bound; call before Start
func (t *Thread) SetLivenessTimeout(d time.Duration) {
	if d > 0 {
		t.livenessTimeout = d
	}
}

// Start launches the audio goroutine once
func (t *Thread) Start() error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.loop(ctx)
	return nil
}

// loop drains the ring into the device until shutdown
func (t *Thread) loop(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	channels := t.params.Channels
	bps := t.params.Format.BytesPerSample()
	var mixBuf []float32
	var outBuf []byte

	for t.running.Load() {
		frames, err := t.backend.WaitForSpace(ctx, t.livenessTimeout)
		switch {
		case errors.Is(err, ErrTimeout):
			t.log.WithField("timeout", t.livenessTimeout).Warn("audio device wait exceeded liveness timeout")
			continue
		case err != nil:
			if ctx.Err() == nil {
				t.log.WithError(err).Error("audio device lost, stopping playback")
			}
			return
		}
		if frames <= 0 {
			continue
		}

		samples := frames * channels
		if cap(mixBuf) < samples {
			mixBuf = make([]float32, samples)
			outBuf = make([]byte, samples*bps)
		}

		under := t.mixer.Mix(t.ring, mixBuf[:samples], channels)
		n := t.params.Format.Encode(outBuf, mixBuf[:samples])

		if err := t.backend.WriteFrames(ctx, outBuf[:n]); err != nil {
			if ctx.Err() == nil {
				t.log.WithError(err).Error("audio write failed, stopping playback")
			}
			return
		}

		t.frames.Add(uint64(frames))
		t.underruns.Add(uint64(under))
	}
}

// Stop wakes and joins the goroutine, giving up after timeout
// Returns false if the goroutine did not exit in time
func (t *Thread) Stop(timeout time.Duration) bool {
	if !t.started.Load() {
		return true
	}
	t.cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return true
	case <-timer.C:
		t.log.WithField("timeout", timeout).Warn("audio thread did not exit in time")
		return false
	}
}

// Done is closed when the goroutine exits
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Params returns the negotiated stream parameters
func (t *Thread) Params() Params {
	return t.params
}

// Stats returns a snapshot of the thread counters
func (t *Thread) Stats() Stats {
	return Stats{
		Frames:    t.frames.Load(),
		Underruns: t.underruns.Load(),
		Dropped:   t.ring.Dropped(),
	}
}
