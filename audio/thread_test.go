package audio

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend asks for a fixed number of frames per period and records output
type fakeBackend struct {
	frames   int
	period   time.Duration
	writeErr error

	mu      sync.Mutex
	written []byte
	closed  bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Negotiate(want Params) (Params, error) { return want, nil }

func (f *fakeBackend) WaitForSpace(ctx context.Context, _ time.Duration) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(f.period):
		return f.frames, nil
	}
}

func (f *fakeBackend) WriteFrames(_ context.Context, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	f.written = append(f.written, data...)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) output() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float32, len(f.written)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(f.written[i*4:]))
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestThreadDeliversRingContents(t *testing.T) {
	ring := NewRing(4096)
	backend := &fakeBackend{frames: 64, period: time.Millisecond}
	var running atomic.Bool
	running.Store(true)

	th := NewThread(ring, backend, Params{SampleRate: 48000, Channels: 2, Format: FormatFloat32}, &running, quietLogger())
	fill(ring, 1000, 0.5)

	require.NoError(t, th.Start())
	assert.ErrorIs(t, th.Start(), ErrAlreadyRunning)

	require.Eventually(t, func() bool { return th.Stats().Frames >= 1200 }, 2*time.Second, time.Millisecond)
	require.True(t, th.Stop(time.Second))

	out := backend.output()
	require.GreaterOrEqual(t, len(out), 2400)
	// Stereo duplication, ramp-in from silence, steady state at the pushed level
	assert.Equal(t, out[0], out[1])
	assert.Zero(t, out[0])
	assert.Equal(t, float32(0.5), out[2*500])
	assert.Equal(t, out[2*500], out[2*500+1])

	stats := th.Stats()
	assert.Positive(t, stats.Underruns)
	assert.Zero(t, ring.Len())
}

func TestThreadExitsWhenRunningCleared(t *testing.T) {
	ring := NewRing(1024)
	backend := &fakeBackend{frames: 32, period: time.Millisecond}
	var running atomic.Bool
	running.Store(true)

	th := NewThread(ring, backend, Params{SampleRate: 8000, Channels: 1, Format: FormatInt16}, &running, quietLogger())
	require.NoError(t, th.Start())

	running.Store(false)
	select {
	case <-th.Done():
	case <-time.After(time.Second):
		t.Fatal("thread ignored running flag")
	}
	assert.True(t, th.Stop(time.Second))
}

func TestThreadStopsOnWriteError(t *testing.T) {
	ring := NewRing(1024)
	backend := &fakeBackend{frames: 32, period: time.Millisecond, writeErr: ErrClosed}
	var running atomic.Bool
	running.Store(true)

	th := NewThread(ring, backend, Params{SampleRate: 8000, Channels: 1, Format: FormatFloat32}, &running, quietLogger())
	require.NoError(t, th.Start())

	select {
	case <-th.Done():
	case <-time.After(time.Second):
		t.Fatal("thread kept running after write error")
	}
	assert.Zero(t, th.Stats().Frames)
}

func TestThreadStopBeforeStart(t *testing.T) {
	var running atomic.Bool
	th := NewThread(NewRing(16), &fakeBackend{}, Params{Channels: 1}, &running, quietLogger())
	assert.True(t, th.Stop(time.Millisecond))
}

func TestOpenRejectsDisabledAndUnknown(t *testing.T) {
	_, _, err := Open(BackendNone, Params{SampleRate: 48000, Channels: 2}, DefaultBackendOptions(), quietLogger())
	assert.ErrorIs(t, err, ErrNoAudioBackend)

	_, _, err = Open("jack", Params{SampleRate: 48000, Channels: 2}, DefaultBackendOptions(), quietLogger())
	assert.ErrorIs(t, err, ErrNoAudioBackend)
}
