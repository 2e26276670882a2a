package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// beepBufferDuration is the speaker's internal buffer length
const beepBufferDuration = 50 * time.Millisecond

// beepBackend plays through the beep speaker, which pulls stereo float frames
type beepBackend struct {
	bridge  *pullBridge
	scratch []byte
	decoded []float32
	started bool
}

func newBeepBackend() *beepBackend {
	return &beepBackend{}
}

func (b *beepBackend) Name() string { return BackendBeep }

// Negotiate starts the speaker; beep mixes stereo float64, so the stream is
// always float32 stereo regardless of the request
func (b *beepBackend) Negotiate(want Params) (Params, error) {
	got := Params{SampleRate: want.SampleRate, Channels: 2, Format: FormatFloat32}

	rate := beep.SampleRate(got.SampleRate)
	if err := speaker.Init(rate, rate.N(beepBufferDuration)); err != nil {
		return Params{}, fmt.Errorf("beep speaker: %w", err)
	}

	b.bridge = newPullBridge(got.FrameBytes())
	b.started = true
	speaker.Play(beep.StreamerFunc(b.stream))
	return got, nil
}

// stream runs on the speaker goroutine
func (b *beepBackend) stream(samples [][2]float64) (int, bool) {
	need := len(samples) * 8
	if cap(b.scratch) < need {
		b.scratch = make([]byte, need)
		b.decoded = make([]float32, len(samples)*2)
	}
	buf := b.scratch[:need]
	b.bridge.pull(buf)

	pcm := b.decoded[:len(samples)*2]
	decodeFloat32(pcm, buf)
	for i := range samples {
		samples[i][0] = float64(pcm[i*2])
		samples[i][1] = float64(pcm[i*2+1])
	}
	return len(samples), true
}

func (b *beepBackend) WaitForSpace(ctx context.Context, timeout time.Duration) (int, error) {
	if b.bridge == nil {
		return 0, ErrClosed
	}
	return b.bridge.wait(ctx, timeout)
}

func (b *beepBackend) WriteFrames(_ context.Context, data []byte) error {
	if b.bridge == nil {
		return ErrClosed
	}
	return b.bridge.deliver(data)
}

func (b *beepBackend) Close() error {
	if b.bridge != nil {
		b.bridge.close()
	}
	if b.started {
		speaker.Clear()
		speaker.Close()
		b.started = false
	}
	return nil
}
