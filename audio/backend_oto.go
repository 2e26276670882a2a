package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoReadyTimeout bounds how long device start-up may take
const otoReadyTimeout = 2 * time.Second

// otoBackend pulls frames from an oto player's Read callback
// oto permits one context per process; a backend is not reopened after Close
type otoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	bridge *pullBridge
}

func newOtoBackend() *otoBackend {
	return &otoBackend{}
}

func (b *otoBackend) Name() string { return BackendOto }

// otoFormat maps a sample format to oto's, refusing what oto cannot take
func otoFormat(f Format) (oto.Format, error) {
	switch f {
	case FormatFloat32:
		return oto.FormatFloat32LE, nil
	case FormatInt16:
		return oto.FormatSignedInt16LE, nil
	}
	return 0, fmt.Errorf("%w: oto has no %s", ErrFormatRefused, f)
}

// Negotiate creates the process-wide context in the requested format
// int32 is mapped to float32 up front; a refused context is not retried as
// int16 because oto allows only one context per process
func (b *otoBackend) Negotiate(want Params) (Params, error) {
	got := want
	if got.Channels <= 0 {
		got.Channels = 2
	}
	format, err := otoFormat(got.Format)
	if err != nil {
		got.Format = FormatFloat32
		format = oto.FormatFloat32LE
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   got.SampleRate,
		ChannelCount: got.Channels,
		Format:       format,
	})
	if err != nil {
		return Params{}, fmt.Errorf("oto context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(otoReadyTimeout):
		return Params{}, fmt.Errorf("oto context: %w", ErrTimeout)
	}

	b.ctx = ctx
	b.bridge = newPullBridge(got.FrameBytes())
	b.player = ctx.NewPlayer(otoReader{b.bridge})
	b.player.Play()
	return got, nil
}

func (b *otoBackend) WaitForSpace(ctx context.Context, timeout time.Duration) (int, error) {
	if b.bridge == nil {
		return 0, ErrClosed
	}
	return b.bridge.wait(ctx, timeout)
}

func (b *otoBackend) WriteFrames(_ context.Context, data []byte) error {
	if b.bridge == nil {
		return ErrClosed
	}
	return b.bridge.deliver(data)
}

// Close releases the callback before pausing so the player never blocks on Read
func (b *otoBackend) Close() error {
	if b.bridge != nil {
		b.bridge.close()
	}
	if b.player != nil {
		b.player.Pause()
		b.player = nil
	}
	if b.ctx != nil {
		return b.ctx.Suspend()
	}
	return nil
}

// otoReader adapts the bridge to the io.Reader oto pulls from
type otoReader struct {
	bridge *pullBridge
}

func (r otoReader) Read(p []byte) (int, error) {
	return r.bridge.pull(p), nil
}
