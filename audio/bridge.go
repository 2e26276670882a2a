package audio

import (
	"context"
	"sync"
	"time"
)

// pullBridge hands device-owned buffers from a pull callback to the audio
// goroutine and blocks the callback until they are filled
type pullBridge struct {
	frameBytes int

	requests chan []byte
	filled   chan struct{}
	closed   chan struct{}
	once     sync.Once

	pending []byte // Audio goroutine only, between wait and deliver
}

func newPullBridge(frameBytes int) *pullBridge {
	return &pullBridge{
		frameBytes: frameBytes,
		requests:   make(chan []byte),
		filled:     make(chan struct{}, 1),
		closed:     make(chan struct{}),
	}
}

// pull runs on the device goroutine; p is always fully written
// Silence is returned once the bridge is closed
func (b *pullBridge) pull(p []byte) int {
	n := len(p) - len(p)%b.frameBytes
	if n == 0 {
		clear(p)
		return len(p)
	}

	select {
	case b.requests <- p[:n]:
	case <-b.closed:
		clear(p)
		return len(p)
	}

	select {
	case <-b.filled:
	case <-b.closed:
		clear(p)
		return len(p)
	}
	clear(p[n:])
	return len(p)
}

// wait blocks until the device asks for frames
func (b *pullBridge) wait(ctx context.Context, timeout time.Duration) (int, error) {
	select {
	case <-b.closed:
		return 0, ErrClosed
	default:
	}
	if b.pending != nil {
		return len(b.pending) / b.frameBytes, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p := <-b.requests:
		b.pending = p
		return len(p) / b.frameBytes, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-b.closed:
		return 0, ErrClosed
	case <-timer.C:
		return 0, ErrTimeout
	}
}

// deliver copies data into the pending device buffer and releases the callback
func (b *pullBridge) deliver(data []byte) error {
	select {
	case <-b.closed:
		return ErrClosed
	default:
	}
	if b.pending == nil {
		return nil
	}

	n := copy(b.pending, data)
	clear(b.pending[n:])
	b.pending = nil
	b.filled <- struct{}{}
	return nil
}

func (b *pullBridge) close() {
	b.once.Do(func() { close(b.closed) })
}
