package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullBridgeHandoff(t *testing.T) {
	b := newPullBridge(4)
	device := make([]byte, 14) // Three whole frames plus a partial
	for i := range device {
		device[i] = 0xff
	}

	done := make(chan int)
	go func() { done <- b.pull(device) }()

	frames, err := b.wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, frames)

	// Short delivery is zero-padded
	require.NoError(t, b.deliver([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, 14, <-done)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0, 0, 0}, device)
}

func TestPullBridgeTimeoutAndCancel(t *testing.T) {
	b := newPullBridge(4)

	_, err := b.wait(context.Background(), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.wait(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPullBridgeCloseReleasesDevice(t *testing.T) {
	b := newPullBridge(2)
	device := []byte{9, 9, 9, 9}

	done := make(chan int)
	go func() { done <- b.pull(device) }()

	// Take the request, then close without delivering
	_, err := b.wait(context.Background(), time.Second)
	require.NoError(t, err)
	b.close()

	select {
	case n := <-done:
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte{0, 0, 0, 0}, device)
	case <-time.After(time.Second):
		t.Fatal("pull did not return after close")
	}

	assert.ErrorIs(t, b.deliver([]byte{1, 1}), ErrClosed)
	_, err = b.wait(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrClosed)

	// Pull after close returns silence immediately
	assert.Equal(t, 4, b.pull(device))
}
