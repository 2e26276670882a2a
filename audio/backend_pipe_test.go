package audio

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPathOnly(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestDetectPlayerPriority(t *testing.T) {
	p, path, err := detectPlayer(lookPathOnly("aplay", "pacat", "ffplay"))
	require.NoError(t, err)
	assert.Equal(t, "pacat", p.name)
	assert.Equal(t, "/usr/bin/pacat", path)

	p, _, err = detectPlayer(lookPathOnly("play", "ffplay"))
	require.NoError(t, err)
	assert.Equal(t, "play", p.name)

	_, _, err = detectPlayer(lookPathOnly())
	assert.ErrorIs(t, err, ErrNoAudioBackend)
}

func TestPlayerArgsFollowParams(t *testing.T) {
	byName := map[string]playerSpec{}
	for _, p := range players {
		byName[p.name] = p
	}

	f32 := Params{SampleRate: 48000, Channels: 2, Format: FormatFloat32}
	s16 := Params{SampleRate: 44100, Channels: 1, Format: FormatInt16}

	assert.Contains(t, byName["pacat"].args(f32), "--format=float32le")
	assert.Contains(t, byName["pacat"].args(f32), "--rate=48000")
	assert.Contains(t, byName["pacat"].args(s16), "--format=s16le")
	assert.Contains(t, byName["pacat"].args(s16), "--channels=1")

	assert.Contains(t, byName["aplay"].args(f32), "FLOAT_LE")
	assert.Contains(t, byName["aplay"].args(s16), "S16_LE")

	assert.Contains(t, byName["play"].args(f32), "floating-point")
	assert.Contains(t, byName["play"].args(s16), "signed")

	assert.Contains(t, byName["pw-cat"].args(f32), "--format=f32")
	assert.Contains(t, byName["ffplay"].args(s16), "s16le")
	assert.Contains(t, byName["ffplay"].args(s16), "44100")
}

func TestPipeBackendNoPlayer(t *testing.T) {
	b := newPipeBackend(BackendOptions{})
	b.lookPath = lookPathOnly()

	_, err := b.Negotiate(Params{SampleRate: 48000, Channels: 2})
	assert.True(t, errors.Is(err, ErrNoAudioBackend))
	assert.Equal(t, DefaultBackendOptions(), b.opts)
	assert.NoError(t, b.Close())
}

func TestPipeBackendFormatFallback(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell")
	}

	// A player that exits at once for float input and stays up for s16
	fake := playerSpec{
		name: "fake",
		args: func(p Params) []string {
			if p.Format == FormatFloat32 {
				return []string{"-c", "exit 1"}
			}
			return []string{"-c", "cat >/dev/null"}
		},
	}
	b := newPipeBackend(DefaultBackendOptions())
	b.lookPath = func(string) (string, error) { return exec.LookPath("sh") }
	saved := players
	players = []playerSpec{fake}
	defer func() { players = saved }()

	got, err := b.Negotiate(Params{SampleRate: 8000, Channels: 2, Format: FormatFloat32})
	require.NoError(t, err)
	assert.Equal(t, FormatInt16, got.Format)
	assert.Equal(t, "pipe:fake", b.Name())

	require.NoError(t, b.WriteFrames(context.Background(), make([]byte, 64)))
	assert.NoError(t, b.Close())
	assert.ErrorIs(t, b.WriteFrames(context.Background(), nil), ErrClosed)
}

// stalledPlayer starts a player that never reads its stdin
func stalledPlayer(t *testing.T, opts BackendOptions) *pipeBackend {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell")
	}
	saved := players
	players = []playerSpec{{
		name: "stalled",
		args: func(Params) []string { return []string{"-c", "exec sleep 30"} },
	}}
	t.Cleanup(func() { players = saved })

	b := newPipeBackend(opts)
	b.lookPath = func(string) (string, error) { return exec.LookPath("sh") }
	_, err := b.Negotiate(Params{SampleRate: 8000, Channels: 1, Format: FormatInt16})
	require.NoError(t, err)
	return b
}

func TestPipeBackendCloseUnblocksWrite(t *testing.T) {
	b := stalledPlayer(t, DefaultBackendOptions())

	errCh := make(chan error, 1)
	go func() {
		// Larger than any pipe buffer, so the write parks
		errCh <- b.WriteFrames(context.Background(), make([]byte, 4<<20))
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, b.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("write still blocked after close")
	}
	assert.NoError(t, b.Close())
}

func TestPipeBackendCloseUnblocksWait(t *testing.T) {
	b := stalledPlayer(t, BackendOptions{Period: time.Hour, MaxFrames: 4096})

	frames, err := b.WaitForSpace(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 400, frames) // 50ms prime at 8kHz

	errCh := make(chan error, 1)
	go func() {
		_, err := b.WaitForSpace(context.Background(), time.Hour)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("wait still blocked after close")
	}
}
