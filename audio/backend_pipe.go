package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// pipeStartupGrace is how long a player must survive to accept a format
	pipeStartupGrace = 150 * time.Millisecond
	// pipePrimeDuration is queued on the first cycle to cover player latency
	pipePrimeDuration = 50 * time.Millisecond
)

// playerSpec describes an external player reading raw PCM on stdin
type playerSpec struct {
	name string
	// args builds the argument list for a stream
	args func(p Params) []string
}

// players in priority order: pacat > pw-cat > aplay > play (sox) > ffplay
var players = []playerSpec{
	{
		name: "pacat",
		args: func(p Params) []string {
			f := map[Format]string{FormatFloat32: "float32le", FormatInt16: "s16le", FormatInt32: "s32le"}[p.Format]
			return []string{
				"--raw",
				"--format=" + f,
				"--rate=" + strconv.Itoa(p.SampleRate),
				"--channels=" + strconv.Itoa(p.Channels),
				"--latency-msec=50",
				"--playback",
			}
		},
	},
	{
		name: "pw-cat",
		args: func(p Params) []string {
			f := map[Format]string{FormatFloat32: "f32", FormatInt16: "s16", FormatInt32: "s32"}[p.Format]
			return []string{
				"--playback",
				"--format=" + f,
				"--rate=" + strconv.Itoa(p.SampleRate),
				"--channels=" + strconv.Itoa(p.Channels),
				"--latency=50ms",
				"-",
			}
		},
	},
	{
		name: "aplay",
		args: func(p Params) []string {
			f := map[Format]string{FormatFloat32: "FLOAT_LE", FormatInt16: "S16_LE", FormatInt32: "S32_LE"}[p.Format]
			return []string{
				"-t", "raw",
				"-f", f,
				"-r", strconv.Itoa(p.SampleRate),
				"-c", strconv.Itoa(p.Channels),
				"-q",
			}
		},
	},
	{
		name: "play",
		args: func(p Params) []string {
			enc, bits := "signed", "16"
			switch p.Format {
			case FormatFloat32:
				enc, bits = "floating-point", "32"
			case FormatInt32:
				bits = "32"
			}
			return []string{
				"-t", "raw",
				"-e", enc,
				"-b", bits,
				"-c", strconv.Itoa(p.Channels),
				"-r", strconv.Itoa(p.SampleRate),
				"-",
				"-d",
				"-q",
			}
		},
	},
	{
		name: "ffplay",
		args: func(p Params) []string {
			f := map[Format]string{FormatFloat32: "f32le", FormatInt16: "s16le", FormatInt32: "s32le"}[p.Format]
			return []string{
				"-nodisp",
				"-autoexit",
				"-f", f,
				"-ac", strconv.Itoa(p.Channels),
				"-ar", strconv.Itoa(p.SampleRate),
				"-probesize", "32",
				"-analyzeduration", "0",
				"-i", "pipe:0",
				"-loglevel", "quiet",
			}
		},
	},
}

// detectPlayer returns the first installed player
func detectPlayer(lookPath func(string) (string, error)) (playerSpec, string, error) {
	for _, p := range players {
		if path, err := lookPath(p.name); err == nil {
			return p, path, nil
		}
	}
	return playerSpec{}, "", ErrNoAudioBackend
}

// pipeBackend pushes frames into a player process on a fixed period
type pipeBackend struct {
	opts     BackendOptions
	lookPath func(string) (string, error)

	player playerSpec
	params Params
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	exited chan struct{}

	ticker *time.Ticker
	last   time.Time
	owed   float64 // Fractional frames carried between cycles
	primed bool

	// Close may run while WriteFrames blocks; it never rewrites stdin or ticker
	closed  atomic.Bool
	done    chan struct{}
	closeMu sync.Mutex
	wg      sync.WaitGroup
}

func newPipeBackend(opts BackendOptions) *pipeBackend {
	if opts.Period <= 0 {
		opts.Period = DefaultBackendOptions().Period
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultBackendOptions().MaxFrames
	}
	return &pipeBackend{opts: opts, lookPath: exec.LookPath, done: make(chan struct{})}
}

func (b *pipeBackend) Name() string {
	if b.player.name != "" {
		return BackendPipe + ":" + b.player.name
	}
	return BackendPipe
}

// Negotiate starts the player with the requested format, retrying with
// 16-bit integer if the player rejects it by exiting early
func (b *pipeBackend) Negotiate(want Params) (Params, error) {
	player, path, err := detectPlayer(b.lookPath)
	if err != nil {
		return Params{}, err
	}
	b.player = player

	if want.Channels <= 0 {
		want.Channels = 2
	}

	attempts := []Format{want.Format}
	if want.Format != FormatInt16 {
		attempts = append(attempts, FormatInt16)
	}

	var lastErr error
	for _, f := range attempts {
		p := want
		p.Format = f
		if err := b.start(path, p); err != nil {
			lastErr = err
			continue
		}
		b.params = p
		return p, nil
	}
	return Params{}, lastErr
}

// start launches the player and waits out the startup grace
func (b *pipeBackend) start(path string, p Params) error {
	cmd := exec.Command(path, b.player.args(p)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%s stdin: %w", b.player.name, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("%s start: %w", b.player.name, err)
	}

	exited := make(chan struct{})
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		_ = cmd.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		stdin.Close()
		b.wg.Wait()
		return fmt.Errorf("%w: %s exited with %s", ErrFormatRefused, b.player.name, p.Format)
	case <-time.After(pipeStartupGrace):
	}

	b.cmd = cmd
	b.stdin = stdin
	b.exited = exited
	return nil
}

// WaitForSpace sleeps until the next period and returns the frames consumed
// by the player since the last write, capped at MaxFrames
func (b *pipeBackend) WaitForSpace(ctx context.Context, timeout time.Duration) (int, error) {
	if b.stdin == nil || b.closed.Load() {
		b.stopTicker()
		return 0, ErrClosed
	}

	now := time.Now()
	if !b.primed {
		b.primed = true
		b.ticker = time.NewTicker(b.opts.Period)
		b.last = now
		prime := int(pipePrimeDuration.Seconds() * float64(b.params.SampleRate))
		return min(prime, b.opts.MaxFrames), nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case now = <-b.ticker.C:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-b.exited:
		return 0, ErrClosed
	case <-b.done:
		b.stopTicker()
		return 0, ErrClosed
	case <-timer.C:
		return 0, ErrTimeout
	}

	b.owed += now.Sub(b.last).Seconds() * float64(b.params.SampleRate)
	b.last = now

	frames := int(b.owed)
	if frames > b.opts.MaxFrames {
		frames = b.opts.MaxFrames
		b.owed = 0
	} else {
		b.owed -= float64(frames)
	}
	return frames, nil
}

// WriteFrames blocks while the player's pipe is full
// Safe to call concurrently with Close, which unblocks it with an error
func (b *pipeBackend) WriteFrames(_ context.Context, data []byte) error {
	if b.stdin == nil || b.closed.Load() {
		return ErrClosed
	}
	if _, err := b.stdin.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return nil
}

// Close closes stdin, kills the player and reaps it. Idempotent
func (b *pipeBackend) Close() error {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	if b.closed.Swap(true) {
		return nil
	}
	close(b.done)

	if b.stdin != nil {
		b.stdin.Close()
	}
	if b.cmd != nil && b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
	b.wg.Wait()
	return nil
}

// stopTicker runs on the audio goroutine, which owns the ticker
func (b *pipeBackend) stopTicker() {
	if b.ticker != nil {
		b.ticker.Stop()
	}
}
