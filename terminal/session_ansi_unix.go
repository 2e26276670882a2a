//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const defaultSessionKind = SessionANSI

// maxReadsPerPoll bounds one PollEvents call so a flood of input cannot stall a frame
const maxReadsPerPoll = 64

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// ansiSession drives the controlling terminal with raw bytes
type ansiSession struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	mouse bool

	oldTerm *term.State
	encoder Encoder

	// Persistent buffer for stream assembly across chunked reads
	pending []byte
	readBuf [256]byte

	resizeCh    chan ResizeEvent
	sigStopCh   chan struct{}
	sigDoneCh   chan struct{}
	onInterrupt func()

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

func newANSISession(opts SessionOptions) (Session, error) {
	return &ansiSession{
		in:       os.Stdin,
		out:      os.Stdout,
		inFd:     int(os.Stdin.Fd()),
		outFd:    int(os.Stdout.Fd()),
		mouse:    opts.Mouse,
		pending:  make([]byte, 0, 256),
		resizeCh: make(chan ResizeEvent, 1),
	}, nil
}

func (s *ansiSession) SetInterruptHandler(fn func()) {
	s.onInterrupt = fn
}

func (s *ansiSession) ReportsKeyRelease() bool {
	return false
}

// Init enters raw mode and sets up terminal
func (s *ansiSession) Init(width, height int, title string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return 0, 0, ErrSessionFinished
	}
	if s.initialized {
		w, h := getTerminalSize(s.outFd)
		return w, h, nil
	}

	if !term.IsTerminal(s.inFd) {
		return 0, 0, ErrNotTerminal
	}

	// Raw mode: no echo, canonical mode, signal keys, CR translation or output processing
	old, err := term.MakeRaw(s.inFd)
	if err != nil {
		return 0, 0, err
	}
	s.oldTerm = old

	seq := appendEnterSequence(make([]byte, 0, 128), title, s.mouse)
	if _, err := s.out.Write(seq); err != nil {
		term.Restore(s.inFd, s.oldTerm)
		s.oldTerm = nil
		return 0, 0, err
	}

	if width <= 0 || height <= 0 {
		width, height = getTerminalSize(s.outFd)
	}

	s.startSignals()
	s.initialized = true
	return width, height, nil
}

// Fini restores terminal state in reverse order of Init
func (s *ansiSession) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}

	s.stopSignals()

	seq := appendExitSequence(make([]byte, 0, 128), s.mouse)
	s.out.Write(seq)

	if s.oldTerm != nil {
		term.Restore(s.inFd, s.oldTerm)
	}

	s.finalized = true
}

// Present encodes the frame and flushes it in one write
func (s *ansiSession) Present(cells []Cell, width, height int) error {
	frame := s.encoder.Encode(cells, width, height)
	if len(frame) == 0 {
		return nil
	}
	_, err := s.out.Write(frame)
	return err
}

// PollEvents drains the latest resize and any readable stdin bytes without blocking
func (s *ansiSession) PollEvents(sink EventSink) error {
	// Resize bypasses the decoder entirely
	select {
	case re := <-s.resizeCh:
		sink.ResizeEvent(re.Width, re.Height)
	default:
	}

	fds := []unix.PollFd{{Fd: int32(s.inFd), Events: unix.POLLIN}}
	for range maxReadsPerPoll {
		n, err := unix.Poll(fds, 0)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			break
		}

		rn, err := unix.Read(s.inFd, s.readBuf[:])
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return err
		}
		if rn == 0 {
			break // EOF
		}
		s.pending = append(s.pending, s.readBuf[:rn]...)
	}

	if len(s.pending) == 0 {
		return nil
	}

	consumed := Decode(s.pending, sink)

	// Compact buffer, keeping any partial sequence for the next poll
	if consumed >= len(s.pending) {
		s.pending = s.pending[:0]
	} else if consumed > 0 {
		copy(s.pending, s.pending[consumed:])
		s.pending = s.pending[:len(s.pending)-consumed]
	}
	return nil
}

// startSignals watches SIGWINCH and close-request signals
func (s *ansiSession) startSignals() {
	s.sigStopCh = make(chan struct{})
	s.sigDoneCh = make(chan struct{})

	go func() {
		defer close(s.sigDoneCh)
		sigCh := make(chan os.Signal, 4)
		signal.Notify(sigCh, syscall.SIGWINCH, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-s.sigStopCh:
				return
			case sig := <-sigCh:
				if sig == syscall.SIGWINCH {
					if w, h, ok := querySize(s.outFd); ok {
						s.postResize(ResizeEvent{Width: w, Height: h})
					}
					continue
				}
				if s.onInterrupt != nil {
					s.onInterrupt()
				}
			}
		}
	}()
}

func (s *ansiSession) stopSignals() {
	if s.sigStopCh == nil {
		return
	}
	close(s.sigStopCh)
	<-s.sigDoneCh
	s.sigStopCh = nil
}

// postResize keeps only the latest pending size
func (s *ansiSession) postResize(ev ResizeEvent) {
	select {
	case s.resizeCh <- ev:
	default:
		// Drain and replace to ensure latest size is pending
		select {
		case <-s.resizeCh:
		default:
		}
		select {
		case s.resizeCh <- ev:
		default:
		}
	}
}

// querySize reads the window size, ok=false when unavailable
func querySize(fd int) (int, int, bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 0, 0, false
	}
	return int(ws.Col), int(ws.Row), true
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	if w, h, ok := querySize(fd); ok {
		return w, h
	}
	return 80, 25 // Fallback
}
