package terminal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// tcellEventQueue bounds native events buffered between polls
const tcellEventQueue = 256

// tcellSession consumes structured native event records through tcell
// Used where raw byte streams are unavailable (Windows console) or on request
type tcellSession struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	mouse     bool

	events  chan tcell.Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	sigCh   chan os.Signal
	sigDone chan struct{}

	onInterrupt func()
	buttons     tcell.ButtonMask

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

func newTcellSession(opts SessionOptions) Session {
	return &tcellSession{
		newScreen: tcell.NewScreen,
		mouse:     opts.Mouse,
		events:    make(chan tcell.Event, tcellEventQueue),
	}
}

func (s *tcellSession) SetInterruptHandler(fn func()) {
	s.onInterrupt = fn
}

func (s *tcellSession) ReportsKeyRelease() bool {
	return false
}

func (s *tcellSession) Init(width, height int, title string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return 0, 0, ErrSessionFinished
	}
	if s.initialized {
		w, h := s.screen.Size()
		return w, h, nil
	}

	screen, err := s.newScreen()
	if err != nil {
		return 0, 0, err
	}
	if err := screen.Init(); err != nil {
		return 0, 0, err
	}
	s.screen = screen

	if title != "" {
		screen.SetTitle(title)
	}
	screen.HideCursor()
	if s.mouse {
		screen.EnableMouse()
	}

	if width <= 0 || height <= 0 {
		width, height = screen.Size()
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.pump()
	s.startSignals()

	s.initialized = true
	return width, height, nil
}

// pump forwards blocking PollEvent results into the buffered queue
func (s *tcellSession) pump() {
	defer close(s.doneCh)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return // Screen finalized
		}
		select {
		case s.events <- ev:
		case <-s.stopCh:
			return
		default:
			// Queue full, drop
		}
	}
}

func (s *tcellSession) startSignals() {
	s.sigCh = make(chan os.Signal, 2)
	s.sigDone = make(chan struct{})
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(s.sigDone)
		for range s.sigCh {
			if s.onInterrupt != nil {
				s.onInterrupt()
			}
		}
	}()
}

func (s *tcellSession) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}

	signal.Stop(s.sigCh)
	close(s.sigCh)
	<-s.sigDone

	close(s.stopCh)
	if s.mouse {
		s.screen.DisableMouse()
	}
	s.screen.Fini() // Unblocks PollEvent
	<-s.doneCh

	s.finalized = true
}

func (s *tcellSession) PollEvents(sink EventSink) error {
	for {
		select {
		case ev := <-s.events:
			s.dispatch(ev, sink)
		default:
			return nil
		}
	}
}

func (s *tcellSession) dispatch(ev tcell.Event, sink EventSink) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		sink.ResizeEvent(w, h)
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			sink.CloseEvent()
			return
		}
		if key := tcellKey(ev); key != KeyNone {
			sink.KeyEvent(key, true)
		}
	case *tcell.EventMouse:
		s.dispatchMouse(ev, sink)
	}
}

// dispatchMouse converts tcell's level button mask into edge events
func (s *tcellSession) dispatchMouse(ev *tcell.EventMouse, sink EventSink) {
	x, y := ev.Position()
	btns := ev.Buttons()

	if btns&tcell.WheelUp != 0 {
		sink.MouseEvent(MouseEvent{X: x, Y: y, Wheel: 1})
	}
	if btns&tcell.WheelDown != 0 {
		sink.MouseEvent(MouseEvent{X: x, Y: y, Wheel: -1})
	}

	changed := false
	for _, m := range [...]struct {
		mask tcell.ButtonMask
		btn  MouseButton
	}{
		{tcell.Button1, MouseBtnLeft},
		{tcell.Button3, MouseBtnMiddle},
		{tcell.Button2, MouseBtnRight},
	} {
		now := btns&m.mask != 0
		if now != (s.buttons&m.mask != 0) {
			sink.MouseEvent(MouseEvent{X: x, Y: y, Button: m.btn, Down: now})
			changed = true
		}
	}
	s.buttons = btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	if !changed {
		sink.MouseEvent(MouseEvent{X: x, Y: y, Motion: true})
	}
}

// Present writes the frame through tcell, reusing the style across colour runs
func (s *tcellSession) Present(cells []Cell, width, height int) error {
	if !s.initialized || s.finalized {
		return ErrSessionFinished
	}
	if len(cells) < width*height {
		return nil
	}

	var lastFg, lastBg RGB
	style := tcell.StyleDefault
	lastValid := false

	for y := 0; y < height; y++ {
		row := cells[y*width : (y+1)*width]
		for x, c := range row {
			if !lastValid || c.Fg != lastFg || c.Bg != lastBg {
				style = tcell.StyleDefault.
					Foreground(tcell.NewHexColor(int32(c.Fg))).
					Background(tcell.NewHexColor(int32(c.Bg)))
				lastFg, lastBg, lastValid = c.Fg, c.Bg, true
			}
			s.screen.SetContent(x, y, rune(printable(c.Ch)), nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// tcellKey maps a tcell key record to a key code
func tcellKey(ev *tcell.EventKey) Key {
	switch k := ev.Key(); k {
	case tcell.KeyRune:
		r := ev.Rune()
		if r < 0x20 || r > 0x7e {
			return KeyNone // ASCII-only input
		}
		return Key(r)
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyInsert:
		return KeyInsert
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	default:
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			return KeyF1 + Key(k-tcell.KeyF1)
		}
	}
	return KeyNone
}
