// Command input-test shows per-frame key and mouse state. Drag the [X] with
// the left button; Esc or Ctrl+C quits.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cellbox/config"
	"github.com/lixenwraith/cellbox/engine"
	"github.com/lixenwraith/cellbox/input"
	"github.com/lixenwraith/cellbox/terminal"
)

const (
	maxLog      = 10
	frameLength = 16 * time.Millisecond
)

var (
	bgColor    = terminal.NewRGB(20, 20, 30)
	titleBg    = terminal.NewRGB(40, 40, 60)
	dividerFg  = terminal.NewRGB(60, 60, 80)
	statusFg   = terminal.NewRGB(140, 140, 160)
	logFg      = terminal.NewRGB(180, 180, 180)
	objectFg   = terminal.PaleGreen
	objectDrag = terminal.NewRGB(255, 255, 100)
	heldKeyFg  = terminal.Cyan
)

// eventLog keeps the last maxLog lines
type eventLog struct {
	lines []string
}

func (l *eventLog) add(s string) {
	if len(l.lines) >= maxLog {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:maxLog-1]
	}
	l.lines = append(l.lines, s)
}

// dragger moves a 3-cell object while the left button is held on it
type dragger struct {
	x, y     int
	dragging bool
	wasLeft  bool
}

func (d *dragger) update(m input.Mouse, w, h int) {
	switch {
	case m.Left && !d.wasLeft:
		d.dragging = m.X >= d.x && m.X < d.x+3 && m.Y == d.y
	case !m.Left:
		d.dragging = false
	case d.dragging:
		d.x = min(max(m.X, 0), max(w-3, 0))
		d.y = min(max(m.Y, 0), max(h-1, 0))
	}
	d.wasLeft = m.Left
}

func main() {
	var session string
	cmd := &cobra.Command{
		Use:   "input-test",
		Short: "Inspect decoded key and mouse state frame by frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(session)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&session, "session", "auto", "terminal session: auto, ansi, tcell")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "input-test: %v\n", err)
		os.Exit(1)
	}
}

func run(session string) error {
	cfg := config.Default()
	cfg.Session.Kind = session
	cfg.Audio.Backend = "none"
	if err := cfg.Validate(); err != nil {
		return err
	}

	eng := engine.New(engine.WithConfig(cfg))
	if err := eng.Init(0, 0, "input-test"); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	defer eng.Shutdown()

	var log eventLog
	obj := dragger{x: eng.Width() / 2, y: eng.Height() / 2}
	lastW, lastH := eng.Width(), eng.Height()
	lastMouse := eng.MouseState()

	for eng.Update() {
		if eng.KeyPressed(terminal.KeyEscape) {
			return nil
		}

		w, h := eng.Width(), eng.Height()
		if w != lastW || h != lastH {
			log.add(fmt.Sprintf("RESIZE: %dx%d", w, h))
			lastW, lastH = w, h
		}

		var held []string
		for k := terminal.Key(1); k < terminal.KeyMax; k++ {
			if eng.KeyPressed(k) {
				log.add("KEY: " + k.String())
			}
			if eng.KeyDown(k) {
				held = append(held, k.String())
			}
		}

		m := eng.MouseState()
		if m.Wheel != 0 {
			log.add(fmt.Sprintf("MOUSE: wheel %+d @ (%d,%d)", m.Wheel, m.X, m.Y))
		}
		if m.Left != lastMouse.Left || m.Right != lastMouse.Right || m.Middle != lastMouse.Middle {
			log.add(fmt.Sprintf("MOUSE: L=%v M=%v R=%v @ (%d,%d)", m.Left, m.Middle, m.Right, m.X, m.Y))
		}
		lastMouse = m
		obj.update(m, w, h)

		render(eng, &log, &obj, held)
		if err := eng.Present(); err != nil {
			return err
		}
		time.Sleep(frameLength)
	}
	return nil
}

func render(eng *engine.Engine, log *eventLog, obj *dragger, held []string) {
	w, h := eng.Width(), eng.Height()
	eng.Clear(terminal.LightGray, bgColor, ' ')

	title := "Input Test - Press keys, move mouse, drag the [X] - Esc to quit"
	eng.Print(max((w-len(title))/2, 0), 0, title, terminal.LightGray, titleBg)
	eng.Print(0, 1, strings.Repeat("-", w), dividerFg, bgColor)

	for i, entry := range log.lines {
		y := 2 + i
		if y >= h-4 {
			break
		}
		eng.Print(1, y, entry, logFg, bgColor)
	}

	fg := objectFg
	if obj.dragging {
		fg = objectDrag
	}
	eng.Print(obj.x, obj.y, "[X]", fg, titleBg)

	eng.Print(1, h-3, "Held: "+strings.Join(held, " "), heldKeyFg, bgColor)
	eng.Print(0, h-2, strings.Repeat("-", w), dividerFg, bgColor)
	status := fmt.Sprintf("Size: %dx%d | Object: (%d,%d) | Dragging: %v", w, h, obj.x, obj.y, obj.dragging)
	eng.Print(1, h-1, status, statusFg, bgColor)
}
