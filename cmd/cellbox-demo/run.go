package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gopxl/beep"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/cellbox/audio"
	"github.com/lixenwraith/cellbox/config"
	"github.com/lixenwraith/cellbox/engine"
	"github.com/lixenwraith/cellbox/terminal"
)

const (
	frameInterval = 16 * time.Millisecond
	maxChunk      = 1024 // Samples synthesised per frame at most
	toneGain      = 0.1
	minFreq       = 200.0
	freqSpan      = 800.0
)

func run(opts options) error {
	log, logFile := setupLogging(opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.session != "" {
		cfg.Session.Kind = opts.session
	}
	if opts.backend != "" {
		cfg.Audio.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	eng := engine.New(engine.WithConfig(cfg), engine.WithLogger(log))

	// Restore the terminal before printing a crash
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCELLBOX CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := eng.Init(0, 0, "cellbox feature test"); err != nil {
		return err
	}
	defer eng.Shutdown()

	audioOn := false
	if !opts.noAudio {
		if err := eng.AudioInit(opts.rate); err != nil {
			log.WithError(err).Warn("continuing without audio")
		} else {
			audioOn = true
		}
	}

	osc := audio.NewOscillator(440, audio.WaveSine, beep.SampleRate(opts.rate))
	tone := audio.WithGain(osc, toneGain)
	pcm := make([]float32, maxChunk)
	scratch := make([][2]float64, 256)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	frame := 0
	for eng.Update() {
		if eng.KeyPressed(terminal.KeyEscape) {
			break
		}

		w, h := eng.Width(), eng.Height()
		mouse := eng.MouseState()
		if w > 0 {
			osc.Freq = minFreq + float64(mouse.X)/float64(w)*freqSpan
		}

		if audioOn {
			if n := min(eng.AudioFreeSpace(), maxChunk); n > 0 {
				n = audio.Render(tone, pcm[:n], scratch)
				eng.AudioPush(pcm[:n])
			}
		}

		drawGradient(eng, w, h, frame)
		drawOverlay(eng, h, frame, osc.Freq, audioOn)

		if err := eng.Present(); err != nil {
			log.WithError(err).Error("present failed")
			return err
		}

		frame++
		<-ticker.C
	}

	if audioOn {
		stats := eng.AudioStats()
		log.WithField("underruns", stats.Underruns).Info("demo finished")
	}
	return nil
}

// drawGradient: x = red, y = green, time = blue bouncing between 0 and 255
func drawGradient(eng *engine.Engine, w, h, frame int) {
	blue := (frame * 2) % 256
	if (frame*2/256)%2 == 1 {
		blue = 255 - blue
	}

	eng.Clear(terminal.Black, terminal.Black, ' ')
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colorful.Color{
				R: float64(x) / float64(max(w, 1)),
				G: float64(y) / float64(max(h, 1)),
				B: float64(blue) / 255,
			}
			eng.Put(x, y, ' ', terminal.White, terminal.RGBFromColorful(c))
		}
	}
}

func drawOverlay(eng *engine.Engine, h, frame int, freq float64, audioOn bool) {
	m := eng.MouseState()
	btn := func(down bool, name string) string {
		if down {
			return name
		}
		return "-"
	}

	eng.Print(2, 1, " [ cellbox feature test ] ", terminal.White, terminal.Black)
	eng.Print(2, 2, fmt.Sprintf(" Resolution: %dx%d | Frame: %d ", eng.Width(), h, frame), terminal.LightGray, terminal.Black)
	eng.Print(2, 3, fmt.Sprintf(" Mouse: %d,%d | Btn: %s%s%s ", m.X, m.Y,
		btn(m.Left, "L"), btn(m.Middle, "M"), btn(m.Right, "R")), terminal.LightGray, terminal.Black)

	if audioOn {
		stats := eng.AudioStats()
		eng.Print(2, 4, fmt.Sprintf(" Audio Freq: %.2fHz (Move mouse X to change) | underruns %d ", freq, stats.Underruns),
			terminal.PaleGreen, terminal.Black)
	} else {
		eng.Print(2, 4, " Audio disabled ", terminal.Gray, terminal.Black)
	}

	eng.Print(2, h-2, " PRESS ESC TO EXIT ", terminal.Coral, terminal.DarkRed)
}
