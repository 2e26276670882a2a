package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Oscillator is an endless beep.Streamer producing one waveform
// Frequency may be changed between Stream calls
type Oscillator struct {
	Freq  float64
	Wave  WaveType
	phase float64
	rate  beep.SampleRate
}

// NewOscillator creates an oscillator at freq Hz
func NewOscillator(freq float64, wave WaveType, rate beep.SampleRate) *Oscillator {
	return &Oscillator{Freq: freq, Wave: wave, rate: rate}
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var val float64
		switch o.Wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.Freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
	}
	return len(samples), true
}

func (o *Oscillator) Err() error { return nil }

// WithGain scales a streamer by a linear gain
// Zero or negative gain silences it
func WithGain(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}

// Render pulls len(dst) frames from s and downmixes them to mono
// Returns frames written; fewer than len(dst) means s is exhausted
func Render(s beep.Streamer, dst []float32, scratch [][2]float64) int {
	total := 0
	for total < len(dst) {
		chunk := scratch
		if rest := len(dst) - total; rest < len(chunk) {
			chunk = chunk[:rest]
		}
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			dst[total+i] = float32((chunk[i][0] + chunk[i][1]) / 2)
		}
		total += n
		if !ok || n == 0 {
			break
		}
	}
	return total
}
