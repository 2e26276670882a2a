package audio

const (
	rampStep       = 0.01 // Gain added per sample while recovering from starvation
	decayFactor    = 0.95 // Per-sample decay of the last value during underrun
	silenceEpsilon = 1e-4 // Decayed magnitudes below this snap to zero
)

// Mixer turns ring contents into device frames
// Owned by the audio goroutine only
type Mixer struct {
	lastSample float32
	gainRamp   float32
	starving   bool
}

// NewMixer returns a mixer in the starving state, so the first audio ramps in
func NewMixer() *Mixer {
	return &Mixer{starving: true}
}

// Mix fills out with len(out)/channels frames drained from r
// Each mono sample is written to every channel. Returns the underrun frame count
func (m *Mixer) Mix(r *Ring, out []float32, channels int) int {
	if channels < 1 {
		channels = 1
	}
	frames := len(out) / channels

	rd := r.read.Load()
	wr := r.write.Load()
	underrun := 0
	o := 0

	for f := 0; f < frames; f++ {
		var s float32

		if wr != rd {
			s = r.buf[rd&r.mask]
			rd++

			if m.starving {
				s *= m.gainRamp
				m.gainRamp += rampStep
				if m.gainRamp >= 1 {
					m.gainRamp = 1
					m.starving = false
				}
			}
			m.lastSample = s
		} else {
			underrun++
			m.starving = true
			m.gainRamp = 0

			s = m.lastSample * decayFactor
			if s < silenceEpsilon && s > -silenceEpsilon {
				s = 0
			}
			m.lastSample = s
		}

		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		for c := 0; c < channels; c++ {
			out[o] = s
			o++
		}
	}

	r.read.Store(rd)
	return underrun
}

// Starving reports whether the next available sample will be ramped in
func (m *Mixer) Starving() bool {
	return m.starving
}
