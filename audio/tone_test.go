package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestOscillatorSine(t *testing.T) {
	osc := NewOscillator(1000, WaveSine, beep.SampleRate(8000))
	buf := make([][2]float64, 8)
	n, ok := osc.Stream(buf)
	assert.Equal(t, 8, n)
	assert.True(t, ok)

	// 8 samples per cycle: 0, peak at quarter, 0 at half, trough at three quarters
	assert.InDelta(t, 0, buf[0][0], 1e-9)
	assert.InDelta(t, 1, buf[2][0], 1e-9)
	assert.InDelta(t, 0, buf[4][0], 1e-9)
	assert.InDelta(t, -1, buf[6][0], 1e-9)
	assert.Equal(t, buf[2][0], buf[2][1])
	assert.NoError(t, osc.Err())
}

func TestRenderDownmixesAndChunks(t *testing.T) {
	osc := NewOscillator(0, WaveSquare, beep.SampleRate(8000))
	dst := make([]float32, 100)
	n := Render(WithGain(osc, 0.5), dst, make([][2]float64, 16))
	assert.Equal(t, 100, n)
	for _, s := range dst {
		assert.InDelta(t, 0.5, s, 1e-6)
	}
}

func TestRenderStopsOnExhaustedStreamer(t *testing.T) {
	src := beep.Take(10, NewOscillator(0, WaveSquare, beep.SampleRate(8000)))
	dst := make([]float32, 32)
	assert.Equal(t, 10, Render(src, dst, make([][2]float64, 4)))
}

func TestWithGainSilent(t *testing.T) {
	dst := make([]float32, 8)
	Render(WithGain(NewOscillator(0, WaveSquare, beep.SampleRate(8000)), 0), dst, make([][2]float64, 8))
	for _, s := range dst {
		assert.Zero(t, s)
	}
}
