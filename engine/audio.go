package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/cellbox/audio"
)

// audioJoinTimeout bounds how long Shutdown waits for the audio goroutine
const audioJoinTimeout = 3 * time.Second

// AudioInit negotiates a device at sampleRate and starts the audio thread
// A failure leaves rendering unaffected; pushes are then discarded
func (e *Engine) AudioInit(sampleRate int) error {
	if e.shut {
		return ErrShutdown
	}
	if e.thread != nil {
		return audio.ErrAlreadyRunning
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	ac := e.cfg.Audio
	format, ok := audio.ParseFormat(ac.Format)
	if !ok {
		format = audio.FormatFloat32 // auto
	}
	want := audio.Params{SampleRate: sampleRate, Channels: ac.Channels, Format: format}

	backend, got, err := e.openAudio(want)
	if err != nil {
		e.log.WithError(err).Warn("audio disabled")
		return fmt.Errorf("audio init: %w", err)
	}

	ring := audio.NewRing(ac.RingCapacity)
	thread := audio.NewThread(ring, backend, got, &e.running, e.log.WithField("component", "audio"))
	thread.SetLivenessTimeout(time.Duration(ac.LivenessTimeoutMS) * time.Millisecond)
	if err := thread.Start(); err != nil {
		_ = backend.Close()
		return fmt.Errorf("audio init: %w", err)
	}

	e.ring = ring
	e.thread = thread
	e.backend = backend
	return nil
}

// openAudio negotiates the injected backend or opens one from config
func (e *Engine) openAudio(want audio.Params) (audio.Backend, audio.Params, error) {
	if e.audioBackend == nil {
		opts := audio.BackendOptions{
			Period:    time.Duration(e.cfg.Audio.PeriodMS) * time.Millisecond,
			MaxFrames: e.cfg.Audio.MaxFrames,
		}
		return audio.Open(e.cfg.Audio.Backend, want, opts, e.log)
	}

	got, err := e.audioBackend.Negotiate(want)
	if err != nil {
		_ = e.audioBackend.Close()
		return nil, audio.Params{}, err
	}
	e.log.WithFields(logrus.Fields{
		"backend": e.audioBackend.Name(),
		"format":  got.Format.String(),
	}).Info("audio backend selected")
	return e.audioBackend, got, nil
}

// AudioPush queues mono samples and returns how many were accepted
func (e *Engine) AudioPush(samples []float32) int {
	if e.ring == nil {
		return 0
	}
	return e.ring.Push(samples)
}

// AudioFreeSpace reports how many samples the next push can take
func (e *Engine) AudioFreeSpace() int {
	if e.ring == nil {
		return 0
	}
	return e.ring.FreeSpace()
}

// AudioStats returns the audio thread counters, zero without audio
func (e *Engine) AudioStats() audio.Stats {
	if e.thread == nil {
		return audio.Stats{}
	}
	return e.thread.Stats()
}

// stopAudio joins the thread before releasing the device it uses
// A thread stuck in a device call past the join timeout is released by Close
func (e *Engine) stopAudio() {
	if e.thread == nil {
		return
	}
	joined := e.thread.Stop(e.audioJoin)
	if err := e.backend.Close(); err != nil {
		e.log.WithError(err).Warn("audio backend close failed")
	}
	if !joined {
		// Close released the device call the thread was stuck in; join again
		select {
		case <-e.thread.Done():
			e.log.Warn("audio thread exited after forced device release")
		case <-time.After(e.audioJoin):
			e.log.Error("audio thread still running after device release")
		}
	}

	stats := e.thread.Stats()
	e.log.WithFields(logrus.Fields{
		"frames":    stats.Frames,
		"underruns": stats.Underruns,
		"dropped":   stats.Dropped,
	}).Debug("audio stopped")

	e.thread = nil
	e.backend = nil
	e.ring = nil
}
