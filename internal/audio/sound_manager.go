// Package audio plays the little synthesized sounds of a local game: a pop
// whose pitch follows the bubble size, a start chime and a game-over tone.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the audio system. Without an audio device it returns
// the error and every Play call stays silent.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayPop plays the pop of a bubble of the given size.
func (sm *SoundManager) PlayPop(size float64) {
	sm.play(func() beep.Streamer {
		return NewPopGenerator(sampleRate, PopFrequency(size))
	})
}

// PlayStart plays a short rising chime.
func (sm *SoundManager) PlayStart() {
	sm.play(func() beep.Streamer {
		return beep.Seq(
			NewOscillator(523.25, 80*time.Millisecond, sampleRate),
			NewOscillator(783.99, 120*time.Millisecond, sampleRate),
		)
	})
}

// PlayGameOver plays a falling two-note tone.
func (sm *SoundManager) PlayGameOver() {
	sm.play(func() beep.Streamer {
		return beep.Seq(
			NewOscillator(392, 150*time.Millisecond, sampleRate),
			NewOscillator(261.63, 300*time.Millisecond, sampleRate),
		)
	})
}

func (sm *SoundManager) play(build func() beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := build()
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
