package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// PopFrequency maps a bubble size to the pitch of its pop: small bubbles
// squeak, big ones thump.
func PopFrequency(size float64) float64 {
	if size < 1 {
		size = 1
	}
	return 9000 / math.Sqrt(size)
}

// PopGenerator is a short downward chirp with a fast exponential decay.
type PopGenerator struct {
	sr      beep.SampleRate
	freq    float64
	phase   float64
	pos     int
	samples int
}

// NewPopGenerator creates a pop lasting 90ms that starts at freq.
func NewPopGenerator(sr beep.SampleRate, freq float64) *PopGenerator {
	return &PopGenerator{
		sr:      sr,
		freq:    freq,
		samples: sr.N(90 * time.Millisecond),
	}
}

func (g *PopGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		// Pitch drops to half over the sound
		progress := float64(g.pos) / float64(g.samples)
		freq := g.freq * (1 - 0.5*progress)

		envelope := math.Exp(-t * 45)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = sample
		samples[i][1] = sample

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *PopGenerator) Err() error {
	return nil
}

// oscillator is a plain sine tone with a short fade at both ends.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewOscillator creates a sine tone of the given length.
func NewOscillator(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	fade := o.rate.N(5 * time.Millisecond)
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		env := 1.0
		if o.position < fade {
			env = float64(o.position) / float64(fade)
		} else if left := o.duration - o.position; left < fade {
			env = float64(left) / float64(fade)
		}
		val := 0.2 * env * math.Sin(2*math.Pi*o.phase)

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }
