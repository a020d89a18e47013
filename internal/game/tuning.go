package game

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Mode selects the game variant.
type Mode string

const (
	ModeTimed   Mode = "timed"   // Countdown, game over screen, high score
	ModeEndless Mode = "endless" // Runs until reset
)

// Tuning holds every gameplay constant. Field tags match the YAML tuning file.
type Tuning struct {
	Mode      Mode   `yaml:"mode"`
	Duration  int    `yaml:"duration"`   // Seconds per timed game
	PopReward int    `yaml:"pop_reward"` // Points per popped bubble
	SizeBonus bool   `yaml:"size_bonus"` // Smaller bubbles award up to PopReward extra
	Spawn     Spawn  `yaml:"spawn"`
	Motion    Motion `yaml:"motion"`
}

// Spawn configures the spawner.
type Spawn struct {
	Interval   time.Duration `yaml:"interval"`
	Chance     float64       `yaml:"chance"`      // Probability a spawn tick yields a bubble
	MaxBubbles int           `yaml:"max_bubbles"` // 0 means no cap
	MinSize    float64       `yaml:"min_size"`
	MaxSize    float64       `yaml:"max_size"`
	MinSpeed   float64       `yaml:"min_speed"`
	MaxSpeed   float64       `yaml:"max_speed"`
	Offset     float64       `yaml:"offset"` // Distance below the viewport bottom where bubbles appear
}

// Motion configures the per-tick updater.
type Motion struct {
	TickRate      int     `yaml:"tick_rate"`      // Ticks per second
	FadeThreshold float64 `yaml:"fade_threshold"` // Bubbles above this Y start fading
	FadeStep      float64 `yaml:"fade_step"`      // Opacity lost per tick while fading
	RemovalMargin float64 `yaml:"removal_margin"` // Bubbles at or above Y = -RemovalMargin are dropped
}

// DefaultTuning returns the classic 60 second game.
func DefaultTuning() Tuning {
	return Tuning{
		Mode:      ModeTimed,
		Duration:  60,
		PopReward: 10,
		Spawn: Spawn{
			Interval: 800 * time.Millisecond,
			Chance:   1,
			MinSize:  30,
			MaxSize:  70,
			MinSpeed: 1,
			MaxSpeed: 3,
			Offset:   50,
		},
		Motion: Motion{
			TickRate:      60,
			FadeThreshold: 100,
			FadeStep:      0.02,
			RemovalMargin: 100,
		},
	}
}

// TickTime returns the duration of one motion tick.
func (m Motion) TickTime() time.Duration {
	return time.Second / time.Duration(m.TickRate)
}

// Validate reports the first inconsistent setting.
func (t Tuning) Validate() error {
	switch t.Mode {
	case ModeTimed:
		if t.Duration <= 0 {
			return fmt.Errorf("duration must be positive in timed mode, got %d", t.Duration)
		}
	case ModeEndless:
	default:
		return fmt.Errorf("unknown mode %q", t.Mode)
	}
	if t.PopReward < 0 {
		return fmt.Errorf("pop_reward must not be negative, got %d", t.PopReward)
	}

	s := t.Spawn
	if s.Interval <= 0 {
		return errors.New("spawn.interval must be positive")
	}
	if s.Chance < 0 || s.Chance > 1 {
		return fmt.Errorf("spawn.chance must be within [0,1], got %v", s.Chance)
	}
	if s.MaxBubbles < 0 {
		return fmt.Errorf("spawn.max_bubbles must not be negative, got %d", s.MaxBubbles)
	}
	if s.MinSize <= 0 || s.MaxSize < s.MinSize {
		return fmt.Errorf("spawn size range [%v,%v] is invalid", s.MinSize, s.MaxSize)
	}
	if s.MinSpeed <= 0 || s.MaxSpeed < s.MinSpeed {
		return fmt.Errorf("spawn speed range [%v,%v] is invalid", s.MinSpeed, s.MaxSpeed)
	}

	m := t.Motion
	if m.TickRate <= 0 {
		return fmt.Errorf("motion.tick_rate must be positive, got %d", m.TickRate)
	}
	if m.FadeStep <= 0 || m.FadeStep > 1 {
		return fmt.Errorf("motion.fade_step must be within (0,1], got %v", m.FadeStep)
	}
	if m.RemovalMargin < 0 {
		return fmt.Errorf("motion.removal_margin must not be negative, got %v", m.RemovalMargin)
	}
	return nil
}

// Reward returns the points awarded for popping b.
func (t Tuning) Reward(b Bubble) int {
	reward := t.PopReward
	span := t.Spawn.MaxSize - t.Spawn.MinSize
	if !t.SizeBonus || span <= 0 {
		return reward
	}
	frac := (t.Spawn.MaxSize - b.Size) / span
	frac = math.Max(0, math.Min(1, frac))
	return reward + int(math.Round(frac*float64(t.PopReward)))
}
