package config

import (
	"fmt"
	"os"

	"github.com/tomz197/bubblepop/internal/game"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadTuning.
const (
	EnvTuningFile = "BUBBLEPOP_TUNING"
	EnvMode       = "BUBBLEPOP_MODE"
	EnvDuration   = "BUBBLEPOP_DURATION"
	EnvSizeBonus  = "BUBBLEPOP_SIZE_BONUS"
)

// ReadTuningFile overlays the YAML file at path onto the default tuning.
// Keys missing from the file keep their defaults.
func ReadTuningFile(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}

// LoadTuning builds the tuning from the optional file named by
// BUBBLEPOP_TUNING, then applies the mode/duration/bonus overrides from the
// environment, and validates the result.
func LoadTuning() (game.Tuning, error) {
	t := game.DefaultTuning()
	if path := GetEnv(EnvTuningFile, ""); path != "" {
		var err error
		if t, err = ReadTuningFile(path); err != nil {
			return t, err
		}
	}

	if mode := GetEnv(EnvMode, ""); mode != "" {
		t.Mode = game.Mode(mode)
	}
	duration, err := GetEnvInt(EnvDuration, t.Duration)
	if err != nil {
		return t, err
	}
	t.Duration = duration
	bonus, err := GetEnvBool(EnvSizeBonus, t.SizeBonus)
	if err != nil {
		return t, err
	}
	t.SizeBonus = bonus

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}
