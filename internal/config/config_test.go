package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/bubblepop/internal/game"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BUBBLEPOP_TEST_VALUE", "set")
	if got := GetEnv("BUBBLEPOP_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("GetEnv = %q, want set", got)
	}
	if got := GetEnv("BUBBLEPOP_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv missing = %q, want fallback", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("BUBBLEPOP_TEST_INT", "42")
	t.Setenv("BUBBLEPOP_TEST_BAD_INT", "forty")
	t.Setenv("BUBBLEPOP_TEST_BOOL", "true")

	if n, err := GetEnvInt("BUBBLEPOP_TEST_INT", 1); err != nil || n != 42 {
		t.Fatalf("GetEnvInt = (%d, %v), want 42", n, err)
	}
	if n, err := GetEnvInt("BUBBLEPOP_TEST_MISSING", 7); err != nil || n != 7 {
		t.Fatalf("GetEnvInt missing = (%d, %v), want 7", n, err)
	}
	if _, err := GetEnvInt("BUBBLEPOP_TEST_BAD_INT", 1); err == nil {
		t.Fatal("GetEnvInt accepted a malformed value")
	}
	if b, err := GetEnvBool("BUBBLEPOP_TEST_BOOL", false); err != nil || !b {
		t.Fatalf("GetEnvBool = (%v, %v), want true", b, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "BUBBLEPOP_TEST_DOTENV=from-file\n")
	t.Setenv("BUBBLEPOP_TEST_DOTENV", "")
	os.Unsetenv("BUBBLEPOP_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BUBBLEPOP_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("variable = %q, want from-file", got)
	}
}

func TestReadTuningFileOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "tuning.yaml", `
mode: endless
pop_reward: 25
spawn:
  interval: 400ms
  max_bubbles: 12
motion:
  fade_step: 0.05
`)
	tuning, err := ReadTuningFile(path)
	if err != nil {
		t.Fatalf("ReadTuningFile: %v", err)
	}
	if tuning.Mode != game.ModeEndless || tuning.PopReward != 25 {
		t.Fatalf("mode=%q reward=%d", tuning.Mode, tuning.PopReward)
	}
	if tuning.Spawn.Interval != 400*time.Millisecond || tuning.Spawn.MaxBubbles != 12 {
		t.Fatalf("spawn = %+v", tuning.Spawn)
	}
	if tuning.Motion.FadeStep != 0.05 {
		t.Fatalf("fade step = %v, want 0.05", tuning.Motion.FadeStep)
	}

	def := game.DefaultTuning()
	if tuning.Spawn.MinSize != def.Spawn.MinSize || tuning.Motion.TickRate != def.Motion.TickRate {
		t.Fatalf("defaults lost: %+v", tuning)
	}
}

func TestLoadTuning(t *testing.T) {
	path := writeFile(t, "tuning.yaml", "duration: 30\n")
	t.Setenv(EnvTuningFile, path)
	t.Setenv(EnvSizeBonus, "true")

	tuning, err := LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.Duration != 30 || !tuning.SizeBonus {
		t.Fatalf("tuning = %+v", tuning)
	}

	t.Setenv(EnvDuration, "90")
	tuning, err = LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.Duration != 90 {
		t.Fatalf("duration override = %d, want 90", tuning.Duration)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing file", env: map[string]string{EnvTuningFile: filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "bad yaml", env: map[string]string{EnvTuningFile: writeFile(t, "bad.yaml", "spawn: [1, 2")}},
		{name: "bad mode", env: map[string]string{EnvMode: "blitz"}},
		{name: "bad duration", env: map[string]string{EnvDuration: "soon"}},
		{name: "zero duration", env: map[string]string{EnvDuration: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadTuning(); err == nil {
				t.Fatal("LoadTuning succeeded, want error")
			}
		})
	}
}
