package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadRockfall("")
	if err != nil {
		t.Fatalf("LoadRockfall: %v", err)
	}
	if cfg != DefaultRockfallConfig() {
		t.Errorf("embedded config differs from DefaultRockfallConfig:\n%+v\n%+v", cfg, DefaultRockfallConfig())
	}
}

func TestLoadCustomPathOverridesKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.yaml")
	data := "gameplay:\n  time_limit: 42\ntiming:\n  queue_limit: 2\n"
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRockfall(p)
	if err != nil {
		t.Fatalf("LoadRockfall: %v", err)
	}
	if cfg.Gameplay.TimeLimit != 42 {
		t.Errorf("TimeLimit = %d, want 42", cfg.Gameplay.TimeLimit)
	}
	if cfg.Timing.QueueLimit != 2 {
		t.Errorf("QueueLimit = %d, want 2", cfg.Timing.QueueLimit)
	}
	if cfg.Gameplay.DiamondScore != DefaultRockfallConfig().Gameplay.DiamondScore {
		t.Errorf("unlisted key lost its default: DiamondScore = %d", cfg.Gameplay.DiamondScore)
	}
}

func TestLoadLocalConfigsDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", ConfigFile), []byte("gameplay:\n  diamond_score: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRockfall("")
	if err != nil {
		t.Fatalf("LoadRockfall: %v", err)
	}
	if cfg.Gameplay.DiamondScore != 25 {
		t.Errorf("DiamondScore = %d, want 25", cfg.Gameplay.DiamondScore)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadRockfall(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("timing: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRockfall(p); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestNormalizedFixesZeroTiming(t *testing.T) {
	var c RockfallConfig
	n := c.normalized()
	def := DefaultRockfallConfig()
	if n.Timing.StepEveryFrames != def.Timing.StepEveryFrames || n.Timing.QueueLimit != def.Timing.QueueLimit {
		t.Errorf("zero timing not replaced: %+v", n.Timing)
	}
	if n.Timing.RepeatWindowMs < n.Timing.HoldTimeoutMs {
		t.Errorf("repeat window %d below hold timeout %d", n.Timing.RepeatWindowMs, n.Timing.HoldTimeoutMs)
	}
}

func TestApplyRockfallPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		enabled   bool
		timeLimit int
	}{
		{DifficultyEasy, true, 225},
		{DifficultyNormal, true, 150},
		{DifficultyHard, true, 112},
		{DifficultyFixed, false, 150},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultRockfallConfig()
			ApplyRockfallPreset(&cfg, tt.preset)
			if cfg.Difficulty.Enabled != tt.enabled {
				t.Errorf("Enabled = %v, want %v", cfg.Difficulty.Enabled, tt.enabled)
			}
			if cfg.Gameplay.TimeLimit != tt.timeLimit {
				t.Errorf("TimeLimit = %d, want %d", cfg.Gameplay.TimeLimit, tt.timeLimit)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset("hard"); !ok || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %v, %v", p, ok)
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("ParsePreset accepted an unknown preset")
	}
}

func TestDifficultyManagerScalesWithDepth(t *testing.T) {
	cfg := DefaultRockfallConfig().Difficulty
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(0, 0); got != 0 {
		t.Errorf("Level(0) = %v, want 0", got)
	}
	if got := dm.Level(cfg.Progression.MaxAt, 0); got != 1 {
		t.Errorf("Level(max) = %v, want 1", got)
	}
	if got := dm.Level(cfg.Progression.MaxAt*5, 0); got != 1 {
		t.Errorf("Level beyond max = %v, want 1", got)
	}

	base := 0.12
	if shallow, deep := dm.BoulderDensity(base, 0, 0), dm.BoulderDensity(base, 10, 0); deep <= shallow {
		t.Errorf("boulder density did not grow: %v -> %v", shallow, deep)
	}
	if shallow, deep := dm.TimeLimit(150, 0, 0), dm.TimeLimit(150, 10, 0); deep >= shallow {
		t.Errorf("time limit did not shrink: %d -> %d", shallow, deep)
	}
	if got := dm.TimeLimit(40, 10, 0); got != 30 {
		t.Errorf("TimeLimit floor = %d, want 30", got)
	}
	if got := dm.DiamondsNeededRatio(0.9, 10, 0); got != 1.0 {
		t.Errorf("ratio clamp = %v, want 1.0", got)
	}
}

func TestDifficultyManagerDisabled(t *testing.T) {
	cfg := DefaultRockfallConfig().Difficulty
	cfg.InitialLevel = 0.3
	dm := NewDifficultyManager(cfg)
	dm.SetEnabled(false)

	if dm.IsEnabled() {
		t.Error("IsEnabled after SetEnabled(false)")
	}
	if got := dm.Level(100, 1000); got != 0.3 {
		t.Errorf("disabled Level = %v, want initial 0.3", got)
	}
}
