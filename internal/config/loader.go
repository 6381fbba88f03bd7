package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name searched for in the config directories.
const ConfigFile = "rockfall.yaml"

// LoadRockfall loads the game configuration.
// Search order: customPath -> ~/.rockfall/configs/rockfall.yaml -> ./configs/rockfall.yaml -> embedded default.
// The first file found is applied on top of the defaults, so a file only
// needs to list the keys it changes.
func LoadRockfall(customPath string) (RockfallConfig, error) {
	cfg := DefaultRockfallConfig()

	// Embedded defaults first; hard-coded values remain if this fails.
	if err := yaml.Unmarshal(defaultRockfallYAML, &cfg); err != nil {
		cfg = DefaultRockfallConfig()
	}

	// Custom path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg.normalized(), nil
	}

	// User config directory, then local configs directory
	for _, p := range []string{userConfigPath(ConfigFile), filepath.Join("configs", ConfigFile)} {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		next := cfg
		if err := yaml.Unmarshal(data, &next); err == nil {
			return next.normalized(), nil
		}
	}

	return cfg.normalized(), nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rockfall", "configs", filename)
}

// normalized replaces unusable values with defaults.
func (c RockfallConfig) normalized() RockfallConfig {
	def := DefaultRockfallConfig()
	if c.Timing.StepEveryFrames < 1 {
		c.Timing.StepEveryFrames = def.Timing.StepEveryFrames
	}
	if c.Timing.TimerEveryFrames < 1 {
		c.Timing.TimerEveryFrames = def.Timing.TimerEveryFrames
	}
	if c.Timing.QueueLimit < 1 {
		c.Timing.QueueLimit = def.Timing.QueueLimit
	}
	if c.Timing.HoldTimeoutMs < 1 {
		c.Timing.HoldTimeoutMs = def.Timing.HoldTimeoutMs
	}
	if c.Timing.RepeatWindowMs < c.Timing.HoldTimeoutMs {
		c.Timing.RepeatWindowMs = c.Timing.HoldTimeoutMs
	}
	if c.Gameplay.TimeLimit < 1 {
		c.Gameplay.TimeLimit = def.Gameplay.TimeLimit
	}
	if c.Generator.Width < 5 {
		c.Generator.Width = def.Generator.Width
	}
	if c.Generator.Height < 5 {
		c.Generator.Height = def.Generator.Height
	}
	return c
}

// ApplyRockfallPreset modifies the config based on a difficulty preset.
func ApplyRockfallPreset(cfg *RockfallConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.TimeLimit = cfg.Gameplay.TimeLimit * 3 / 2
		cfg.Generator.BoulderDensity = clampF(cfg.Generator.BoulderDensity-0.04, 0, 1)
	case DifficultyHard:
		cfg.Gameplay.TimeLimit = cfg.Gameplay.TimeLimit * 3 / 4
		cfg.Generator.BoulderDensity = clampF(cfg.Generator.BoulderDensity+0.05, 0, 1)
	}
}
