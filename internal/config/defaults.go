package config

import (
	_ "embed"
)

//go:embed defaults/rockfall.yaml
var defaultRockfallYAML []byte

// DefaultRockfallConfig returns the hard-coded default configuration.
// It matches defaults/rockfall.yaml.
func DefaultRockfallConfig() RockfallConfig {
	return RockfallConfig{
		Timing: RockfallTiming{
			StepEveryFrames:  6,
			TimerEveryFrames: 60,
			QueueLimit:       4,
			HoldTimeoutMs:    150,
			RepeatWindowMs:   600,
		},
		Gameplay: RockfallGameplay{
			TimeLimit:             150,
			DiamondScore:          10,
			TimeBonus:             1,
			DefaultDiamondsNeeded: 5,
		},
		Generator: RockfallGenerator{
			Width:               32,
			Height:              14,
			DirtDensity:         0.55,
			BoulderDensity:      0.12,
			DiamondDensity:      0.06,
			WallDensity:         0.04,
			DiamondsNeededRatio: 0.6,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "depth",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				BoulderIncrease:      0.10,
				DiamondRatioIncrease: 0.3,
				TimeReduction:        60,
			},
		},
	}
}
