// Package config provides YAML-based game configuration loading and
// difficulty management for Rockfall.
package config

// RockfallConfig contains all configuration for the game.
type RockfallConfig struct {
	Timing     RockfallTiming    `yaml:"timing"`
	Gameplay   RockfallGameplay  `yaml:"gameplay"`
	Generator  RockfallGenerator `yaml:"generator"`
	Difficulty DifficultyConfig  `yaml:"difficulty"`
	Storage    StorageConfig     `yaml:"storage"`
}

// RockfallTiming maps platform frames onto simulation steps.
type RockfallTiming struct {
	StepEveryFrames  int `yaml:"step_every_frames"`  // Frames per physics tick
	TimerEveryFrames int `yaml:"timer_every_frames"` // Frames per countdown second
	QueueLimit       int `yaml:"queue_limit"`        // Max buffered taps
	HoldTimeoutMs    int `yaml:"hold_timeout_ms"`    // Held direction expires after this long without a key repeat
	RepeatWindowMs   int `yaml:"repeat_window_ms"`   // A repeat within this window turns a tap into a hold
}

// RockfallGameplay defines scoring and level defaults.
type RockfallGameplay struct {
	TimeLimit             int `yaml:"time_limit"`              // Seconds, for levels that do not set one
	DiamondScore          int `yaml:"diamond_score"`           // Points per diamond
	TimeBonus             int `yaml:"time_bonus"`              // Points per second left on completion
	DefaultDiamondsNeeded int `yaml:"default_diamonds_needed"` // For levels that do not set one
}

// RockfallGenerator defines the endless-mode cave generator.
type RockfallGenerator struct {
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	DirtDensity         float64 `yaml:"dirt_density"`
	BoulderDensity      float64 `yaml:"boulder_density"`
	DiamondDensity      float64 `yaml:"diamond_density"`
	WallDensity         float64 `yaml:"wall_density"`
	DiamondsNeededRatio float64 `yaml:"diamonds_needed_ratio"`
}

// StorageConfig selects the score database.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // File path for SQLite, or a postgres:// URL
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "depth", "score", or "none"
	MaxAt int    `yaml:"max_at"` // Depth/score at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes at max difficulty.
type ScalingConfig struct {
	BoulderIncrease      float64 `yaml:"boulder_increase"`       // Added to boulder density
	DiamondRatioIncrease float64 `yaml:"diamond_ratio_increase"` // Added to diamonds_needed_ratio
	TimeReduction        int     `yaml:"time_reduction"`         // Seconds taken off the time limit
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
