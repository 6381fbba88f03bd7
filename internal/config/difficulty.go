package config

import "math"

// DifficultyManager scales endless-mode parameters as the run goes deeper.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
// depth counts completed caves; score is the running total.
func (d *DifficultyManager) Level(depth int, score int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "depth":
		progress = float64(depth) / maxAt
	case "score":
		progress = float64(score) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// BoulderDensity returns the boulder density for the next cave.
func (d *DifficultyManager) BoulderDensity(base float64, depth, score int) float64 {
	level := d.Level(depth, score)
	return clampF(base+level*d.cfg.Scaling.BoulderIncrease, 0.0, 0.5)
}

// DiamondsNeededRatio returns the share of diamonds required to open the exit.
func (d *DifficultyManager) DiamondsNeededRatio(base float64, depth, score int) float64 {
	level := d.Level(depth, score)
	return clampF(base+level*d.cfg.Scaling.DiamondRatioIncrease, 0.1, 1.0)
}

// TimeLimit returns the time limit for the next cave.
func (d *DifficultyManager) TimeLimit(base int, depth, score int) int {
	level := d.Level(depth, score)
	result := base - int(level*float64(d.cfg.Scaling.TimeReduction))
	if result < 30 { // Minimum playable time
		result = 30
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
