package levels

import (
	"fmt"
	"math"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
)

// GenParams configures the procedural level generator.
type GenParams struct {
	Width  int
	Height int

	// Per-cell probabilities for interior tiles. Whatever is left over is empty.
	DirtDensity    float64
	BoulderDensity float64
	DiamondDensity float64
	WallDensity    float64

	DiamondsNeededRatio float64 // Share of placed diamonds required to open the exit
	TimeLimit           int
}

// DefaultGenParams returns sensible defaults for endless mode.
func DefaultGenParams() GenParams {
	return GenParams{
		Width:               32,
		Height:              14,
		DirtDensity:         0.55,
		BoulderDensity:      0.12,
		DiamondDensity:      0.06,
		WallDensity:         0.04,
		DiamondsNeededRatio: 0.6,
		TimeLimit:           150,
	}
}

// SimpleRNG is a deterministic pseudo-random number generator (xorshift64).
type SimpleRNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *SimpleRNG {
	if seed == 0 {
		seed = 88172645463325252 // Default seed
	}
	return &SimpleRNG{state: seed}
}

// Next returns the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Float returns a random float64 in [0, 1).
func (r *SimpleRNG) Float() float64 {
	return float64(r.Next()&0x7FFFFFFFFFFFFFFF) / float64(0x8000000000000000)
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Generate builds a random level. The same params and seed always produce
// the same level.
//
// Layout:
//   - the border is wall
//   - interior cells are rolled against the densities
//   - the player's cell and its four neighbours are dirt so the start is safe
//   - at least one diamond is guaranteed
func Generate(p GenParams, seed uint64) (Level, error) {
	if p.Width < 5 || p.Height < 5 {
		return Level{}, ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("generated map %dx%d is smaller than 5x5", p.Width, p.Height),
		}
	}
	if p.Width > MaxSide || p.Height > MaxSide {
		return Level{}, ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("generated map %dx%d exceeds %d", p.Width, p.Height, MaxSide),
		}
	}

	rng := NewRNG(seed)
	grid := make([][]core.Kind, p.Height)
	for y := range grid {
		grid[y] = make([]core.Kind, p.Width)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == p.Width-1 || y == p.Height-1 {
				grid[y][x] = core.Wall
				continue
			}
			grid[y][x] = rollTile(rng, p)
		}
	}

	player := core.P(1+rng.Intn(p.Width-2), 1+rng.Intn(p.Height-2))
	for _, d := range []core.Dir{core.DirUp, core.DirRight, core.DirDown, core.DirLeft} {
		n := player.Step(d)
		if n.X > 0 && n.Y > 0 && n.X < p.Width-1 && n.Y < p.Height-1 {
			grid[n.Y][n.X] = core.Dirt
		}
	}
	grid[player.Y][player.X] = core.Player

	diamonds := 0
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x] == core.Diamond {
				diamonds++
			}
		}
	}
	if diamonds == 0 {
		for {
			at := core.P(1+rng.Intn(p.Width-2), 1+rng.Intn(p.Height-2))
			if at != player {
				grid[at.Y][at.X] = core.Diamond
				diamonds = 1
				break
			}
		}
	}

	needed := int(math.Round(float64(diamonds) * p.DiamondsNeededRatio))
	if needed < 1 {
		needed = 1
	}
	if needed > diamonds {
		needed = diamonds
	}

	rows := make([]string, p.Height)
	for y := range grid {
		runes := make([]rune, p.Width)
		for x, k := range grid[y] {
			runes[x] = k.Rune()
		}
		rows[y] = string(runes)
	}

	level := Level{
		ID:             fmt.Sprintf("gen-%d", seed),
		Name:           fmt.Sprintf("Cave %d", seed),
		Width:          p.Width,
		Height:         p.Height,
		DiamondsNeeded: needed,
		TimeLimit:      p.TimeLimit,
		Rows:           rows,
		Metadata:       map[string]string{"generated": "true"},
	}
	if err := Validate(level); err != nil {
		return Level{}, err
	}
	return level, nil
}

func rollTile(rng *SimpleRNG, p GenParams) core.Kind {
	r := rng.Float()
	switch {
	case r < p.WallDensity:
		return core.Wall
	case r < p.WallDensity+p.BoulderDensity:
		return core.Boulder
	case r < p.WallDensity+p.BoulderDensity+p.DiamondDensity:
		return core.Diamond
	case r < p.WallDensity+p.BoulderDensity+p.DiamondDensity+p.DirtDensity:
		return core.Dirt
	default:
		return core.Empty
	}
}
