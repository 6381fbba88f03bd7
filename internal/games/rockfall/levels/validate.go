package levels

import (
	"fmt"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
)

// MaxSide is the largest accepted map width or height.
const MaxSide = 256

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks that a level can produce a playable world:
//   - rectangular map of sane size
//   - only known tiles
//   - exactly one player
//   - enough diamonds for the requirement
//   - non-negative time limit
func Validate(l Level) error {
	if l.Height < 1 || l.Width < 1 || l.Height > MaxSide || l.Width > MaxSide {
		return ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("map is %dx%d, want between 1x1 and %dx%d", l.Width, l.Height, MaxSide, MaxSide),
		}
	}

	players := 0
	diamonds := 0
	for y, row := range l.Rows {
		runes := []rune(row)
		if len(runes) != l.Width {
			return ValidationError{
				Code:    "RAGGED_ROWS",
				Message: fmt.Sprintf("row %d has width %d, expected %d", y, len(runes), l.Width),
			}
		}
		for x, r := range runes {
			k, ok := core.ParseKind(r)
			if !ok {
				return ValidationError{
					Code:    "UNKNOWN_TILE",
					Message: fmt.Sprintf("unknown tile %q at (%d,%d)", r, x, y),
				}
			}
			switch k {
			case core.Player:
				players++
			case core.Diamond:
				diamonds++
			}
		}
	}

	if players == 0 {
		return ValidationError{Code: "NO_PLAYER", Message: "map has no player"}
	}
	if players > 1 {
		return ValidationError{
			Code:    "MULTIPLE_PLAYERS",
			Message: fmt.Sprintf("map has %d players", players),
		}
	}
	if l.DiamondsNeeded > diamonds {
		return ValidationError{
			Code:    "NOT_ENOUGH_DIAMONDS",
			Message: fmt.Sprintf("needs %d diamonds but map has %d", l.DiamondsNeeded, diamonds),
		}
	}
	if l.TimeLimit < 0 {
		return ValidationError{
			Code:    "BAD_TIME_LIMIT",
			Message: fmt.Sprintf("time limit %d is negative", l.TimeLimit),
		}
	}

	return nil
}
