// Package core provides the grid physics and turn-resolution engine for Rockfall.
// This package is UI-agnostic and deterministic: the same level and the same
// sequence of intents always produce the same sequence of states.
package core

// Kind is the typed value occupying one grid coordinate.
type Kind uint8

const (
	Empty Kind = iota
	Wall
	Dirt
	Boulder
	Diamond
	Player
	Exit
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Wall:
		return "Wall"
	case Dirt:
		return "Dirt"
	case Boulder:
		return "Boulder"
	case Diamond:
		return "Diamond"
	case Player:
		return "Player"
	case Exit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Rune returns the ASCII map character for a kind.
// The same characters are accepted by ParseKind and used in level files.
func (k Kind) Rune() rune {
	switch k {
	case Empty:
		return ' '
	case Wall:
		return '#'
	case Dirt:
		return '.'
	case Boulder:
		return 'o'
	case Diamond:
		return '*'
	case Player:
		return 'P'
	case Exit:
		return 'E'
	default:
		return '?'
	}
}

// ParseKind converts a map character to a kind.
// Both 'o' and 'O' denote a boulder; '_' is accepted as an alternative to space
// so that trailing empty cells survive editors that strip whitespace.
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case ' ', '_':
		return Empty, true
	case '#':
		return Wall, true
	case '.':
		return Dirt, true
	case 'o', 'O':
		return Boulder, true
	case '*':
		return Diamond, true
	case 'P', 'p':
		return Player, true
	case 'E', 'e':
		return Exit, true
	default:
		return Empty, false
	}
}

// IsLoose reports whether the kind is subject to gravity and rolling.
func (k Kind) IsLoose() bool {
	return k == Boulder || k == Diamond
}

// Dir represents one of the four cardinal directions.
// DirNone is the zero value and means "no direction held".
type Dir uint8

const (
	DirNone Dir = iota
	DirUp
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirNone:
		return "None"
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// DirFromDelta converts a unit cardinal vector to a direction.
// Any vector with |dx|+|dy| != 1 is rejected.
func DirFromDelta(dx, dy int) (Dir, bool) {
	switch {
	case dx == 0 && dy == -1:
		return DirUp, true
	case dx == 1 && dy == 0:
		return DirRight, true
	case dx == 0 && dy == 1:
		return DirDown, true
	case dx == -1 && dy == 0:
		return DirLeft, true
	default:
		return DirNone, false
	}
}

// ParseDir converts a move letter (U/R/D/L, case-insensitive) to a direction.
func ParseDir(r rune) (Dir, bool) {
	switch r {
	case 'U', 'u':
		return DirUp, true
	case 'R', 'r':
		return DirRight, true
	case 'D', 'd':
		return DirDown, true
	case 'L', 'l':
		return DirLeft, true
	default:
		return DirNone, false
	}
}
