package core

import (
	"fmt"
	"strings"
)

// RenderASCII creates an ASCII representation of the state.
// Used by tests, debug logging and the headless sim command.
//
// Format: one header line, then the grid using the level-file legend.
func RenderASCII(s *State) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tick: %d | Diamonds: %d/%d | Time: %d | Exit: %v | %s\n",
		s.Ticks, s.DiamondsCollected, s.DiamondsNeeded, s.TimeLeft, s.ExitSpawned, s.Status))
	sb.WriteString(RenderGrid(s.World))

	return sb.String()
}

// RenderGrid renders only the grid, one line per row.
// Empty cells are written as '_' so that rows keep their width.
func RenderGrid(w *World) string {
	var sb strings.Builder
	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			k := w.cells[y*w.W+x]
			if k == Empty {
				sb.WriteRune('_')
				continue
			}
			sb.WriteRune(k.Rune())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParseGrid builds a world from rows written in the level-file legend.
// All rows must have the same width.
func ParseGrid(rows []string) (*World, error) {
	if len(rows) == 0 {
		return NewWorld(0, 0), nil
	}
	width := len([]rune(rows[0]))
	w := NewWorld(width, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", y, len(runes), width)
		}
		for x, r := range runes {
			k, ok := ParseKind(r)
			if !ok {
				return nil, fmt.Errorf("unknown tile %q at %v", r, P(x, y))
			}
			if k == Empty {
				continue
			}
			if _, err := w.Place(P(x, y), k); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}
