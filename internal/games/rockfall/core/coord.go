package core

import "fmt"

// Pos represents a 2D coordinate on the grid.
// X increases to the right, Y increases downward (screen coordinates).
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Pos offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Step returns a new Pos one step in the given direction.
func (p Pos) Step(d Dir) Pos {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Below returns the position directly underneath.
func (p Pos) Below() Pos {
	return Pos{X: p.X, Y: p.Y + 1}
}
