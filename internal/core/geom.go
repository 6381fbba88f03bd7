// Package core provides fundamental types and utilities for the platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect represents an axis-aligned rectangle on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Centered returns a w x h rectangle centered inside r.
// If the rectangle does not fit it is anchored at r's top-left corner.
func (r Rect) Centered(w, h int) Rect {
	x := r.X + Max(0, (r.W-w)/2)
	y := r.Y + Max(0, (r.H-h)/2)
	return Rect{X: x, Y: y, W: Min(w, r.W), H: Min(h, r.H)}
}

// ScrollOffset returns the first visible world coordinate along one axis so
// that focus stays inside a view of size view over a world of size world.
// Worlds that fit entirely are not scrolled.
func ScrollOffset(focus, world, view int) int {
	if view <= 0 || world <= view {
		return 0
	}
	return Clamp(focus-view/2, 0, world-view)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
