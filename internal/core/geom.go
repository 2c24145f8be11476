// Package core provides fundamental types for the editor host: geometry,
// a character screen buffer and input actions. It contains no external
// dependencies (especially no Bubble Tea) to keep drawing logic testable.
package core

// Rect represents an axis-aligned rectangle of screen or map cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Follow scrolls the viewport r the minimum amount needed to show (x, y),
// keeping it inside a map of mapW x mapH cells.
func (r Rect) Follow(x, y, mapW, mapH int) Rect {
	if x < r.X {
		r.X = x
	} else if x >= r.Right() {
		r.X = x - r.W + 1
	}
	if y < r.Y {
		r.Y = y
	} else if y >= r.Bottom() {
		r.Y = y - r.H + 1
	}
	r.X = Clamp(r.X, 0, max(0, mapW-r.W))
	r.Y = Clamp(r.Y, 0, max(0, mapH-r.H))
	return r
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Wrap returns val modulo n in the range [0, n).
func Wrap(val, n int) int {
	if n <= 0 {
		return 0
	}
	return ((val % n) + n) % n
}
