// Package geom holds the 2D image-space primitives shared by the projector,
// the crop shape builder and the compositor. Coordinates are in pixels with
// the origin at the top-left corner and Y growing downward.
package geom

import "math"

// Point is a 2D image-space point (value type, stack-allocated).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Size is a viewport size in pixels.
type Size struct {
	W, H float64
}

// Rect returns the rectangle anchored at the origin with this size.
func (s Size) Rect() Rect {
	return Rect{Max: Point{s.W, s.H}}
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle [Min, Max).
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies inside r. Like image.Rectangle the
// rectangle is half-open: the Max edges are outside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Corners returns the four corners clockwise from Min:
// top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
}
