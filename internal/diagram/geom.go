package diagram

import "math"

// Point is a 2D coordinate. X grows to the right and Y grows downward in both
// screen and canvas space.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Div returns p divided by s. A zero divisor leaves p untouched.
func (p Point) Div(s float64) Point {
	if s == 0 {
		return p
	}
	return Point{p.X / s, p.Y / s}
}

// Rect is an axis-aligned rectangle with non-negative width and height.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Intersects is an inclusive overlap test: touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.Left <= o.Right() && o.Left <= r.Right() &&
		r.Top <= o.Bottom() && o.Top <= r.Bottom()
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// RectFromPoints builds the normalized rectangle spanned by two corners,
// whichever direction they were dragged in.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

// enclose returns the smallest rectangle containing every point.
func enclose(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
