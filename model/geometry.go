package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Position is an element box in points. The origin is the top-left corner
// of the slide and Y grows downwards, as in the source format. Z is the
// element's index in the slide's drawing order.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Z      int     `json:"z"`
}

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Left returns the left edge X coordinate
func (p Position) Left() float64 {
	return p.X
}

// Right returns the right edge X coordinate
func (p Position) Right() float64 {
	return p.X + p.Width
}

// Top returns the top edge Y coordinate
func (p Position) Top() float64 {
	return p.Y
}

// Bottom returns the bottom edge Y coordinate
func (p Position) Bottom() float64 {
	return p.Y + p.Height
}

// Center returns the center point
func (p Position) Center() Point {
	return Point{
		X: p.X + p.Width/2,
		Y: p.Y + p.Height/2,
	}
}

// Overlaps reports whether the two boxes share a region of positive area.
// Boxes that only touch along an edge do not overlap.
func (p Position) Overlaps(other Position) bool {
	return p.Left() < other.Right() && other.Left() < p.Right() &&
		p.Top() < other.Bottom() && other.Top() < p.Bottom()
}

// Intersection returns the intersection of two boxes
func (p Position) Intersection(other Position) Position {
	if !p.Overlaps(other) {
		return Position{}
	}

	x := math.Max(p.Left(), other.Left())
	y := math.Max(p.Top(), other.Top())
	right := math.Min(p.Right(), other.Right())
	bottom := math.Min(p.Bottom(), other.Bottom())

	return Position{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the smallest box containing both boxes
func (p Position) Union(other Position) Position {
	x := math.Min(p.Left(), other.Left())
	y := math.Min(p.Top(), other.Top())
	right := math.Max(p.Right(), other.Right())
	bottom := math.Max(p.Bottom(), other.Bottom())

	return Position{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
		Z:      p.Z,
	}
}

// Area returns the area of the box
func (p Position) Area() float64 {
	return p.Width * p.Height
}

// OverlapRatio calculates the overlap ratio with another box
// Returns value between 0 and 1
func (p Position) OverlapRatio(other Position) float64 {
	if !p.Overlaps(other) {
		return 0
	}

	minArea := math.Min(p.Area(), other.Area())
	if minArea == 0 {
		return 0
	}

	return p.Intersection(other).Area() / minArea
}

// IsEmpty returns true if the box has zero area
func (p Position) IsEmpty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// Transform maps the box's corners through m and returns the axis-aligned
// box spanning the result.
func (p Position) Transform(m Matrix) Position {
	a := m.Transform(Point{X: p.Left(), Y: p.Top()})
	b := m.Transform(Point{X: p.Right(), Y: p.Bottom()})
	return Position{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
		Z:      p.Z,
	}
}

// Matrix represents a 2D affine transformation matrix
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply multiplies two matrices
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}
