package sdfatlas

import "math"

// Point is a 2D point with float64 precision, used throughout distance
// field generation.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul returns p * scalar.
func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// LengthSquared returns the squared length, avoiding a sqrt.
func (p Point) LengthSquared() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Normalized returns a unit vector in the same direction, or the zero
// vector if p has zero length.
func (p Point) Normalized() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return Point{p.X / length, p.Y / length}
}

// Perpendicular returns p rotated 90 degrees counter-clockwise.
func (p Point) Perpendicular() Point {
	return Point{-p.Y, p.X}
}

// Lerp returns the linear interpolation p + t*(q-p).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		p.X + t*(q.X-p.X),
		p.Y + t*(q.Y-p.Y),
	}
}

// Angle returns the angle of the vector in radians, in (-pi, pi].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// AngleBetween returns the angle between two vectors in radians, in [0, pi].
func AngleBetween(a, b Point) float64 {
	dot := a.Dot(b)
	lenA := a.Length()
	lenB := b.Length()
	if lenA == 0 || lenB == 0 {
		return 0
	}
	cosAngle := dot / (lenA * lenB)
	if cosAngle > 1 {
		cosAngle = 1
	}
	if cosAngle < -1 {
		cosAngle = -1
	}
	return math.Acos(cosAngle)
}

// Rect is an axis-aligned rectangle in outline coordinate space.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		(r.MinX + r.MaxX) / 2,
		(r.MinY + r.MaxY) / 2,
	}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand returns a rectangle expanded by margin on all sides.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinY: r.MinY - margin,
		MaxX: r.MaxX + margin,
		MaxY: r.MaxY + margin,
	}
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		MinX: min(r.MinX, s.MinX),
		MinY: min(r.MinY, s.MinY),
		MaxX: max(r.MaxX, s.MaxX),
		MaxY: max(r.MaxY, s.MaxY),
	}
}

// SignedDistance is a signed distance to an edge, with a dot-product
// tiebreaker for resolving ambiguous equidistant cases.
type SignedDistance struct {
	// Distance is the signed Euclidean distance; negative is inside.
	Distance float64
	// Dot is the dot product used to break ties between equal distances.
	Dot float64
}

// NewSignedDistance creates a signed distance with the given tiebreaker.
func NewSignedDistance(distance, dot float64) SignedDistance {
	return SignedDistance{Distance: distance, Dot: dot}
}

// Infinite returns a signed distance representing "no edge found".
func Infinite() SignedDistance {
	return SignedDistance{Distance: math.MaxFloat64, Dot: 0}
}

// IsCloserThan reports whether d is closer to its edge than other is to its.
func (d SignedDistance) IsCloserThan(other SignedDistance) bool {
	absD := math.Abs(d.Distance)
	absO := math.Abs(other.Distance)
	if absD < absO {
		return true
	}
	if absD > absO {
		return false
	}
	return d.Dot < other.Dot
}

// Combine returns whichever of d, other is closer to its edge.
func (d SignedDistance) Combine(other SignedDistance) SignedDistance {
	if d.IsCloserThan(other) {
		return d
	}
	return other
}
