package sdfatlas

import (
	"math"

	"github.com/Xarvie/ray-text/text"
)

// Contour is a closed sequence of edges. A glyph outline typically
// contains one contour per closed path.
type Contour struct {
	Edges []Edge

	// Winding is positive for counter-clockwise (filled) contours and
	// negative for clockwise (hole) contours.
	Winding float64
}

// NewContour creates an empty contour.
func NewContour() *Contour {
	return &Contour{Edges: make([]Edge, 0)}
}

// AddEdge appends an edge to the contour.
func (c *Contour) AddEdge(e Edge) {
	c.Edges = append(c.Edges, e)
}

// Bounds returns the bounding box of all edges in the contour.
func (c *Contour) Bounds() Rect {
	if len(c.Edges) == 0 {
		return Rect{}
	}
	bounds := c.Edges[0].Bounds()
	for i := 1; i < len(c.Edges); i++ {
		bounds = bounds.Union(c.Edges[i].Bounds())
	}
	return bounds
}

// CalculateWinding computes the signed area via the shoelace formula and
// stores it as Winding.
func (c *Contour) CalculateWinding() {
	var area float64
	for i := range c.Edges {
		p0 := c.Edges[i].StartPoint()
		p1 := c.Edges[i].EndPoint()
		area += p0.Cross(p1)
	}
	c.Winding = area / 2
}

// IsClockwise reports whether the contour winds clockwise.
func (c *Contour) IsClockwise() bool {
	return c.Winding < 0
}

// Clone returns a deep copy of the contour.
func (c *Contour) Clone() *Contour {
	clone := &Contour{
		Edges:   make([]Edge, len(c.Edges)),
		Winding: c.Winding,
	}
	for i := range c.Edges {
		clone.Edges[i] = c.Edges[i].Clone()
	}
	return clone
}

// Shape is a complete glyph outline, made of one or more contours, used
// as the input to signed-distance-field generation.
type Shape struct {
	Contours []*Contour
	Bounds   Rect
}

// NewShape creates an empty shape.
func NewShape() *Shape {
	return &Shape{Contours: make([]*Contour, 0)}
}

// AddContour appends a contour to the shape.
func (s *Shape) AddContour(c *Contour) {
	s.Contours = append(s.Contours, c)
}

// CalculateBounds computes and stores the shape's overall bounding box.
func (s *Shape) CalculateBounds() {
	if len(s.Contours) == 0 {
		s.Bounds = Rect{}
		return
	}
	s.Bounds = s.Contours[0].Bounds()
	for i := 1; i < len(s.Contours); i++ {
		s.Bounds = s.Bounds.Union(s.Contours[i].Bounds())
	}
}

// Validate reports whether every contour is closed (its last edge ends
// where its first edge starts).
func (s *Shape) Validate() bool {
	for _, contour := range s.Contours {
		if len(contour.Edges) == 0 {
			continue
		}
		first := contour.Edges[0].StartPoint()
		last := contour.Edges[len(contour.Edges)-1].EndPoint()

		dx := math.Abs(first.X - last.X)
		dy := math.Abs(first.Y - last.Y)
		if dx > 1e-6 || dy > 1e-6 {
			return false
		}
	}
	return true
}

// EdgeCount returns the total number of edges across all contours.
func (s *Shape) EdgeCount() int {
	count := 0
	for _, c := range s.Contours {
		count += len(c.Edges)
	}
	return count
}

// FromOutline converts a rasterizer-independent glyph outline into a
// Shape suitable for distance field generation.
func FromOutline(outline *text.GlyphOutline) *Shape {
	if outline == nil || len(outline.Segments) == 0 {
		return NewShape()
	}

	shape := NewShape()
	var currentContour *Contour
	var currentPos Point

	for _, seg := range outline.Segments {
		switch seg.Op {
		case text.OutlineOpMoveTo:
			if currentContour != nil && len(currentContour.Edges) > 0 {
				currentContour.CalculateWinding()
				shape.AddContour(currentContour)
			}
			currentContour = NewContour()
			currentPos = Point{
				X: float64(seg.Points[0].X),
				Y: float64(seg.Points[0].Y),
			}

		case text.OutlineOpLineTo:
			if currentContour == nil {
				currentContour = NewContour()
			}
			endPoint := Point{
				X: float64(seg.Points[0].X),
				Y: float64(seg.Points[0].Y),
			}
			if endPoint.Sub(currentPos).LengthSquared() > 1e-12 {
				currentContour.AddEdge(NewLinearEdge(currentPos, endPoint))
			}
			currentPos = endPoint

		case text.OutlineOpQuadTo:
			if currentContour == nil {
				currentContour = NewContour()
			}
			controlPoint := Point{
				X: float64(seg.Points[0].X),
				Y: float64(seg.Points[0].Y),
			}
			endPoint := Point{
				X: float64(seg.Points[1].X),
				Y: float64(seg.Points[1].Y),
			}
			currentContour.AddEdge(NewQuadraticEdge(currentPos, controlPoint, endPoint))
			currentPos = endPoint

		case text.OutlineOpCubicTo:
			if currentContour == nil {
				currentContour = NewContour()
			}
			control1 := Point{
				X: float64(seg.Points[0].X),
				Y: float64(seg.Points[0].Y),
			}
			control2 := Point{
				X: float64(seg.Points[1].X),
				Y: float64(seg.Points[1].Y),
			}
			endPoint := Point{
				X: float64(seg.Points[2].X),
				Y: float64(seg.Points[2].Y),
			}
			currentContour.AddEdge(NewCubicEdge(currentPos, control1, control2, endPoint))
			currentPos = endPoint
		}
	}

	if currentContour != nil && len(currentContour.Edges) > 0 {
		currentContour.CalculateWinding()
		shape.AddContour(currentContour)
	}

	shape.CalculateBounds()
	return shape
}
