package engine

import "fmt"

// PointShape is a single coordinate, drawn as a degenerate segment.
type PointShape struct{ base }

func NewPoint(p Position) *PointShape {
	return &PointShape{base: newBase(KindPoint, p)}
}

func (s *PointShape) Draw(sink Sink)       { drawSegment(sink, s.points[0], s.points[0]) }
func (s *PointShape) Clone() Shape         { return &PointShape{base: s.clone()} }
func (s *PointShape) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *PointShape) Center() Position     { return s.points[0] }

// Line is a segment between two endpoints.
type Line struct{ base }

func NewLine(p0, p1 Position) *Line {
	return &Line{base: newBase(KindLine, p0, p1)}
}

func (s *Line) Draw(sink Sink)       { drawSegment(sink, s.points[0], s.points[1]) }
func (s *Line) Clone() Shape         { return &Line{base: s.clone()} }
func (s *Line) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *Line) Center() Position     { return midpoint(s.points) }

// Polyline is an open chain of two or more vertices.
type Polyline struct{ base }

// NewPolyline fails with ErrInvalidArgument for fewer than two vertices.
func NewPolyline(points ...Position) (*Polyline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("polyline needs at least 2 points, got %d: %w", len(points), ErrInvalidArgument)
	}
	return &Polyline{base: newBase(KindPolyline, points...)}, nil
}

func (s *Polyline) Draw(sink Sink)       { drawChain(sink, s.points, false) }
func (s *Polyline) Clone() Shape         { return &Polyline{base: s.clone()} }
func (s *Polyline) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *Polyline) Center() Position     { return midpoint(s.points) }

// ClosedPolyline is a polyline with an extra edge from the last vertex back
// to the first.
type ClosedPolyline struct{ base }

// NewClosedPolyline fails with ErrInvalidArgument for fewer than two vertices.
func NewClosedPolyline(points ...Position) (*ClosedPolyline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("closed polyline needs at least 2 points, got %d: %w", len(points), ErrInvalidArgument)
	}
	return &ClosedPolyline{base: newBase(KindClosedPolyline, points...)}, nil
}

func (s *ClosedPolyline) Draw(sink Sink)       { drawChain(sink, s.points, true) }
func (s *ClosedPolyline) Clone() Shape         { return &ClosedPolyline{base: s.clone()} }
func (s *ClosedPolyline) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *ClosedPolyline) Center() Position     { return midpoint(s.points) }

func drawChain(sink Sink, pts []Position, closed bool) {
	for i := 1; i < len(pts); i++ {
		drawSegment(sink, pts[i-1], pts[i])
	}
	if closed {
		drawSegment(sink, pts[len(pts)-1], pts[0])
	}
}

// Rectangle is an axis-aligned box stored as its top-left and bottom-right
// corners. Squares are Rectangles of kind KindSquare.
type Rectangle struct{ base }

// NewRectangle fails with ErrInvalidArgument unless width and height are positive.
func NewRectangle(topLeft Position, width, height float64) (*Rectangle, error) {
	if !(width > 0) {
		return nil, fmt.Errorf("non-positive width %g: %w", width, ErrInvalidArgument)
	}
	if !(height > 0) {
		return nil, fmt.Errorf("non-positive height %g: %w", height, ErrInvalidArgument)
	}
	return newRectangle(KindRectangle, topLeft, width, height), nil
}

// NewSquare builds a Rectangle with equal sides. It fails with
// ErrInvalidArgument unless size is positive.
func NewSquare(topLeft Position, size float64) (*Rectangle, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("non-positive size %g: %w", size, ErrInvalidArgument)
	}
	return newRectangle(KindSquare, topLeft, size, size), nil
}

func newRectangle(kind Kind, topLeft Position, width, height float64) *Rectangle {
	bottomRight := NewPosition(topLeft.X()+width, topLeft.Y()+height)
	return &Rectangle{base: newBase(kind, topLeft, bottomRight)}
}

func (s *Rectangle) Draw(sink Sink) {
	p0, p1 := s.points[0], s.points[1]
	sink.DrawLine(p0.X(), p0.Y(), p1.X(), p0.Y())
	sink.DrawLine(p0.X(), p0.Y(), p0.X(), p1.Y())
	sink.DrawLine(p1.X(), p1.Y(), p0.X(), p1.Y())
	sink.DrawLine(p1.X(), p1.Y(), p1.X(), p0.Y())
}

func (s *Rectangle) Clone() Shape         { return &Rectangle{base: s.clone()} }
func (s *Rectangle) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *Rectangle) Center() Position     { return midpoint(s.points) }

// Mark is a small "+" centered on its point.
type Mark struct{ base }

func NewMark(center Position) *Mark {
	return &Mark{base: newBase(KindMark, center)}
}

func (s *Mark) Draw(sink Sink) {
	x, y := s.points[0].X(), s.points[0].Y()
	sink.DrawLine(x-1, y, x+1, y)
	sink.DrawLine(x, y-1, x, y+1)
}

func (s *Mark) Clone() Shape         { return &Mark{base: s.clone()} }
func (s *Mark) Apply(m Mapper) Shape { s.apply(m); return s }
func (s *Mark) Center() Position     { return s.points[0] }
