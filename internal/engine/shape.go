package engine

import "fmt"

// Kind identifies a shape variant.
type Kind string

const (
	KindPoint          Kind = "PointShape"
	KindLine           Kind = "Line"
	KindPolyline       Kind = "Polyline"
	KindClosedPolyline Kind = "ClosedPolyline"
	KindRectangle      Kind = "Rectangle"
	KindSquare         Kind = "Square"
	KindMark           Kind = "Mark"
)

// Sink receives the line segments a shape draws. Coordinates are whatever
// space the shape's points are in at draw time; the viewport maps them to
// device pixels before drawing.
type Sink interface {
	DrawLine(x0, y0, x1, y1 float64)
}

// Shape is a geometric entity made of an ordered list of points.
type Shape interface {
	Kind() Kind
	Name() string
	Rename(name string)

	// Len returns the number of points.
	Len() int
	// PointAt returns the i-th point. It panics if i is out of range.
	PointAt(i int) Position
	// Points returns a copy of the point list.
	Points() []Position

	Draw(sink Sink)
	// Clone returns a deep copy of the shape.
	Clone() Shape
	// Apply replaces every point p with m.Map(p) in place and returns the receiver.
	Apply(m Mapper) Shape
}

// Centerer is implemented by shapes that have a natural center.
type Centerer interface {
	Center() Position
}

// CenterOf returns the center of s, or ErrNoCenter if s does not provide one.
func CenterOf(s Shape) (Position, error) {
	c, ok := s.(Centerer)
	if !ok {
		return Position{}, fmt.Errorf("%s %q: %w", s.Kind(), s.Name(), ErrNoCenter)
	}
	return c.Center(), nil
}

// WithTransform returns a transformed clone of s, leaving s untouched.
func WithTransform(s Shape, m Mapper) Shape {
	return s.Clone().Apply(m)
}

// base holds the state shared by every shape variant.
type base struct {
	kind   Kind
	name   string
	points []Position
}

func newBase(kind Kind, points ...Position) base {
	return base{
		kind:   kind,
		name:   string(kind),
		points: append([]Position(nil), points...),
	}
}

func (b *base) Kind() Kind         { return b.kind }
func (b *base) Name() string       { return b.name }
func (b *base) Rename(name string) { b.name = name }
func (b *base) Len() int           { return len(b.points) }

func (b *base) PointAt(i int) Position {
	if i < 0 || i >= len(b.points) {
		panic(fmt.Sprintf("engine: point index %d out of range [0, %d)", i, len(b.points)))
	}
	return b.points[i]
}

func (b *base) Points() []Position {
	return append([]Position(nil), b.points...)
}

func (b *base) clone() base {
	return base{kind: b.kind, name: b.name, points: b.Points()}
}

func (b *base) apply(m Mapper) {
	for i, p := range b.points {
		b.points[i] = m.Map(p)
	}
}

func (b *base) String() string {
	return fmt.Sprintf("%s %v", b.name, b.points)
}

func drawSegment(sink Sink, p0, p1 Position) {
	sink.DrawLine(p0.X(), p0.Y(), p1.X(), p1.Y())
}
