package engine

import (
	"fmt"
	"slices"
)

// ShapeParams carries the inputs a shape constructor may need. Rectangles
// and squares take their top-left corner from Points[0].
type ShapeParams struct {
	Points []Position
	Width  float64
	Height float64
	Size   float64
}

// Constructor builds a shape from params.
type Constructor func(p ShapeParams) (Shape, error)

// Registry maps shape kinds to constructors. Create one per process with
// DefaultRegistry and pass it to whatever builds shapes.
type Registry struct {
	ctors map[Kind]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[Kind]Constructor)}
}

// DefaultRegistry returns a registry with every built-in shape kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindPoint, func(p ShapeParams) (Shape, error) {
		if err := wantPoints(KindPoint, p, 1); err != nil {
			return nil, err
		}
		return NewPoint(p.Points[0]), nil
	})
	r.Register(KindLine, func(p ShapeParams) (Shape, error) {
		if err := wantPoints(KindLine, p, 2); err != nil {
			return nil, err
		}
		return NewLine(p.Points[0], p.Points[1]), nil
	})
	r.Register(KindPolyline, func(p ShapeParams) (Shape, error) {
		return NewPolyline(p.Points...)
	})
	r.Register(KindClosedPolyline, func(p ShapeParams) (Shape, error) {
		return NewClosedPolyline(p.Points...)
	})
	r.Register(KindRectangle, func(p ShapeParams) (Shape, error) {
		if err := wantPoints(KindRectangle, p, 1); err != nil {
			return nil, err
		}
		return NewRectangle(p.Points[0], p.Width, p.Height)
	})
	r.Register(KindSquare, func(p ShapeParams) (Shape, error) {
		if err := wantPoints(KindSquare, p, 1); err != nil {
			return nil, err
		}
		return NewSquare(p.Points[0], p.Size)
	})
	r.Register(KindMark, func(p ShapeParams) (Shape, error) {
		if err := wantPoints(KindMark, p, 1); err != nil {
			return nil, err
		}
		return NewMark(p.Points[0]), nil
	})
	return r
}

func wantPoints(kind Kind, p ShapeParams, n int) error {
	if len(p.Points) != n {
		return fmt.Errorf("%s takes %d point(s), got %d: %w", kind, n, len(p.Points), ErrInvalidArgument)
	}
	return nil
}

// Register adds or replaces the constructor for kind.
func (r *Registry) Register(kind Kind, c Constructor) {
	r.ctors[kind] = c
}

// Build constructs a shape of the given kind.
func (r *Registry) Build(kind Kind, p ShapeParams) (Shape, error) {
	c, ok := r.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	return c(p)
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.ctors))
	for k := range r.ctors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
