package engine

import (
	"fmt"

	"github.com/igs/igs/internal/document"
)

// BuildShape constructs a shape from its wire description.
func BuildShape(r *Registry, spec document.ShapeSpec) (Shape, error) {
	points := make([]Position, len(spec.Points))
	for i, p := range spec.Points {
		points[i] = NewPosition(p.X, p.Y)
	}

	s, err := r.Build(Kind(spec.Kind), ShapeParams{
		Points: points,
		Width:  spec.Width,
		Height: spec.Height,
		Size:   spec.Size,
	})
	if err != nil {
		return nil, err
	}
	if spec.Name != "" {
		s.Rename(spec.Name)
	}
	return s, nil
}

// BuildTransform composes steps, in order, into one transform for target.
// Steps pivoting on the shape's center need target to provide one.
func BuildTransform(target Shape, steps []document.TransformStep) (*Transform, error) {
	parts := make([]*Transform, 0, len(steps))
	for i, step := range steps {
		t, err := buildStep(target, step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		parts = append(parts, t)
	}
	return Combine(parts...), nil
}

func buildStep(target Shape, step document.TransformStep) (*Transform, error) {
	switch step.Type {
	case document.TransformTranslate:
		return Translation(step.DX, step.DY), nil

	case document.TransformScale:
		sx, sy := 1.0, 1.0
		if step.SX != nil {
			sx = *step.SX
		}
		if step.SY != nil {
			sy = *step.SY
		}
		return pivoted(target, step, document.PivotCenter, Scaling(sx, sy))

	case document.TransformRotate:
		return pivoted(target, step, document.PivotOrigin, Rotation(step.Angle))

	default:
		return nil, fmt.Errorf("transform type %q: %w", step.Type, ErrInvalidArgument)
	}
}

func pivoted(target Shape, step document.TransformStep, fallback document.PivotType, t *Transform) (*Transform, error) {
	pivot := step.Pivot
	if pivot == "" {
		pivot = fallback
	}

	switch pivot {
	case document.PivotOrigin:
		return t, nil
	case document.PivotCenter:
		c, err := CenterOf(target)
		if err != nil {
			return nil, err
		}
		return About(c, t), nil
	case document.PivotPoint:
		if step.At == nil {
			return nil, fmt.Errorf("pivot point missing: %w", ErrInvalidArgument)
		}
		return About(NewPosition(step.At.X, step.At.Y), t), nil
	default:
		return nil, fmt.Errorf("pivot %q: %w", pivot, ErrInvalidArgument)
	}
}

func viewPoint(p Position) document.Point {
	return document.Point{X: p.X(), Y: p.Y()}
}

// ViewShape projects s for the wire.
func ViewShape(index int, s Shape) document.ShapeView {
	pts := s.Points()
	view := document.ShapeView{
		Index:  index,
		Kind:   string(s.Kind()),
		Name:   s.Name(),
		Points: make([]document.Point, len(pts)),
	}
	for i, p := range pts {
		view.Points[i] = viewPoint(p)
	}
	if c, err := CenterOf(s); err == nil {
		cp := viewPoint(c)
		view.Center = &cp
	}
	return view
}

// ViewWindow projects w for the wire.
func ViewWindow(w *Window) document.WindowView {
	lo, hi := w.Corners()
	return document.WindowView{
		Min:    viewPoint(lo),
		Max:    viewPoint(hi),
		Center: viewPoint(w.Center()),
		Width:  w.Width(),
		Height: w.Height(),
		Pan:    document.MovementView{Direction: w.Pan().Direction().String(), Speed: w.Pan().Speed()},
		Zoom:   document.MovementView{Direction: w.Zoom().Direction().String(), Speed: w.Zoom().Speed()},
	}
}
