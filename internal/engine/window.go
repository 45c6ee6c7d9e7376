package engine

// Default speed ranges for window movement.
const (
	PanMinSpeed  = 1.0
	PanMaxSpeed  = 10.0
	ZoomMinSpeed = 0.01
	ZoomMaxSpeed = 0.10

	// minZoomExtent is the smallest width or height a zoom-in may produce.
	minZoomExtent = 1.0
)

// Window is the visible region of world space: a rectangle (min corner,
// max corner) that can pan and zoom with accelerating speed.
type Window struct {
	box  *Rectangle
	pan  *Movement
	zoom *Movement
}

// NewWindow creates a window whose min corner is at corner. It fails with
// ErrInvalidArgument unless width and height are positive.
func NewWindow(corner Position, width, height float64) (*Window, error) {
	box, err := NewRectangle(corner, width, height)
	if err != nil {
		return nil, err
	}
	box.Rename("Window")
	return &Window{
		box:  box,
		pan:  mustMovement(PanMinSpeed, PanMaxSpeed),
		zoom: mustMovement(ZoomMinSpeed, ZoomMaxSpeed),
	}, nil
}

// Clone returns an independent copy including movement state.
func (w *Window) Clone() *Window {
	return &Window{
		box:  w.box.Clone().(*Rectangle),
		pan:  w.pan.clone(),
		zoom: w.zoom.clone(),
	}
}

// Apply transforms both corners in place and returns the receiver.
func (w *Window) Apply(m Mapper) *Window {
	w.box.Apply(m)
	return w
}

func (w *Window) XMin() float64 { return w.box.PointAt(0).X() }
func (w *Window) XMax() float64 { return w.box.PointAt(1).X() }
func (w *Window) YMin() float64 { return w.box.PointAt(0).Y() }
func (w *Window) YMax() float64 { return w.box.PointAt(1).Y() }

func (w *Window) Width() float64  { return w.XMax() - w.XMin() }
func (w *Window) Height() float64 { return w.YMax() - w.YMin() }

// Center returns the midpoint of the two corners.
func (w *Window) Center() Position {
	return NewPosition(w.XMin()+w.Width()/2, w.YMin()+w.Height()/2)
}

// Corners returns the min and max corners.
func (w *Window) Corners() (Position, Position) {
	return w.box.PointAt(0), w.box.PointAt(1)
}

// Pan returns the pan movement state.
func (w *Window) Pan() *Movement { return w.pan }

// Zoom returns the zoom movement state.
func (w *Window) Zoom() *Movement { return w.zoom }

// Normalize maps p into the window's unit square. The y axis is flipped
// because device rows grow downward while world y grows upward.
func (w *Window) Normalize(p Position) Position {
	x := (p.X() - w.XMin()) / w.Width()
	y := 1 - (p.Y()-w.YMin())/w.Height()
	return NewPosition(x, y)
}

func (w *Window) MoveLeft()  { w.move(DirectionLeft, -w.pan.Speed(), 0) }
func (w *Window) MoveRight() { w.move(DirectionRight, w.pan.Speed(), 0) }
func (w *Window) MoveUp()    { w.move(DirectionUp, 0, w.pan.Speed()) }
func (w *Window) MoveDown()  { w.move(DirectionDown, 0, -w.pan.Speed()) }

// Move dispatches to the pan method for d. In and Out zoom.
func (w *Window) Move(d Direction) {
	switch d {
	case DirectionLeft:
		w.MoveLeft()
	case DirectionRight:
		w.MoveRight()
	case DirectionUp:
		w.MoveUp()
	case DirectionDown:
		w.MoveDown()
	case DirectionIn:
		w.ZoomIn()
	case DirectionOut:
		w.ZoomOut()
	}
}

func (w *Window) move(d Direction, dx, dy float64) {
	w.Apply(Translation(dx, dy))
	w.pan.Move(d)
}

// TryZoom returns a copy of the window scaled by rate about its center.
// The receiver is not modified.
func (w *Window) TryZoom(rate float64) *Window {
	return w.Clone().Apply(About(w.Center(), Scaling(rate, rate)))
}

// ZoomIn shrinks the window by the current zoom speed. The step is rejected
// only when both the new width and the new height would fall below 1, so a
// single axis may end up thinner than that. It reports whether the zoom was
// committed.
func (w *Window) ZoomIn() bool {
	candidate := w.TryZoom(1 - w.zoom.Speed())
	if candidate.Width() < minZoomExtent && candidate.Height() < minZoomExtent {
		return false
	}
	w.box = candidate.box
	w.zoom.Move(DirectionIn)
	return true
}

// ZoomOut grows the window by the current zoom speed.
func (w *Window) ZoomOut() {
	candidate := w.TryZoom(1 + w.zoom.Speed())
	w.box = candidate.box
	w.zoom.Move(DirectionOut)
}
