package engine

import (
	"fmt"
	"math"
)

// DefaultMargin is the inset of the frame drawn around the viewport.
const DefaultMargin = 10

// Key is a navigation key forwarded to the viewport.
type Key int

const (
	KeyLeft Key = iota + 1
	KeyRight
	KeyUp
	KeyDown
)

// ParseKey accepts "left", "right", "up" and "down", with or without an
// "Arrow" prefix.
func ParseKey(s string) (Key, error) {
	switch s {
	case "left", "Left", "ArrowLeft":
		return KeyLeft, nil
	case "right", "Right", "ArrowRight":
		return KeyRight, nil
	case "up", "Up", "ArrowUp":
		return KeyUp, nil
	case "down", "Down", "ArrowDown":
		return KeyDown, nil
	}
	return 0, fmt.Errorf("key %q: %w", s, ErrInvalidArgument)
}

// Viewport maps the world region shown by its Window onto a square device
// surface and renders a display file onto a Sink.
type Viewport struct {
	size         int
	margin       int
	window       *Window
	displayFile  *DisplayFile
	invalidators []func()
}

// ViewportOption configures a Viewport.
type ViewportOption func(*Viewport)

// WithMargin sets the frame inset. Zero disables the frame.
func WithMargin(margin int) ViewportOption {
	return func(v *Viewport) { v.margin = margin }
}

// WithCenterMark adds a Mark at the world origin to the display file.
func WithCenterMark() ViewportOption {
	return func(v *Viewport) {
		v.displayFile.Add(NewMark(NewPosition(0, 0)))
	}
}

// NewViewport creates a square viewport of min(contentWidth, contentHeight)
// pixels whose window is centered at the origin. The window is two units
// smaller than the device so the outermost pixels stay inside the surface.
func NewViewport(contentWidth, contentHeight int, df *DisplayFile, opts ...ViewportOption) (*Viewport, error) {
	size := min(contentWidth, contentHeight)
	windowSize := float64(size - 2)

	window, err := NewWindow(NewPosition(-windowSize/2, -windowSize/2), windowSize, windowSize)
	if err != nil {
		return nil, fmt.Errorf("viewport %dx%d: %w", contentWidth, contentHeight, err)
	}

	v := &Viewport{
		size:        size,
		margin:      DefaultMargin,
		window:      window,
		displayFile: df,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *Viewport) Width() int                { return v.size }
func (v *Viewport) Height() int               { return v.size }
func (v *Viewport) Margin() int               { return v.margin }
func (v *Viewport) Window() *Window           { return v.window }
func (v *Viewport) DisplayFile() *DisplayFile { return v.displayFile }

// OnInvalidate registers fn to run after every pan or zoom.
func (v *Viewport) OnInvalidate(fn func()) {
	v.invalidators = append(v.invalidators, fn)
}

func (v *Viewport) invalidate() {
	for _, fn := range v.invalidators {
		fn()
	}
}

// Map converts a world position to device pixel coordinates.
func (v *Viewport) Map(p Position) Position {
	n := v.window.Normalize(p)
	x := math.RoundToEven(n.X() * float64(v.Width()))
	y := math.RoundToEven(n.Y() * float64(v.Height()))
	return NewPosition(x, y)
}

// Render draws the margin frame and every shape of the display file onto
// sink. Stored shapes are never modified.
func (v *Viewport) Render(sink Sink) {
	indexed, _ := sink.(indexedSink)
	if indexed != nil {
		indexed.SetShape(-1)
	}
	v.drawMargin(sink)

	mapper := MapperFunc(v.Map)
	for i, s := range v.displayFile.All() {
		if indexed != nil {
			indexed.SetShape(i)
		}
		WithTransform(s, mapper).Draw(sink)
	}
}

func (v *Viewport) drawMargin(sink Sink) {
	if v.margin <= 0 {
		return
	}
	m := float64(v.margin)
	frame := newRectangle(KindRectangle, NewPosition(m, m), float64(v.Width())-2*m, float64(v.Height())-2*m)
	frame.Draw(sink)
}

// Move pans or zooms the window one step in direction d.
func (v *Viewport) Move(d Direction) {
	v.window.Move(d)
	v.invalidate()
}

// ZoomIn zooms in one step and reports whether the window changed. A
// rejected zoom leaves the viewport valid.
func (v *Viewport) ZoomIn() bool {
	ok := v.window.ZoomIn()
	if ok {
		v.invalidate()
	}
	return ok
}

// ZoomOut zooms out one step.
func (v *Viewport) ZoomOut() {
	v.window.ZoomOut()
	v.invalidate()
}

// HandleKey pans the window in the direction of an arrow key.
func (v *Viewport) HandleKey(k Key) {
	switch k {
	case KeyLeft:
		v.Move(DirectionLeft)
	case KeyRight:
		v.Move(DirectionRight)
	case KeyUp:
		v.Move(DirectionUp)
	case KeyDown:
		v.Move(DirectionDown)
	}
}

// HandleWheel zooms in for a positive vertical delta and out otherwise.
func (v *Viewport) HandleWheel(deltaY int) {
	if deltaY > 0 {
		v.ZoomIn()
		return
	}
	v.ZoomOut()
}
