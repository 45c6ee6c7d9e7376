package engine

import (
	"fmt"
	"slices"

	"github.com/igs/igs/internal/document"
)

// Options configures a new Engine.
type Options struct {
	Width      int  // drawable content width in pixels
	Height     int  // drawable content height in pixels
	Margin     int  // viewport frame inset; zero disables it
	CenterMark bool // add a Mark at the world origin
	Registry   *Registry
}

// Engine owns one scene: its display file, the viewport looking at it and
// the current selection. It processes commands and keeps the last rendered
// frame until something changes. An Engine is not safe for concurrent use.
type Engine struct {
	registry    *Registry
	displayFile *DisplayFile
	viewport    *Viewport

	selection []int

	frame    []DrawCommand
	revision int64
	dirty    bool
}

// NewEngine creates an engine with an empty display file.
func NewEngine(opts Options) (*Engine, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	df := NewDisplayFile()
	vpOpts := []ViewportOption{WithMargin(opts.Margin)}
	if opts.CenterMark {
		vpOpts = append(vpOpts, WithCenterMark())
	}
	vp, err := NewViewport(opts.Width, opts.Height, df, vpOpts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		registry:    reg,
		displayFile: df,
		viewport:    vp,
		dirty:       true,
	}
	df.Subscribe(e.onDisplayFileEvent)
	vp.OnInvalidate(e.invalidate)
	return e, nil
}

func (e *Engine) invalidate() {
	e.dirty = true
	e.revision++
}

func (e *Engine) onDisplayFileEvent(ev Event) {
	if ev.Kind == EventRemoved {
		kept := e.selection[:0]
		for _, i := range e.selection {
			switch {
			case i < ev.Index:
				kept = append(kept, i)
			case i > ev.Index:
				kept = append(kept, i-1)
			}
		}
		e.selection = kept
	}
	e.invalidate()
}

// --- Commands ---

// AddShape builds a shape from spec and appends it to the display file.
func (e *Engine) AddShape(spec document.ShapeSpec) (int, error) {
	s, err := BuildShape(e.registry, spec)
	if err != nil {
		return 0, err
	}
	return e.displayFile.Add(s), nil
}

// LoadShapes adds every spec in order. It stops at the first invalid spec.
func (e *Engine) LoadShapes(specs []document.ShapeSpec) error {
	for i, spec := range specs {
		if _, err := e.AddShape(spec); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return nil
}

// RemoveShape deletes the shape at index.
func (e *Engine) RemoveShape(index int) error {
	_, err := e.displayFile.RemoveAt(index)
	return err
}

// RenameShape sets the display name of the shape at index.
func (e *Engine) RenameShape(index int, name string) error {
	return e.displayFile.Rename(index, name)
}

// TransformShapes applies steps to each indexed shape, replacing it with a
// transformed clone. A nil indices slice targets the current selection.
// Either every target is transformed or none is. Targets whose composed
// transform is the identity are left untouched and not reported.
func (e *Engine) TransformShapes(indices []int, steps []document.TransformStep) ([]document.AppliedTransform, error) {
	if indices == nil {
		indices = e.selection
	}
	indices = slices.Clone(indices)
	slices.Sort(indices)
	indices = slices.Compact(indices)

	type pending struct {
		index int
		t     *Transform
		shape Shape
	}
	var todo []pending
	for _, i := range indices {
		s, err := e.displayFile.At(i)
		if err != nil {
			return nil, err
		}
		t, err := BuildTransform(s, steps)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		if t.IsIdentity() {
			continue
		}
		todo = append(todo, pending{index: i, t: t, shape: WithTransform(s, t)})
	}

	applied := make([]document.AppliedTransform, 0, len(todo))
	for _, p := range todo {
		if _, err := e.displayFile.Replace(p.index, p.shape); err != nil {
			return nil, err
		}
		applied = append(applied, document.AppliedTransform{Index: p.index, Matrix: p.t.ToSlice()})
	}
	return applied, nil
}

// SetSelection replaces the selection. Every index must be in range.
func (e *Engine) SetSelection(indices []int) error {
	for _, i := range indices {
		if _, err := e.displayFile.At(i); err != nil {
			return err
		}
	}
	sel := slices.Clone(indices)
	slices.Sort(sel)
	e.selection = slices.Compact(sel)
	return nil
}

// Move pans or zooms the window one step.
func (e *Engine) Move(d Direction) {
	e.viewport.Move(d)
}

// ZoomIn zooms in one step and reports whether the window changed.
func (e *Engine) ZoomIn() bool {
	return e.viewport.ZoomIn()
}

// ZoomOut zooms out one step.
func (e *Engine) ZoomOut() {
	e.viewport.ZoomOut()
}

// HandleKey forwards an arrow key to the viewport.
func (e *Engine) HandleKey(k Key) {
	e.viewport.HandleKey(k)
}

// HandleWheel forwards a wheel delta to the viewport.
func (e *Engine) HandleWheel(deltaY int) {
	e.viewport.HandleWheel(deltaY)
}

// --- Queries ---

// Render returns the device-space segments for the current state. The
// result is cached until the display file or window changes.
func (e *Engine) Render() []DrawCommand {
	if e.dirty {
		rec := NewRecorder()
		e.viewport.Render(rec)
		e.frame = rec.Commands
		e.dirty = false
	}
	return e.frame
}

// RenderJSON returns Render serialized to JSON.
func (e *Engine) RenderJSON() string {
	result, _ := DrawCommandsToJSON(e.Render())
	return result
}

// RenderTo draws the current state onto sink without touching the cache.
func (e *Engine) RenderTo(sink Sink) {
	e.viewport.Render(sink)
}

// Scene returns a snapshot of the display file, window and selection.
func (e *Engine) Scene() document.Scene {
	shapes := make([]document.ShapeView, 0, e.displayFile.Len())
	for i, s := range e.displayFile.All() {
		shapes = append(shapes, ViewShape(i, s))
	}
	return document.Scene{
		Revision: e.revision,
		Shapes:   shapes,
		Window:   ViewWindow(e.viewport.Window()),
		Viewport: document.ViewportView{
			Width:  e.viewport.Width(),
			Height: e.viewport.Height(),
			Margin: e.viewport.Margin(),
		},
		Selection: e.Selection(),
	}
}

// Selection returns a copy of the selected indices.
func (e *Engine) Selection() []int {
	return append([]int{}, e.selection...)
}

// Revision increases on every change to the display file or window.
func (e *Engine) Revision() int64 { return e.revision }

func (e *Engine) DisplayFile() *DisplayFile { return e.displayFile }
func (e *Engine) Viewport() *Viewport       { return e.viewport }
func (e *Engine) Registry() *Registry       { return e.registry }
