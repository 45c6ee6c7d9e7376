package engine

import (
	"fmt"
	"iter"
)

// EventKind describes a display file mutation.
type EventKind int

const (
	EventInserted EventKind = iota
	EventRemoved
	EventChanged
)

func (k EventKind) String() string {
	switch k {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventChanged:
		return "changed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to observers after a mutation has been applied.
type Event struct {
	Kind  EventKind
	Index int
}

// Observer receives display file events synchronously.
type Observer func(Event)

// DisplayFile is the ordered list of shapes in a scene. It owns the shapes
// it holds; callers must not keep mutating a shape after adding it.
type DisplayFile struct {
	shapes    []Shape
	observers map[int]Observer
	nextObs   int
}

// NewDisplayFile creates an empty display file.
func NewDisplayFile() *DisplayFile {
	return &DisplayFile{observers: make(map[int]Observer)}
}

// Subscribe registers o and returns a function that unregisters it.
func (d *DisplayFile) Subscribe(o Observer) (cancel func()) {
	id := d.nextObs
	d.nextObs++
	d.observers[id] = o
	return func() { delete(d.observers, id) }
}

func (d *DisplayFile) notify(kind EventKind, index int) {
	ev := Event{Kind: kind, Index: index}
	for id := 0; id < d.nextObs; id++ {
		if o, ok := d.observers[id]; ok {
			o(ev)
		}
	}
}

func (d *DisplayFile) check(index int) error {
	if index < 0 || index >= len(d.shapes) {
		return fmt.Errorf("index %d out of range [0, %d): %w", index, len(d.shapes), ErrPreconditionViolation)
	}
	return nil
}

// Len returns the number of shapes.
func (d *DisplayFile) Len() int { return len(d.shapes) }

// At returns the shape at index.
func (d *DisplayFile) At(index int) (Shape, error) {
	if err := d.check(index); err != nil {
		return nil, err
	}
	return d.shapes[index], nil
}

// Add appends s and returns its index.
func (d *DisplayFile) Add(s Shape) int {
	d.shapes = append(d.shapes, s)
	index := len(d.shapes) - 1
	d.notify(EventInserted, index)
	return index
}

// RemoveAt deletes the shape at index; later shapes shift down by one.
func (d *DisplayFile) RemoveAt(index int) (Shape, error) {
	if err := d.check(index); err != nil {
		return nil, err
	}
	removed := d.shapes[index]
	d.shapes = append(d.shapes[:index], d.shapes[index+1:]...)
	d.notify(EventRemoved, index)
	return removed, nil
}

// Replace swaps the shape at index for s and hands the old one back.
func (d *DisplayFile) Replace(index int, s Shape) (Shape, error) {
	if err := d.check(index); err != nil {
		return nil, err
	}
	old := d.shapes[index]
	d.shapes[index] = s
	d.notify(EventChanged, index)
	return old, nil
}

// Rename changes the display name of the shape at index in place.
func (d *DisplayFile) Rename(index int, name string) error {
	if err := d.check(index); err != nil {
		return err
	}
	d.shapes[index].Rename(name)
	d.notify(EventChanged, index)
	return nil
}

// All yields the shapes present when iteration starts, in index order.
func (d *DisplayFile) All() iter.Seq2[int, Shape] {
	return func(yield func(int, Shape) bool) {
		snapshot := append([]Shape(nil), d.shapes...)
		for i, s := range snapshot {
			if !yield(i, s) {
				return
			}
		}
	}
}
