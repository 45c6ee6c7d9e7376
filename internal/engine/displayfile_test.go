package engine

import (
	"errors"
	"testing"
)

func pointAt(x float64) Shape { return NewPoint(NewPosition(x, 0)) }

func recordEvents(d *DisplayFile) *[]Event {
	var events []Event
	d.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func xs(t *testing.T, d *DisplayFile) []float64 {
	t.Helper()
	var out []float64
	for _, s := range d.All() {
		out = append(out, s.PointAt(0).X())
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddAppends(t *testing.T) {
	d := NewDisplayFile()
	events := recordEvents(d)

	for i := 0; i < 3; i++ {
		if got := d.Add(pointAt(float64(i))); got != i {
			t.Errorf("Add returned %d, want %d", got, i)
		}
		if d.Len() != i+1 {
			t.Errorf("Len = %d, want %d", d.Len(), i+1)
		}
	}

	want := []Event{{EventInserted, 0}, {EventInserted, 1}, {EventInserted, 2}}
	if len(*events) != len(want) {
		t.Fatalf("events = %v, want %v", *events, want)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, (*events)[i], want[i])
		}
	}
}

func TestRemoveAtShiftsDown(t *testing.T) {
	d := NewDisplayFile()
	for i := 0; i < 4; i++ {
		d.Add(pointAt(float64(i)))
	}
	events := recordEvents(d)

	removed, err := d.RemoveAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed.PointAt(0).X() != 1 {
		t.Errorf("removed %v, want shape 1", removed)
	}
	if d.Len() != 3 {
		t.Errorf("Len = %d, want 3", d.Len())
	}
	if got := xs(t, d); !equalFloats(got, []float64{0, 2, 3}) {
		t.Errorf("order = %v, want [0 2 3]", got)
	}
	if len(*events) != 1 || (*events)[0] != (Event{EventRemoved, 1}) {
		t.Errorf("events = %v", *events)
	}
}

func TestReplaceHandsBackOldShape(t *testing.T) {
	d := NewDisplayFile()
	orig := pointAt(1)
	d.Add(orig)
	events := recordEvents(d)

	old, err := d.Replace(0, WithTransform(orig, Translation(5, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if old != orig {
		t.Error("Replace should return the outgoing shape")
	}
	if got := xs(t, d); !equalFloats(got, []float64{6}) {
		t.Errorf("contents = %v, want [6]", got)
	}
	if len(*events) != 1 || (*events)[0] != (Event{EventChanged, 0}) {
		t.Errorf("events = %v", *events)
	}
}

func TestRenameKeepsShapeObject(t *testing.T) {
	d := NewDisplayFile()
	s := pointAt(0)
	d.Add(s)
	events := recordEvents(d)

	if err := d.Rename(0, "origin"); err != nil {
		t.Fatal(err)
	}
	got, _ := d.At(0)
	if got != s || got.Name() != "origin" {
		t.Errorf("At(0) = %v named %q", got, got.Name())
	}
	if len(*events) != 1 || (*events)[0] != (Event{EventChanged, 0}) {
		t.Errorf("events = %v", *events)
	}
}

func TestOutOfRangeIndex(t *testing.T) {
	d := NewDisplayFile()
	d.Add(pointAt(0))
	events := recordEvents(d)

	checks := map[string]error{
		"At(-1)":      func() error { _, err := d.At(-1); return err }(),
		"At(1)":       func() error { _, err := d.At(1); return err }(),
		"RemoveAt(5)": func() error { _, err := d.RemoveAt(5); return err }(),
		"Replace(1)":  func() error { _, err := d.Replace(1, pointAt(9)); return err }(),
		"Rename(-3)":  d.Rename(-3, "x"),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrPreconditionViolation) {
			t.Errorf("%s err = %v, want ErrPreconditionViolation", name, err)
		}
	}
	if d.Len() != 1 || len(*events) != 0 {
		t.Errorf("failed calls mutated state: len=%d events=%v", d.Len(), *events)
	}
}

func TestObserverSeesPostMutationState(t *testing.T) {
	d := NewDisplayFile()
	var lens []int
	d.Subscribe(func(Event) { lens = append(lens, d.Len()) })

	d.Add(pointAt(0))
	d.Add(pointAt(1))
	d.RemoveAt(0)
	if len(lens) != 3 || lens[0] != 1 || lens[1] != 2 || lens[2] != 1 {
		t.Errorf("lengths seen by observer = %v, want [1 2 1]", lens)
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDisplayFile()
	calls := 0
	cancel := d.Subscribe(func(Event) { calls++ })
	d.Add(pointAt(0))
	cancel()
	d.Add(pointAt(1))
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestAllIsSnapshotAndRestartable(t *testing.T) {
	d := NewDisplayFile()
	d.Add(pointAt(0))
	d.Add(pointAt(1))

	seen := 0
	for range d.All() {
		if seen == 0 {
			d.Add(pointAt(2))
		}
		seen++
	}
	if seen != 2 {
		t.Errorf("iteration saw %d shapes, want 2 (snapshot)", seen)
	}
	if got := xs(t, d); !equalFloats(got, []float64{0, 1, 2}) {
		t.Errorf("second iteration = %v, want [0 1 2]", got)
	}
}
