package engine

import (
	"encoding/json"
)

// DrawCommand is a single device-space line segment for a frontend to stroke.
// Shape is the display file index of the shape that drew it, or -1 for the
// viewport frame.
type DrawCommand struct {
	Op    string  `json:"op"`
	Shape int     `json:"shape"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
}

// Recorder is a Sink that keeps every segment it receives, in order.
type Recorder struct {
	Commands []DrawCommand
	shape    int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{shape: -1}
}

// DrawLine implements Sink.
func (r *Recorder) DrawLine(x0, y0, x1, y1 float64) {
	r.Commands = append(r.Commands, DrawCommand{
		Op:    "line",
		Shape: r.shape,
		X0:    x0,
		Y0:    y0,
		X1:    x1,
		Y1:    y1,
	})
}

// SetShape tags subsequent segments with a display file index.
func (r *Recorder) SetShape(index int) {
	r.shape = index
}

// indexedSink is a Sink that wants to know which shape is drawing.
type indexedSink interface {
	Sink
	SetShape(index int)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
