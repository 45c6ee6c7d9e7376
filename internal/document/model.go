package document

// Point is a wire-format coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeSpec describes a shape to create. Rectangle and Square use Points[0]
// as the top-left corner together with Width/Height or Size.
type ShapeSpec struct {
	Kind   string  `json:"kind"`
	Name   string  `json:"name,omitempty"`
	Points []Point `json:"points"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

type TransformType string

const (
	TransformTranslate TransformType = "translate"
	TransformScale     TransformType = "scale"
	TransformRotate    TransformType = "rotate"
)

type PivotType string

const (
	PivotOrigin PivotType = "origin"
	PivotCenter PivotType = "center"
	PivotPoint  PivotType = "point"
)

// TransformStep is one structured transform. Steps in a list are applied
// first to last. Scale and rotate act about Pivot; translate ignores it.
// An empty pivot means "center" for scale and "origin" for rotate.
type TransformStep struct {
	Type  TransformType `json:"type"`
	DX    float64       `json:"dx,omitempty"`
	DY    float64       `json:"dy,omitempty"`
	SX    *float64      `json:"sx,omitempty"`
	SY    *float64      `json:"sy,omitempty"`
	Angle float64       `json:"angle,omitempty"` // radians, counter-clockwise
	Pivot PivotType     `json:"pivot,omitempty"`
	At    *Point        `json:"at,omitempty"` // required when Pivot is "point"
}

// AppliedTransform reports the matrix applied to one display file entry,
// row-major under the row-vector convention.
type AppliedTransform struct {
	Index  int       `json:"index"`
	Matrix []float64 `json:"matrix"`
}

// ShapeView is the read-only projection of a display file entry.
type ShapeView struct {
	Index  int     `json:"index"`
	Kind   string  `json:"kind"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
	Center *Point  `json:"center,omitempty"`
}

type MovementView struct {
	Direction string  `json:"direction"`
	Speed     float64 `json:"speed"`
}

type WindowView struct {
	Min    Point        `json:"min"`
	Max    Point        `json:"max"`
	Center Point        `json:"center"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Pan    MovementView `json:"pan"`
	Zoom   MovementView `json:"zoom"`
}

type ViewportView struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Margin int `json:"margin"`
}

// Scene is a snapshot of a session's display file, window and selection.
type Scene struct {
	Revision  int64        `json:"revision"`
	Shapes    []ShapeView  `json:"shapes"`
	Window    WindowView   `json:"window"`
	Viewport  ViewportView `json:"viewport"`
	Selection []int        `json:"selection"`
}
