package document

// NewSampleScene returns a small scene that exercises every shape kind.
func NewSampleScene() []ShapeSpec {
	return []ShapeSpec{
		{Kind: "Rectangle", Name: "Frame", Points: []Point{{X: -200, Y: -150}}, Width: 400, Height: 300},
		{Kind: "Square", Points: []Point{{X: 60, Y: 40}}, Size: 80},
		{Kind: "Line", Name: "Diagonal", Points: []Point{{X: -180, Y: -130}, {X: 180, Y: 130}}},
		{Kind: "Polyline", Name: "Zigzag", Points: []Point{
			{X: -160, Y: 100}, {X: -120, Y: 60}, {X: -80, Y: 100}, {X: -40, Y: 60},
		}},
		{Kind: "ClosedPolyline", Name: "Triangle", Points: []Point{
			{X: -100, Y: -100}, {X: -20, Y: -100}, {X: -60, Y: -30},
		}},
		{Kind: "PointShape", Points: []Point{{X: 120, Y: -90}}},
		{Kind: "Mark", Points: []Point{{X: 150, Y: -120}}},
	}
}
