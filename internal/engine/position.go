package engine

import (
	"encoding/json"
	"fmt"
)

// Position is an immutable point in 2D space.
type Position struct {
	x, y float64
}

// NewPosition creates a Position.
func NewPosition(x, y float64) Position {
	return Position{x: x, y: y}
}

// X returns the horizontal coordinate.
func (p Position) X() float64 { return p.x }

// Y returns the vertical coordinate.
func (p Position) Y() float64 { return p.y }

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.x, p.y)
}

type positionJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarshalJSON encodes the position as {"x": .., "y": ..}.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{X: p.x, Y: p.y})
}

// UnmarshalJSON decodes {"x": .., "y": ..}.
func (p *Position) UnmarshalJSON(data []byte) error {
	var v positionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.x, p.y = v.X, v.Y
	return nil
}

// midpoint returns the center of the axis-aligned box spanned by pts.
func midpoint(pts []Position) Position {
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.x)
		minY = min(minY, p.y)
		maxX = max(maxX, p.x)
		maxY = max(maxY, p.y)
	}
	return Position{x: (minX + maxX) / 2, y: (minY + maxY) / 2}
}
