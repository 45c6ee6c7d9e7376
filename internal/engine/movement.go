package engine

import (
	"fmt"
	"strings"
)

// Direction of a pan or zoom step. The zero value means no move has happened yet.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
	DirectionIn
	DirectionOut
)

var directionNames = [...]string{
	DirectionNone:  "",
	DirectionLeft:  "left",
	DirectionRight: "right",
	DirectionUp:    "up",
	DirectionDown:  "down",
	DirectionIn:    "in",
	DirectionOut:   "out",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection is the inverse of Direction.String (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name != "" && name == s {
			return Direction(d), nil
		}
	}
	return DirectionNone, fmt.Errorf("direction %q: %w", s, ErrInvalidArgument)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DirectionNone
		return nil
	}
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Movement accelerates while the same direction is repeated and drops back
// to the minimum speed whenever the direction changes.
type Movement struct {
	minSpeed  float64
	maxSpeed  float64
	direction Direction
	speed     float64
}

// NewMovement requires 0 < minSpeed < maxSpeed.
func NewMovement(minSpeed, maxSpeed float64) (*Movement, error) {
	if !(minSpeed > 0) {
		return nil, fmt.Errorf("non-positive min speed %g: %w", minSpeed, ErrInvalidArgument)
	}
	if !(maxSpeed > minSpeed) {
		return nil, fmt.Errorf("max speed %g not above min speed %g: %w", maxSpeed, minSpeed, ErrInvalidArgument)
	}
	return &Movement{minSpeed: minSpeed, maxSpeed: maxSpeed, speed: minSpeed}, nil
}

func mustMovement(minSpeed, maxSpeed float64) *Movement {
	m, err := NewMovement(minSpeed, maxSpeed)
	if err != nil {
		panic(err)
	}
	return m
}

// Move records a step in direction d.
func (m *Movement) Move(d Direction) {
	if d == m.direction {
		m.increaseSpeed()
		return
	}
	m.direction = d
	m.speed = m.minSpeed
}

func (m *Movement) increaseSpeed() {
	m.speed = min(m.speed+m.minSpeed, m.maxSpeed)
}

func (m *Movement) Direction() Direction { return m.direction }
func (m *Movement) Speed() float64       { return m.speed }
func (m *Movement) MinSpeed() float64    { return m.minSpeed }
func (m *Movement) MaxSpeed() float64    { return m.maxSpeed }

func (m *Movement) clone() *Movement {
	c := *m
	return &c
}
