package common

import "fmt"

// Direction is one of the four facings an entity can have.
type Direction uint8

const (
	DirNone Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the valid facings in a stable order.
var Directions = [...]Direction{Up, Down, Left, Right}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection converts "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return DirNone, fmt.Errorf("parse %q: %w", s, ErrInvalidDirection)
}

// DirectionFromDelta picks the dominant axis of a movement vector.
// Ties go to the vertical axis.
func DirectionFromDelta(dx, dy float64) Direction {
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Down
	}
	return Up
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
