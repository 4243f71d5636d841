package input

import "time"

// Config tunes the joystick.
type Config struct {
	// ViewWidth splits the viewport: touches left of ViewWidth/2 steer,
	// touches right of it interact.
	ViewWidth float64
	// DeadZone is the drag distance below which the player stands still.
	DeadZone float64
	// FullSpeedDistance is the drag distance at which FullAcc applies.
	FullSpeedDistance float64
	PartialAcc        float64
	FullAcc           float64
	// MoveInterval is the minimum spacing between processed move events.
	MoveInterval time.Duration
}

// DefaultConfig returns the tuning used when no game spec overrides it.
func DefaultConfig(viewWidth float64) Config {
	return Config{
		ViewWidth:         viewWidth,
		DeadZone:          10,
		FullSpeedDistance: 50,
		PartialAcc:        2,
		FullAcc:           3,
		MoveInterval:      50 * time.Millisecond,
	}
}

// AccelerationFor maps a drag distance to a speed tier: zero inside the
// dead zone, PartialAcc up to FullSpeedDistance and FullAcc beyond.
func (c Config) AccelerationFor(distance float64) float64 {
	switch {
	case distance < c.DeadZone:
		return 0
	case distance < c.FullSpeedDistance:
		return c.PartialAcc
	default:
		return c.FullAcc
	}
}
