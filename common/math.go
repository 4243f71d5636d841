package common

import "math"

const (
	// TileSize is the pixel size of one map cell.
	TileSize = 32
	// FramesPerSecond is the fixed update rate of the game loop.
	FramesPerSecond = 60

	// ZIndexModulus separates explicit paint tiers from the y-based ordering
	// inside a tier. A scene taller than ZIndexModulus pixels breaks the
	// ordering between tiers.
	ZIndexModulus = 10000

	// DefaultAnimationSpeed is frames advanced per tick at acceleration 1 (10 fps).
	DefaultAnimationSpeed = 6.0 / FramesPerSecond
)

// RoundHalfUp rounds like a browser Math.round: halves go toward +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
