package input

import (
	"fmt"
	"time"
)

// EventKind distinguishes pointer phases.
type EventKind uint8

const (
	TouchStart EventKind = iota + 1
	TouchMove
	TouchEnd
)

func (k EventKind) String() string {
	switch k {
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is one pointer sample in screen (viewport) coordinates.
type Event struct {
	Kind      EventKind
	PointerID int
	X, Y      float64
	At        time.Time
}
