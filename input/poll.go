package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MousePointerID is the pointer id used for mouse-emulated touches. Touch
// ids are shifted by one so they never collide with it.
const MousePointerID = 0

// Poller turns ebiten's polled touch and mouse state into pointer events.
type Poller struct {
	Now func() time.Time

	touchIDs []ebiten.TouchID
	last     map[int][2]float64
}

func NewPoller() *Poller {
	return &Poller{Now: time.Now, last: make(map[int][2]float64)}
}

// Poll returns the events of the current tick: starts, then moves, then ends.
func (p *Poller) Poll() []Event {
	now := p.Now()
	var events []Event

	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		events = append(events, p.start(touchPointer(id), float64(x), float64(y), now))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		events = append(events, p.start(MousePointerID, float64(x), float64(y), now))
	}

	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		if inpututil.IsTouchJustReleased(id) {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		if ev, ok := p.move(touchPointer(id), float64(x), float64(y), now); ok {
			events = append(events, ev)
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if ev, ok := p.move(MousePointerID, float64(x), float64(y), now); ok {
			events = append(events, ev)
		}
	}

	p.touchIDs = inpututil.AppendJustReleasedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		events = append(events, p.end(touchPointer(id), float64(x), float64(y), now))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		events = append(events, p.end(MousePointerID, float64(x), float64(y), now))
	}

	return events
}

func (p *Poller) start(id int, x, y float64, now time.Time) Event {
	p.last[id] = [2]float64{x, y}
	return Event{Kind: TouchStart, PointerID: id, X: x, Y: y, At: now}
}

func (p *Poller) move(id int, x, y float64, now time.Time) (Event, bool) {
	prev, ok := p.last[id]
	if ok && prev[0] == x && prev[1] == y {
		return Event{}, false
	}
	p.last[id] = [2]float64{x, y}
	return Event{Kind: TouchMove, PointerID: id, X: x, Y: y, At: now}, true
}

func (p *Poller) end(id int, x, y float64, now time.Time) Event {
	delete(p.last, id)
	return Event{Kind: TouchEnd, PointerID: id, X: x, Y: y, At: now}
}

func touchPointer(id ebiten.TouchID) int {
	return int(id) + 1
}
