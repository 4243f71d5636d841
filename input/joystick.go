package input

import (
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilewalk/common"
)

// Mode is the controller's top-level state.
type Mode uint8

const (
	// Idle waits for a touch.
	Idle Mode = iota
	// Joysticking tracks one steering touch.
	Joysticking
	// Interacting ignores pointers until Resume is called. The owner enters
	// it with Suspend once an interaction actually starts.
	Interacting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Joysticking:
		return "joysticking"
	case Interacting:
		return "interacting"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Session is the data of one steering touch.
type Session struct {
	PointerID int
	Start     cp.Vector
	Velocity  cp.Vector
	Acc       float64
}

// State is the full controller state. Session is only meaningful while
// Joysticking.
type State struct {
	Mode    Mode
	Session Session
}

// EffectKind names what the owner of a Joystick must do after a transition.
type EffectKind uint8

const (
	StartTick EffectKind = iota + 1
	StopTick
	StopPlayer
	Face
	Animate
	// Lookup asks the owner to look for something to interact with. The
	// state is left as it was, so a running session keeps steering when
	// nothing is found.
	Lookup
)

// Effect is one instruction produced by Transition.
type Effect struct {
	Kind   EffectKind
	Facing common.Direction
	Acc    float64
}

// Transition is the pure controller step function.
func Transition(cfg Config, s State, ev Event) (State, []Effect) {
	switch s.Mode {
	case Idle:
		if ev.Kind != TouchStart {
			return s, nil
		}
		if ev.X < cfg.ViewWidth/2 {
			return startSession(ev), []Effect{{Kind: StartTick}}
		}
		return s, []Effect{{Kind: Lookup}}

	case Joysticking:
		switch ev.Kind {
		case TouchStart:
			if ev.X < cfg.ViewWidth/2 {
				return s, nil
			}
			return s, []Effect{{Kind: Lookup}}
		case TouchMove:
			if ev.PointerID != s.Session.PointerID {
				return s, nil
			}
			return steer(cfg, s, ev)
		case TouchEnd:
			if ev.PointerID != s.Session.PointerID {
				return s, nil
			}
			return State{Mode: Idle}, []Effect{{Kind: StopPlayer}, {Kind: StopTick}}
		}
	}
	return s, nil
}

func startSession(ev Event) State {
	return State{
		Mode: Joysticking,
		Session: Session{
			PointerID: ev.PointerID,
			Start:     cp.Vector{X: ev.X, Y: ev.Y},
		},
	}
}

func steer(cfg Config, s State, ev Event) (State, []Effect) {
	diff := cp.Vector{X: ev.X, Y: ev.Y}.Sub(s.Session.Start)
	distance := diff.Length()
	acc := cfg.AccelerationFor(distance)
	if distance == 0 || acc == 0 {
		s.Session.Velocity = cp.Vector{}
		s.Session.Acc = 0
		return s, []Effect{{Kind: StopPlayer}}
	}

	vel := cp.Vector{
		X: common.RoundHalfUp(diff.X * acc / distance),
		Y: common.RoundHalfUp(diff.Y * acc / distance),
	}
	s.Session.Velocity = vel
	s.Session.Acc = acc
	return s, []Effect{
		{Kind: Face, Facing: common.DirectionFromDelta(vel.X, vel.Y)},
		{Kind: Animate, Acc: acc},
	}
}

// Joystick wraps Transition with move throttling.
type Joystick struct {
	cfg      Config
	state    State
	throttle Throttle
}

func NewJoystick(cfg Config) *Joystick {
	return &Joystick{cfg: cfg, throttle: Throttle{Interval: cfg.MoveInterval}}
}

func (j *Joystick) Config() Config { return j.cfg }

func (j *Joystick) State() State { return j.state }

func (j *Joystick) Mode() Mode { return j.state.Mode }

// Velocity is the per-tick displacement of the active session.
func (j *Joystick) Velocity() cp.Vector {
	if j.state.Mode != Joysticking {
		return cp.Vector{}
	}
	return j.state.Session.Velocity
}

// Handle feeds one pointer event and returns the resulting effects.
func (j *Joystick) Handle(ev Event) []Effect {
	if ev.Kind == TouchMove {
		if j.state.Mode != Joysticking || ev.PointerID != j.state.Session.PointerID {
			return nil
		}
		var ok bool
		if ev, ok = j.throttle.Offer(ev); !ok {
			return nil
		}
	}
	next, effects := Transition(j.cfg, j.state, ev)
	if next.Mode != Joysticking {
		j.throttle.Drop()
	}
	j.state = next
	return effects
}

// Flush releases a throttled move whose window has passed.
func (j *Joystick) Flush(now time.Time) []Effect {
	ev, ok := j.throttle.Flush(now)
	if !ok {
		return nil
	}
	next, effects := Transition(j.cfg, j.state, ev)
	j.state = next
	return effects
}

// Suspend drops any session and ignores pointers until Resume.
func (j *Joystick) Suspend() {
	j.state = State{Mode: Interacting}
	j.throttle.Drop()
}

// Resume leaves Interacting and waits for the next touch.
func (j *Joystick) Resume() {
	j.Reset()
}

// Reset drops any session.
func (j *Joystick) Reset() {
	j.state = State{Mode: Idle}
	j.throttle.Drop()
}

// Speed is the length of the current velocity.
func (j *Joystick) Speed() float64 {
	return j.Velocity().Length()
}
