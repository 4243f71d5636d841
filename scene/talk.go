package scene

import (
	"context"
	"fmt"
	"math"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/obj"
)

type talk struct {
	speaker *obj.Object
	lines   []string
	idx     int
	box     DialogBox
	lastX   float64
	done    func()
}

// FindInteraction returns the first object the player faces and touches,
// or nil when there is none.
func (s *Scene) FindInteraction() (*obj.Object, error) {
	if s.player == nil {
		return nil, fmt.Errorf("scene %s find interaction: no player: %w", s.name, common.ErrNoActiveContext)
	}
	p, err := s.player.CollisionArea()
	if err != nil {
		return nil, err
	}
	dir := s.player.Direction()
	for _, o := range s.objects {
		if o == s.player {
			continue
		}
		area, err := o.CollisionArea()
		if err != nil {
			return nil, err
		}
		if s.faces(dir, p, area) {
			return o, nil
		}
	}
	return nil, nil
}

func (s *Scene) faces(dir common.Direction, p, o common.Rect) bool {
	pcx, pcy := p.Center()
	ocx, ocy := o.Center()
	switch dir {
	case common.Down:
		return math.Abs(pcx-ocx) < s.centerTolerance && math.Abs(p.Bottom()-o.Y) < s.edgeThreshold
	case common.Up:
		return math.Abs(pcx-ocx) < s.centerTolerance && math.Abs(o.Bottom()-p.Y) < s.edgeThreshold
	case common.Left:
		return math.Abs(pcy-ocy) < s.centerTolerance && math.Abs(o.Right()-p.X) < s.edgeThreshold
	case common.Right:
		return math.Abs(pcy-ocy) < s.centerTolerance && math.Abs(p.Right()-o.X) < s.edgeThreshold
	}
	return false
}

// Interact runs the reaction of the object the player faces. When nothing
// is found the controller is left untouched. Once a target is found the
// controller is suspended, and re-armed again if no talk comes of it.
func (s *Scene) Interact(ctx context.Context) error {
	target, err := s.FindInteraction()
	if err != nil {
		return err
	}
	if target == nil {
		s.log.Debug("nothing to interact with")
		return nil
	}
	if err := s.suspend(); err != nil {
		s.rearm()
		return err
	}
	lines, err := target.React(ctx, s.player.Direction())
	if err != nil {
		s.rearm()
		return fmt.Errorf("interact with %s: %w", target.Name(), err)
	}
	if len(lines) == 0 {
		s.rearm()
		return nil
	}
	if err := s.Talk(target, lines, nil); err != nil {
		s.rearm()
		return fmt.Errorf("interact with %s: %w", target.Name(), err)
	}
	return nil
}

func (s *Scene) suspend() error {
	if s.joystick != nil {
		s.joystick.Suspend()
	}
	s.ticking = false
	return s.stopPlayer()
}

func (s *Scene) rearm() {
	if s.joystick != nil {
		s.joystick.Resume()
	}
}

// Talk shows lines one dialog at a time next to speaker. Each dismissal
// advances to the next line; after the last one the camera is restored,
// control goes back to the player and done is called.
func (s *Scene) Talk(speaker *obj.Object, lines []string, done func()) error {
	if s.dialogs == nil || s.stage == nil {
		return fmt.Errorf("talk %s: %w", speaker.Name(), common.ErrNoActiveContext)
	}
	if s.status == StatusTalking {
		return fmt.Errorf("talk %s: %w", speaker.Name(), common.ErrBusy)
	}
	if len(lines) == 0 {
		if done != nil {
			done()
		}
		return nil
	}
	if _, err := speaker.Width(); err != nil {
		return fmt.Errorf("talk %s: %w", speaker.Name(), err)
	}
	s.status = StatusTalking
	s.ticking = false
	s.talk = &talk{
		speaker: speaker,
		lines:   lines,
		done:    done,
	}
	s.talk.lastX, _ = s.container.Position()
	if err := s.openLine(); err != nil {
		s.status = StatusIdle
		s.talk = nil
		return fmt.Errorf("talk %s: %w", speaker.Name(), err)
	}
	s.log.WithField("speaker", speaker.Name()).WithField("lines", len(lines)).Debug("talk started")
	return nil
}

func (s *Scene) openLine() error {
	t := s.talk
	w, err := t.speaker.Width()
	if err != nil {
		return err
	}
	t.box = s.dialogs.Open(t.speaker, t.lines[t.idx], s.view)

	_, y := s.container.Position()
	x := t.lastX
	half := t.box.Width() / 2
	speakerX := t.speaker.GlobalPos().X
	if s.view.W-speakerX < half {
		x = t.lastX - t.box.Width()
	} else if speakerX+w > half {
		x = t.lastX - half
	}
	s.container.SetPosition(x, y)
	return nil
}

// Talking returns the speaker and the line on screen.
func (s *Scene) Talking() (*obj.Object, string, bool) {
	if s.talk == nil {
		return nil, "", false
	}
	return s.talk.speaker, s.talk.lines[s.talk.idx], true
}

// Dismiss closes the current dialog and shows the next line, or ends the
// conversation.
func (s *Scene) Dismiss() error {
	t := s.talk
	if s.status != StatusTalking || t == nil {
		return fmt.Errorf("scene %s dismiss: not talking: %w", s.name, common.ErrNoActiveContext)
	}
	t.box.Close()
	_, y := s.container.Position()
	s.container.SetPosition(t.lastX, y)

	t.idx++
	if t.idx < len(t.lines) {
		return s.openLine()
	}

	s.status = StatusIdle
	s.talk = nil
	s.log.WithField("speaker", t.speaker.Name()).Debug("talk finished")
	var err error
	if s.player != nil {
		err = s.Control(s.player)
	}
	if t.done != nil {
		t.done()
	}
	return err
}
