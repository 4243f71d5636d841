package scene

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/input"
	"github.com/milk9111/tilewalk/obj"
)

// Control hands the joystick to player. It fails while a dialog is open or
// before the scene is attached.
func (s *Scene) Control(player *obj.Object) error {
	if s.status != StatusIdle {
		return fmt.Errorf("control %s: scene is %s: %w", player.Name(), s.status, common.ErrBusy)
	}
	if s.stage == nil {
		return fmt.Errorf("control %s: %w", player.Name(), common.ErrNoActiveContext)
	}
	s.player = player
	if s.joystick == nil {
		cfg := s.inputCfg
		cfg.ViewWidth = s.view.W
		s.joystick = input.NewJoystick(cfg)
		if err := s.Focus(player); err != nil {
			return err
		}
	}
	s.joystick.Resume()
	s.ticking = false
	s.log.WithField("player", player.Name()).Debug("control armed")
	return nil
}

// Joystick returns the player controller, or nil before Control.
func (s *Scene) Joystick() *input.Joystick { return s.joystick }

// Ticking reports whether the movement tick is running.
func (s *Scene) Ticking() bool { return s.ticking }

// HandlePointer routes one pointer event. While talking, a touch on the
// dialog dismisses it and everything else is ignored.
func (s *Scene) HandlePointer(ctx context.Context, ev input.Event) error {
	if s.status == StatusTalking {
		if ev.Kind == input.TouchStart && s.talk != nil && s.talk.box.Contains(ev.X, ev.Y) {
			return s.Dismiss()
		}
		return nil
	}
	if s.joystick == nil {
		return nil
	}
	return s.apply(ctx, s.joystick.Handle(ev))
}

// Update advances animations, releases throttled moves and runs one
// movement tick.
func (s *Scene) Update(ctx context.Context, now time.Time) error {
	s.container.Update()
	if s.status != StatusIdle || s.joystick == nil {
		return nil
	}
	if err := s.apply(ctx, s.joystick.Flush(now)); err != nil {
		return err
	}
	if !s.ticking {
		return nil
	}
	if err := s.tick(); err != nil {
		s.log.WithError(err).Warn("movement tick failed, releasing control")
		s.ticking = false
		s.joystick.Reset()
		return err
	}
	return nil
}

func (s *Scene) tick() error {
	vel := s.joystick.Velocity()
	if vel.X == 0 && vel.Y == 0 {
		return nil
	}
	if err := s.Step(s.player, vel); err != nil {
		return err
	}
	return s.Focus(s.player)
}

func (s *Scene) apply(ctx context.Context, effects []input.Effect) error {
	for _, eff := range effects {
		switch eff.Kind {
		case input.StartTick:
			s.ticking = true
		case input.StopTick:
			s.ticking = false
		case input.StopPlayer:
			if err := s.stopPlayer(); err != nil {
				return err
			}
		case input.Face:
			if err := s.player.SetDirection(eff.Facing); err != nil {
				return err
			}
		case input.Animate:
			if s.player.IsAnimated() {
				if err := s.player.Play(eff.Acc); err != nil {
					return err
				}
			}
		case input.Lookup:
			if err := s.Interact(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scene) stopPlayer() error {
	if s.player == nil || !s.player.IsAnimated() {
		return nil
	}
	err := s.player.Stop()
	if errors.Is(err, common.ErrInvalidAnimationOp) {
		return nil
	}
	return err
}
