package obj

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilewalk/asset"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/render"
)

type countingSource struct {
	mu    sync.Mutex
	loads map[string]int
}

func (s *countingSource) Load(src string) (asset.Texture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loads == nil {
		s.loads = map[string]int{}
	}
	s.loads[src]++
	return image.NewRGBA(image.Rect(0, 0, 256, 256)), nil
}

func (s *countingSource) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.loads {
		n += c
	}
	return n
}

func walkFrames(row int) [][4]int {
	return [][4]int{{0, row * 32, 32, 32}, {32, row * 32, 32, 32}}
}

func heroSprites() map[string]SpriteInfo {
	return map[string]SpriteInfo{
		DefaultVariant: {
			Image: "hero.png",
			Frames: map[common.Direction][][4]int{
				common.Down:  walkFrames(0),
				common.Up:    walkFrames(1),
				common.Left:  {{0, 64, 32, 32}},
				common.Right: walkFrames(3),
			},
			Collision: map[common.Direction]common.Rect{
				common.Down: {X: 4, Y: 8, W: 24, H: 24},
				common.Left: {X: 6, Y: 8, W: 20, H: 24},
			},
		},
		"carry": {
			Image: "hero-carry.png",
			Frames: map[common.Direction][][4]int{
				common.Down: walkFrames(0),
				common.Up:   walkFrames(1),
			},
		},
	}
}

func loadedHero(t *testing.T) (*Object, *countingSource) {
	t.Helper()
	src := &countingSource{}
	o := New("hero", heroSprites())
	if err := o.Load(context.Background(), src); err != nil {
		t.Fatalf("load: %v", err)
	}
	return o, src
}

func TestLoad(t *testing.T) {
	t.Run("loads_every_variant_once", func(t *testing.T) {
		o, src := loadedHero(t)
		if !o.IsLoaded() || o.Variant() != DefaultVariant || o.Direction() != common.Down {
			t.Fatalf("unexpected state after load: loaded=%v variant=%q dir=%v", o.IsLoaded(), o.Variant(), o.Direction())
		}
		if src.total() != 2 {
			t.Fatalf("texture loads = %d, want 2", src.total())
		}
		if err := o.Load(context.Background(), src); err != nil {
			t.Fatalf("second load: %v", err)
		}
		if src.total() != 2 {
			t.Fatalf("second load should not reload, loads = %d", src.total())
		}
		if !o.HasVisual() || len(o.Node().Children()) != 1 {
			t.Fatalf("expected exactly one attached visual")
		}
	})

	t.Run("applies_start_position", func(t *testing.T) {
		o := New("hero", heroSprites(), WithPosition(cp.Vector{X: 40, Y: 20}))
		if err := o.Load(context.Background(), &countingSource{}); err != nil {
			t.Fatalf("load: %v", err)
		}
		pos, err := o.Pos()
		if err != nil || pos.X != 40 || pos.Y != 20 {
			t.Fatalf("Pos = %v, %v want 40,20", pos, err)
		}
		if x, y := o.Node().Position(); x != 36 || y != 12 {
			t.Fatalf("anchor = %v,%v want 36,12", x, y)
		}
	})

	t.Run("missing_down_in_default", func(t *testing.T) {
		src := &countingSource{}
		o := New("ghost", map[string]SpriteInfo{
			DefaultVariant: {Image: "ghost.png", Frames: map[common.Direction][][4]int{common.Up: walkFrames(0)}},
		})
		err := o.Load(context.Background(), src)
		if !errors.Is(err, common.ErrMissingDefaultFacing) {
			t.Fatalf("expected ErrMissingDefaultFacing, got %v", err)
		}
		if src.total() != 0 || o.IsLoaded() {
			t.Fatalf("missing facing should fail before loading anything")
		}
	})

	t.Run("missing_default_variant", func(t *testing.T) {
		o := New("ghost", map[string]SpriteInfo{"idle": {Image: "ghost.png"}})
		if err := o.Load(context.Background(), &countingSource{}); !errors.Is(err, common.ErrMissingDefaultFacing) {
			t.Fatalf("expected ErrMissingDefaultFacing, got %v", err)
		}
	})

	t.Run("queries_before_load", func(t *testing.T) {
		o := New("hero", heroSprites())
		if _, err := o.Pos(); !errors.Is(err, common.ErrNotLoaded) {
			t.Fatalf("Pos: expected ErrNotLoaded, got %v", err)
		}
		if err := o.SetPos(cp.Vector{}); !errors.Is(err, common.ErrNotLoaded) {
			t.Fatalf("SetPos: expected ErrNotLoaded, got %v", err)
		}
		if _, err := o.Visual(); !errors.Is(err, common.ErrNotLoaded) {
			t.Fatalf("Visual: expected ErrNotLoaded, got %v", err)
		}
		if err := o.Play(1); !errors.Is(err, common.ErrNotLoaded) {
			t.Fatalf("Play: expected ErrNotLoaded, got %v", err)
		}
		if err := o.SetDirection(common.Left); err != nil {
			t.Fatalf("SetDirection on unloaded object should be a no-op, got %v", err)
		}
		if o.Direction() != common.Down {
			t.Fatalf("direction changed on unloaded object")
		}
	})
}

func TestPositionUsesCollisionBox(t *testing.T) {
	o, _ := loadedHero(t)
	if err := o.SetPos(cp.Vector{X: 100, Y: 50}); err != nil {
		t.Fatalf("SetPos: %v", err)
	}
	if x, y := o.Node().Position(); x != 96 || y != 42 {
		t.Fatalf("anchor = %v,%v want 96,42", x, y)
	}
	pos, _ := o.Pos()
	if pos.X != 100 || pos.Y != 50 {
		t.Fatalf("Pos = %v", pos)
	}
	w, _ := o.Width()
	h, _ := o.Height()
	if w != 24 || h != 24 {
		t.Fatalf("size = %vx%v", w, h)
	}
	c, _ := o.CenterPos()
	if c.X != 112 || c.Y != 62 {
		t.Fatalf("center = %v", c)
	}

	// The left facing has a narrower box, so the same anchor reports a
	// different collision origin.
	if err := o.SetDirection(common.Left); err != nil {
		t.Fatalf("SetDirection: %v", err)
	}
	pos, _ = o.Pos()
	if pos.X != 102 || pos.Y != 50 {
		t.Fatalf("Pos after turning left = %v", pos)
	}

	// Facings without an explicit box collide with the full frame.
	if err := o.SetDirection(common.Up); err != nil {
		t.Fatalf("SetDirection: %v", err)
	}
	area, _ := o.CollisionArea()
	if area != (common.Rect{X: 96, Y: 42, W: 32, H: 32}) {
		t.Fatalf("area = %+v", area)
	}
}

func TestZIndex(t *testing.T) {
	o, _ := loadedHero(t)
	_ = o.SetPos(cp.Vector{X: 4, Y: 108})
	if got := o.Node().ZIndex(); got != 1*common.ZIndexModulus+100+32 {
		t.Fatalf("z = %v", got)
	}
	o.SetZIndex(2)
	if o.ZIndex() != 2 || o.Node().ZIndex() != 2*common.ZIndexModulus+132 {
		t.Fatalf("z after tier change = %v", o.Node().ZIndex())
	}

	lower, _ := loadedHero(t)
	lower.SetZIndex(2)
	_ = lower.SetPos(cp.Vector{X: 4, Y: 208})
	if lower.Node().ZIndex() <= o.Node().ZIndex() {
		t.Fatalf("lower object should paint in front within a tier")
	}
}

func TestSetDirection(t *testing.T) {
	t.Run("equal_direction_is_noop", func(t *testing.T) {
		o, _ := loadedHero(t)
		before, _ := o.Visual()
		if err := o.Play(1); err != nil {
			t.Fatalf("play: %v", err)
		}
		if err := o.SetDirection(common.Down); err != nil {
			t.Fatalf("SetDirection: %v", err)
		}
		after, _ := o.Visual()
		if before != after || !after.(*render.AnimatedSprite).Playing() {
			t.Fatalf("repeated direction must not swap or stop the visual")
		}
	})

	t.Run("stops_outgoing_animation", func(t *testing.T) {
		o, _ := loadedHero(t)
		_ = o.Play(1)
		outgoing, _ := o.Visual()
		if err := o.SetDirection(common.Right); err != nil {
			t.Fatalf("SetDirection: %v", err)
		}
		if outgoing.(*render.AnimatedSprite).Playing() {
			t.Fatalf("outgoing animation should be stopped")
		}
		if outgoing.Parent() != nil {
			t.Fatalf("outgoing visual should be detached")
		}
		incoming, _ := o.Visual()
		if incoming.Parent() != o.Node() || len(o.Node().Children()) != 1 {
			t.Fatalf("incoming visual should take the slot")
		}
	})

	t.Run("invalid_direction", func(t *testing.T) {
		o, _ := loadedHero(t)
		if err := o.SetDirection(common.Direction(42)); !errors.Is(err, common.ErrInvalidDirection) {
			t.Fatalf("expected ErrInvalidDirection, got %v", err)
		}
	})

	t.Run("direction_missing_in_variant", func(t *testing.T) {
		o, _ := loadedHero(t)
		_ = o.Change("carry")
		if err := o.SetDirection(common.Left); !errors.Is(err, common.ErrInvalidDirection) {
			t.Fatalf("expected ErrInvalidDirection, got %v", err)
		}
		if o.Direction() != common.Down || !o.HasVisual() {
			t.Fatalf("failed turn must leave the object untouched")
		}
	})
}

func TestChange(t *testing.T) {
	o, _ := loadedHero(t)
	_ = o.SetDirection(common.Up)
	_ = o.Play(1)
	old, _ := o.Visual()

	if err := o.Change("carry"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	if o.Variant() != "carry" || o.Direction() != common.Up {
		t.Fatalf("variant=%q dir=%v", o.Variant(), o.Direction())
	}
	if old.(*render.AnimatedSprite).Playing() || old.Parent() != nil {
		t.Fatalf("old visual should be stopped and detached")
	}
	cur, _ := o.Visual()
	if cur.(*render.AnimatedSprite).Playing() {
		t.Fatalf("new visual should start stopped")
	}

	// Tolerates a visual that was already removed.
	o.Node().RemoveChild(cur)
	if err := o.Change(DefaultVariant); err != nil {
		t.Fatalf("Change after removal: %v", err)
	}
	if len(o.Node().Children()) != 1 {
		t.Fatalf("children = %d", len(o.Node().Children()))
	}

	if err := o.Change("swim"); !errors.Is(err, common.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func speedFor(acc float64) float64 {
	return acc * common.DefaultAnimationSpeed
}

func TestPlayStop(t *testing.T) {
	o, _ := loadedHero(t)
	vis, _ := o.Visual()
	anim := vis.(*render.AnimatedSprite)

	if err := o.PlayFrom(2, 1); err != nil {
		t.Fatalf("PlayFrom: %v", err)
	}
	if !anim.Playing() || anim.CurrentFrame() != 1 {
		t.Fatalf("playing=%v frame=%d", anim.Playing(), anim.CurrentFrame())
	}
	if anim.AnimationSpeed() != speedFor(2) {
		t.Fatalf("speed = %v", anim.AnimationSpeed())
	}

	// Resuming retunes speed without restarting.
	if err := o.PlayFrom(3, 0); err != nil {
		t.Fatalf("PlayFrom: %v", err)
	}
	if anim.CurrentFrame() != 1 || anim.AnimationSpeed() != speedFor(3) {
		t.Fatalf("frame=%d speed=%v", anim.CurrentFrame(), anim.AnimationSpeed())
	}

	if err := o.Stop(); err != nil || anim.Playing() {
		t.Fatalf("Stop: %v playing=%v", err, anim.Playing())
	}
	if err := o.Stop(); err != nil {
		t.Fatalf("Stop on stopped animation should be a no-op: %v", err)
	}

	_ = o.SetDirection(common.Left)
	if o.IsAnimated() {
		t.Fatalf("left facing is a static sprite")
	}
	if err := o.Play(1); !errors.Is(err, common.ErrInvalidAnimationOp) {
		t.Fatalf("Play: expected ErrInvalidAnimationOp, got %v", err)
	}
	if err := o.Stop(); !errors.Is(err, common.ErrInvalidAnimationOp) {
		t.Fatalf("Stop: expected ErrInvalidAnimationOp, got %v", err)
	}
}

func TestAttachDetach(t *testing.T) {
	o, _ := loadedHero(t)
	if err := o.Attach(nil); !errors.Is(err, common.ErrNoActiveContext) {
		t.Fatalf("expected ErrNoActiveContext, got %v", err)
	}
	stage := render.NewContainer()
	if err := o.Attach(stage); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := o.Detach(stage); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if err := o.Detach(stage); !errors.Is(err, common.ErrNoActiveContext) {
		t.Fatalf("second detach: expected ErrNoActiveContext, got %v", err)
	}
}

func TestTile(t *testing.T) {
	tile := NewTile("wall", "tiles.png", [4]int{32, 0, 32, 32}, false)
	if tile.Passable() || tile.ZIndex() != TileZIndex {
		t.Fatalf("tile passable=%v z=%v", tile.Passable(), tile.ZIndex())
	}
	if err := tile.Load(context.Background(), &countingSource{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if tile.IsAnimated() {
		t.Fatalf("tiles are static")
	}
}
