package render

import (
	"image"
	"testing"
)

func frames(n, w, h int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return out
}

func TestContainerChildren(t *testing.T) {
	root := NewContainer()
	a := NewSprite(frames(1, 16, 16)[0])
	b := NewSprite(frames(1, 16, 16)[0])

	root.AddChild(a)
	root.AddChild(b)
	if len(root.Children()) != 2 || a.Parent() != root {
		t.Fatalf("expected two children parented to root")
	}

	other := NewContainer()
	other.AddChild(a)
	if root.HasChild(a) || a.Parent() != other {
		t.Fatalf("re-adding should move the node to the new parent")
	}

	if root.RemoveChild(a) {
		t.Fatalf("removing a non-child should report false")
	}
	if !root.RemoveChild(b) || b.Parent() != nil {
		t.Fatalf("removing a child should clear its parent")
	}
}

func TestContainerBounds(t *testing.T) {
	root := NewContainer()
	a := NewSprite(frames(1, 32, 32)[0])
	b := NewSprite(frames(1, 32, 32)[0])
	b.SetPosition(64, 32)
	root.AddChild(a)
	root.AddChild(b)
	root.SetPosition(10, 10)

	got := root.Bounds()
	if got.X != 10 || got.Y != 10 || got.W != 96 || got.H != 64 {
		t.Fatalf("bounds = %+v", got)
	}
	w, h := root.Size()
	if w != 96 || h != 64 {
		t.Fatalf("size = %v x %v", w, h)
	}
}

func TestDrawOrderSortsByZ(t *testing.T) {
	root := NewContainer()
	root.SortableChildren = true
	a := NewSprite(nil)
	b := NewSprite(nil)
	c := NewSprite(nil)
	a.SetZIndex(30)
	b.SetZIndex(10)
	c.SetZIndex(10)
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	order := root.drawOrder()
	if order[0] != b || order[1] != c || order[2] != a {
		t.Fatalf("unexpected draw order")
	}
}

func TestGlobalPosition(t *testing.T) {
	stage := NewContainer()
	world := NewContainer()
	world.SetPosition(-100, 20)
	s := NewSprite(nil)
	s.SetPosition(150, 5)
	stage.AddChild(world)
	world.AddChild(s)

	x, y := GlobalPosition(s)
	if x != 50 || y != 25 {
		t.Fatalf("global = %v,%v", x, y)
	}
}

func TestAnimatedSprite(t *testing.T) {
	t.Run("advances_and_loops", func(t *testing.T) {
		a := NewAnimatedSprite(frames(3, 8, 8))
		a.SetAnimationSpeed(0.5)
		a.Play()
		for i := 0; i < 4; i++ {
			a.Update()
		}
		if a.CurrentFrame() != 2 {
			t.Fatalf("frame = %d, want 2", a.CurrentFrame())
		}
		a.Update()
		a.Update()
		if a.CurrentFrame() != 0 {
			t.Fatalf("frame = %d, want 0 after wrap", a.CurrentFrame())
		}
	})

	t.Run("stopped_does_not_advance", func(t *testing.T) {
		a := NewAnimatedSprite(frames(3, 8, 8))
		a.Update()
		if a.Playing() || a.CurrentFrame() != 0 {
			t.Fatalf("stopped animation should not move")
		}
	})

	t.Run("goto_and_play", func(t *testing.T) {
		a := NewAnimatedSprite(frames(4, 8, 8))
		a.GotoAndPlay(2)
		if !a.Playing() || a.CurrentFrame() != 2 {
			t.Fatalf("playing=%v frame=%d", a.Playing(), a.CurrentFrame())
		}
		a.GotoAndPlay(99)
		if a.CurrentFrame() != 3 {
			t.Fatalf("out of range frame should clamp, got %d", a.CurrentFrame())
		}
	})

	t.Run("no_loop_stops_on_last", func(t *testing.T) {
		a := NewAnimatedSprite(frames(2, 8, 8))
		a.Loop = false
		a.Play()
		a.Update()
		a.Update()
		if a.Playing() || a.CurrentFrame() != 1 {
			t.Fatalf("playing=%v frame=%d", a.Playing(), a.CurrentFrame())
		}
	})
}
