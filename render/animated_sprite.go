package render

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilewalk/common"
)

// AnimatedSprite plays an ordered frame sequence. AnimationSpeed is the
// number of frames advanced per Update; 1 means one frame per tick.
type AnimatedSprite struct {
	node
	Loop bool

	frames  []image.Image
	imgs    []*ebiten.Image
	speed   float64
	time    float64
	playing bool
}

// NewAnimatedSprite creates a looping, stopped animation at frame 0.
func NewAnimatedSprite(frames []image.Image) *AnimatedSprite {
	return &AnimatedSprite{
		Loop:   true,
		frames: frames,
		imgs:   make([]*ebiten.Image, len(frames)),
		speed:  1,
	}
}

func (a *AnimatedSprite) FrameCount() int { return len(a.frames) }

func (a *AnimatedSprite) Playing() bool { return a.playing }

func (a *AnimatedSprite) AnimationSpeed() float64 { return a.speed }

func (a *AnimatedSprite) SetAnimationSpeed(speed float64) { a.speed = speed }

// CurrentFrame returns the index of the frame that would be drawn now.
func (a *AnimatedSprite) CurrentFrame() int {
	n := len(a.frames)
	if n == 0 {
		return 0
	}
	i := int(math.Floor(a.time)) % n
	if i < 0 {
		i += n
	}
	return i
}

// Play resumes from the current frame.
func (a *AnimatedSprite) Play() {
	if len(a.frames) <= 1 {
		return
	}
	a.playing = true
}

func (a *AnimatedSprite) Stop() {
	a.playing = false
}

// GotoAndPlay jumps to frame i and starts playing.
func (a *AnimatedSprite) GotoAndPlay(i int) {
	n := len(a.frames)
	if n == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	a.time = float64(i)
	a.Play()
}

// Update advances the animation by AnimationSpeed frames.
func (a *AnimatedSprite) Update() {
	if !a.playing || len(a.frames) <= 1 {
		return
	}
	a.time += a.speed
	last := float64(len(a.frames))
	if a.time >= last || a.time < 0 {
		if a.Loop {
			a.time = math.Mod(a.time, last)
			if a.time < 0 {
				a.time += last
			}
		} else {
			a.time = last - 1
			a.playing = false
		}
	}
}

func (a *AnimatedSprite) Size() (float64, float64) {
	if len(a.frames) == 0 {
		return 0, 0
	}
	return frameSize(a.frames[a.CurrentFrame()])
}

func (a *AnimatedSprite) Bounds() common.Rect {
	w, h := a.Size()
	return common.Rect{X: a.x, Y: a.y, W: w, H: h}
}

func (a *AnimatedSprite) Draw(dst *ebiten.Image, parent ebiten.GeoM) {
	if a.hidden || len(a.frames) == 0 {
		return
	}
	i := a.CurrentFrame()
	if a.imgs[i] == nil {
		a.imgs[i] = toEbiten(a.frames[i])
	}
	op := &ebiten.DrawImageOptions{GeoM: a.geoM(parent)}
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(a.imgs[i], op)
}
