package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilewalk/common"
)

// Visual is a drawable leaf: a static Sprite or an AnimatedSprite.
type Visual interface {
	Node
	Size() (float64, float64)
}

// Sprite draws a single frame.
type Sprite struct {
	node
	frame image.Image
	img   *ebiten.Image
}

func NewSprite(frame image.Image) *Sprite {
	return &Sprite{frame: frame}
}

func (s *Sprite) Size() (float64, float64) {
	return frameSize(s.frame)
}

func (s *Sprite) Bounds() common.Rect {
	w, h := s.Size()
	return common.Rect{X: s.x, Y: s.y, W: w, H: h}
}

func (s *Sprite) Update() {}

func (s *Sprite) Draw(dst *ebiten.Image, parent ebiten.GeoM) {
	if s.hidden || s.frame == nil {
		return
	}
	if s.img == nil {
		s.img = toEbiten(s.frame)
	}
	op := &ebiten.DrawImageOptions{GeoM: s.geoM(parent)}
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(s.img, op)
}

func frameSize(frame image.Image) (float64, float64) {
	if frame == nil {
		return 0, 0
	}
	b := frame.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func toEbiten(frame image.Image) *ebiten.Image {
	if img, ok := frame.(*ebiten.Image); ok {
		return img
	}
	return ebiten.NewImageFromImage(frame)
}
