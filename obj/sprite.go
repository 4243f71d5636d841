package obj

import (
	"fmt"
	"image"
	"sync"

	"github.com/milk9111/tilewalk/asset"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/render"
)

// DefaultVariant is the variant selected when an object finishes loading.
const DefaultVariant = "default"

// TextureSource resolves image sources to textures. *asset.Cache implements it.
type TextureSource interface {
	Load(src string) (asset.Texture, error)
}

// SpriteInfo describes one variant of an object: the sheet it is cut from,
// the frame rectangles per facing and the collision box per facing.
type SpriteInfo struct {
	Image  string
	Frames map[common.Direction][][4]int
	// Collision is relative to the visual's top-left. A facing without an
	// entry collides with the full frame.
	Collision map[common.Direction]common.Rect
}

// Variant holds the loaded visuals of one SpriteInfo.
type Variant struct {
	key  string
	info SpriteInfo

	mu        sync.Mutex
	loaded    bool
	visuals   map[common.Direction]render.Visual
	collision map[common.Direction]common.Rect
}

func NewVariant(key string, info SpriteInfo) *Variant {
	return &Variant{key: key, info: info}
}

// HasFrames reports whether the variant declares frames for dir.
func (v *Variant) HasFrames(dir common.Direction) bool {
	return len(v.info.Frames[dir]) > 0
}

// Load cuts every facing's frames out of the variant's sheet. It does
// nothing once the variant has loaded.
func (v *Variant) Load(textures TextureSource, prefix string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return nil
	}

	tex, err := textures.Load(v.info.Image)
	if err != nil {
		return fmt.Errorf("variant %s: %w", v.key, err)
	}

	visuals := make(map[common.Direction]render.Visual, len(common.Directions))
	collision := make(map[common.Direction]common.Rect, len(common.Directions))
	for _, dir := range common.Directions {
		rects := v.info.Frames[dir]
		if len(rects) == 0 {
			continue
		}
		frames, err := asset.BuildAtlas(fmt.Sprintf("%s-%s", prefix, dir), tex, rects)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.key, err)
		}
		visuals[dir] = newVisual(frames)

		box, ok := v.info.Collision[dir]
		if !ok {
			w, h := visuals[dir].Size()
			box = common.Rect{W: w, H: h}
		}
		collision[dir] = box
	}

	v.visuals = visuals
	v.collision = collision
	v.loaded = true
	return nil
}

// Visual returns the visual shown for dir.
func (v *Variant) Visual(dir common.Direction) (render.Visual, bool) {
	vis, ok := v.visuals[dir]
	return vis, ok
}

// CollisionMod returns the collision box for dir.
func (v *Variant) CollisionMod(dir common.Direction) (common.Rect, bool) {
	box, ok := v.collision[dir]
	return box, ok
}

func newVisual(frames []asset.Frame) render.Visual {
	if len(frames) == 1 {
		return render.NewSprite(frames[0].Image)
	}
	imgs := make([]image.Image, len(frames))
	for i, f := range frames {
		imgs[i] = f.Image
	}
	return render.NewAnimatedSprite(imgs)
}
