package asset

import (
	"fmt"
	"image"
)

// Frame is a named region cut from a base texture.
type Frame struct {
	Key   string
	Image image.Image
}

// BuildAtlas cuts one frame per rectangle out of base. Rectangles are
// {x, y, w, h} in texture pixels and frames are keyed "prefix-index".
func BuildAtlas(prefix string, base Texture, rects [][4]int) ([]Frame, error) {
	if base == nil {
		return nil, fmt.Errorf("asset: atlas %s: nil texture", prefix)
	}
	bounds := base.Bounds()
	frames := make([]Frame, 0, len(rects))
	for i, r := range rects {
		rect := image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3]).Add(bounds.Min)
		if r[2] <= 0 || r[3] <= 0 || !rect.In(bounds) {
			return nil, fmt.Errorf("asset: atlas %s: frame %d %v outside texture %v", prefix, i, r, bounds)
		}
		frames = append(frames, Frame{
			Key:   fmt.Sprintf("%s-%d", prefix, i),
			Image: base.SubImage(rect),
		})
	}
	return frames, nil
}
