package obj

import "github.com/milk9111/tilewalk/common"

// TileZIndex keeps tiles below every object tier.
const TileZIndex = -1

// NewTile creates a single-frame map cell cut from sheet at rect.
func NewTile(name, sheet string, rect [4]int, passable bool) *Object {
	return New(name, map[string]SpriteInfo{
		DefaultVariant: {
			Image:  sheet,
			Frames: map[common.Direction][][4]int{common.Down: {rect}},
		},
	}, WithPassable(passable), WithZIndex(TileZIndex))
}
