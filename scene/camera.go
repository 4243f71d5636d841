package scene

import (
	"math"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/obj"
)

// Focus scrolls the scene so target sits at the center of the viewport,
// letting the map edge come at most Margin pixels into view.
func (s *Scene) Focus(target *obj.Object) error {
	area, err := target.CollisionArea()
	if err != nil {
		return err
	}
	x := focusAxis(s.view.W, s.width, s.margin, area.X, area.W)
	y := focusAxis(s.view.H, s.height, s.margin, area.Y, area.H)
	s.container.SetPosition(x, y)
	return nil
}

func focusAxis(view, extent, margin, pos, size float64) float64 {
	lo := view - extent - margin
	dest := common.RoundHalfUp(view/2 - pos - size/2)
	return math.Max(math.Min(dest, margin), lo)
}
