package scene

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/obj"
)

// Axis selects which coordinate NextPosition resolves.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

func tilePos(row, col int) cp.Vector {
	return cp.Vector{X: float64(col * common.TileSize), Y: float64(row * common.TileSize)}
}

// NextPosition resolves a one-axis move of target by delta. A move that
// would leave the map is rejected and the current coordinate is returned.
// A move into a blocker snaps flush against the first blocker hit.
func (s *Scene) NextPosition(target *obj.Object, delta float64, axis Axis) (float64, error) {
	area, err := target.CollisionArea()
	if err != nil {
		return 0, fmt.Errorf("resolve %s %s: %w", target.Name(), axis, err)
	}

	cur, size, extent := area.X, area.W, s.width
	if axis == AxisY {
		cur, size, extent = area.Y, area.H, s.height
	}
	next := cur + delta
	if next < 0 || next+size > extent {
		return cur, nil
	}

	moved := area
	if axis == AxisX {
		moved.X = next
	} else {
		moved.Y = next
	}

	for _, b := range s.blocking {
		if b == target {
			continue
		}
		other, err := b.CollisionArea()
		if err != nil {
			return 0, fmt.Errorf("resolve %s against %s: %w", target.Name(), b.Name(), err)
		}
		if !moved.Intersects(other) {
			continue
		}
		edge, otherSize := other.X, other.W
		if axis == AxisY {
			edge, otherSize = other.Y, other.H
		}
		if cur < edge {
			return edge - size, nil
		}
		return edge + otherSize, nil
	}
	return next, nil
}

// NextX resolves a horizontal move.
func (s *Scene) NextX(target *obj.Object, dx float64) (float64, error) {
	return s.NextPosition(target, dx, AxisX)
}

// NextY resolves a vertical move.
func (s *Scene) NextY(target *obj.Object, dy float64) (float64, error) {
	return s.NextPosition(target, dy, AxisY)
}

// Step moves target by vel, resolving X first and then Y from the
// resolved X position.
func (s *Scene) Step(target *obj.Object, vel cp.Vector) error {
	pos, err := target.Pos()
	if err != nil {
		return err
	}
	if vel.X != 0 {
		x, err := s.NextX(target, vel.X)
		if err != nil {
			return err
		}
		pos.X = x
		if err := target.SetPos(pos); err != nil {
			return err
		}
	}
	if vel.Y != 0 {
		y, err := s.NextY(target, vel.Y)
		if err != nil {
			return err
		}
		pos.Y = y
		if err := target.SetPos(pos); err != nil {
			return err
		}
	}
	return nil
}

// Overlaps returns the pairs of blocking entities whose collision boxes
// intersect. Pairs of two tiles are skipped.
func (s *Scene) Overlaps() ([][2]*obj.Object, error) {
	tiles := make(map[*obj.Object]bool)
	for _, t := range s.allTiles() {
		tiles[t] = true
	}
	areas := make([]common.Rect, len(s.blocking))
	for i, b := range s.blocking {
		area, err := b.CollisionArea()
		if err != nil {
			return nil, err
		}
		areas[i] = area
	}

	var out [][2]*obj.Object
	for i, a := range s.blocking {
		for j := i + 1; j < len(s.blocking); j++ {
			b := s.blocking[j]
			if tiles[a] && tiles[b] {
				continue
			}
			if areas[i].Intersects(areas[j]) {
				out = append(out, [2]*obj.Object{a, b})
			}
		}
	}
	return out, nil
}
