package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilewalk/common"
)

// Container groups child nodes. When SortableChildren is set children are
// drawn in ascending z order, ties keeping insertion order.
type Container struct {
	node
	SortableChildren bool

	children []Node
}

func NewContainer() *Container {
	return &Container{}
}

// AddChild appends n, detaching it from any previous parent first.
func (c *Container) AddChild(n Node) {
	if c == nil || n == nil {
		return
	}
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	c.children = append(c.children, n)
	n.setParent(c)
}

// RemoveChild detaches n and reports whether it was a child of c.
func (c *Container) RemoveChild(n Node) bool {
	if c == nil || n == nil {
		return false
	}
	for i, child := range c.children {
		if child == n {
			c.children = append(c.children[:i], c.children[i+1:]...)
			n.setParent(nil)
			return true
		}
	}
	return false
}

// HasChild reports whether n is a direct child of c.
func (c *Container) HasChild(n Node) bool {
	if c == nil || n == nil {
		return false
	}
	for _, child := range c.children {
		if child == n {
			return true
		}
	}
	return false
}

func (c *Container) Children() []Node {
	return c.children
}

// Bounds is the union of the children's bounds, offset by the container position.
func (c *Container) Bounds() common.Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, child := range c.children {
		b := child.Bounds()
		if b.W == 0 && b.H == 0 {
			continue
		}
		if first {
			minX, minY, maxX, maxY = b.X, b.Y, b.Right(), b.Bottom()
			first = false
			continue
		}
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
		maxX = max(maxX, b.Right())
		maxY = max(maxY, b.Bottom())
	}
	if first {
		return common.Rect{X: c.x, Y: c.y}
	}
	return common.Rect{X: c.x + minX, Y: c.y + minY, W: maxX - minX, H: maxY - minY}
}

// Size returns the width and height of the content bounds.
func (c *Container) Size() (float64, float64) {
	b := c.Bounds()
	return b.W, b.H
}

// Update advances every animated descendant by one tick.
func (c *Container) Update() {
	for _, child := range c.children {
		child.Update()
	}
}

func (c *Container) Draw(dst *ebiten.Image, parent ebiten.GeoM) {
	if c.hidden {
		return
	}
	g := c.geoM(parent)
	for _, child := range c.drawOrder() {
		if child.Visible() {
			child.Draw(dst, g)
		}
	}
}

func (c *Container) drawOrder() []Node {
	if !c.SortableChildren {
		return c.children
	}
	ordered := make([]Node, len(c.children))
	copy(ordered, c.children)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex() < ordered[j].ZIndex()
	})
	return ordered
}
