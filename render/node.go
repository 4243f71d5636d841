package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilewalk/common"
)

// Node is an element of the scene graph. Nodes are positioned relative to
// their parent container.
type Node interface {
	Position() (float64, float64)
	SetPosition(x, y float64)
	ZIndex() float64
	SetZIndex(z float64)
	// Bounds returns the node's rectangle in its parent's space.
	Bounds() common.Rect
	Parent() *Container
	Visible() bool
	SetVisible(v bool)
	Update()
	Draw(dst *ebiten.Image, parent ebiten.GeoM)

	setParent(c *Container)
}

// node holds the state shared by every Node implementation.
type node struct {
	x, y   float64
	z      float64
	hidden bool
	parent *Container
}

func (n *node) Position() (float64, float64) { return n.x, n.y }

func (n *node) SetPosition(x, y float64) {
	n.x = x
	n.y = y
}

func (n *node) ZIndex() float64     { return n.z }
func (n *node) SetZIndex(z float64) { n.z = z }
func (n *node) Parent() *Container  { return n.parent }
func (n *node) Visible() bool       { return !n.hidden }
func (n *node) SetVisible(v bool)   { n.hidden = !v }

func (n *node) setParent(c *Container) { n.parent = c }

func (n *node) geoM(parent ebiten.GeoM) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(n.x, n.y)
	g.Concat(parent)
	return g
}

// GlobalPosition returns the position of n in root (stage) space.
func GlobalPosition(n Node) (float64, float64) {
	x, y := n.Position()
	for p := n.Parent(); p != nil; p = p.Parent() {
		px, py := p.Position()
		x += px
		y += py
	}
	return x, y
}
