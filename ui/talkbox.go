package ui

import (
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/obj"
	"github.com/milk9111/tilewalk/scene"
)

const (
	talkBoxPadding  = 8
	talkBoxSpacing  = 4
	talkBoxMaxRatio = 0.6
	lineHeight      = 16
)

var (
	talkBoxBackground = color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 220}
	speakerColor      = color.NRGBA{R: 0xff, G: 0xd8, B: 0x6b, A: 0xff}
	messageColor      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// TalkBoxes opens dialog boxes in the bottom-right corner of the screen.
// At most one box is shown at a time.
type TalkBoxes struct {
	face ebtext.Face
	open *TalkBox
}

func NewTalkBoxes() *TalkBoxes {
	return &TalkBoxes{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

// Open builds a box for message and shows it, replacing any open box.
func (t *TalkBoxes) Open(speaker *obj.Object, message string, view scene.Viewport) scene.DialogBox {
	lines := wrap(message, view.W*talkBoxMaxRatio-2*talkBoxPadding, t.measure)
	w, h := boxSize(speaker.Name(), lines, t.measure)

	panelImg := imageui.NewNineSliceColor(talkBoxBackground)
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(talkBoxSpacing),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: talkBoxPadding, Bottom: talkBoxPadding, Left: talkBoxPadding, Right: talkBoxPadding}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(int(w), int(h)),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(speaker.Name(), &t.face, speakerColor),
	))
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(strings.Join(lines, "\n"), &t.face, messageColor),
	))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	box := &TalkBox{
		owner: t,
		ui:    &ebitenui.UI{Container: root},
		area:  common.Rect{X: view.W - w, Y: view.H - h, W: w, H: h},
	}
	t.open = box
	return box
}

// Current returns the open box, if any.
func (t *TalkBoxes) Current() (*TalkBox, bool) {
	return t.open, t.open != nil
}

func (t *TalkBoxes) Update() {
	if t.open != nil {
		t.open.ui.Update()
	}
}

func (t *TalkBoxes) Draw(screen *ebiten.Image) {
	if t.open != nil {
		t.open.ui.Draw(screen)
	}
}

func (t *TalkBoxes) measure(s string) float64 {
	w, _ := ebtext.Measure(s, t.face, lineHeight)
	return w
}

// TalkBox is one open dialog.
type TalkBox struct {
	owner *TalkBoxes
	ui    *ebitenui.UI
	area  common.Rect
}

func (b *TalkBox) Width() float64 { return b.area.W }

// Area is the box rectangle in screen space.
func (b *TalkBox) Area() common.Rect { return b.area }

func (b *TalkBox) Contains(x, y float64) bool {
	return x >= b.area.X && x < b.area.Right() && y >= b.area.Y && y < b.area.Bottom()
}

func (b *TalkBox) Close() {
	if b.owner.open == b {
		b.owner.open = nil
	}
}

// wrap breaks message into lines no wider than maxW. Words longer than
// maxW get a line of their own.
func wrap(message string, maxW float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(message, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			next := line + " " + word
			if measure(next) > maxW {
				lines = append(lines, line)
				line = word
				continue
			}
			line = next
		}
		lines = append(lines, line)
	}
	return lines
}

// boxSize is the outer size of a box showing title above lines.
func boxSize(title string, lines []string, measure func(string) float64) (float64, float64) {
	w := measure(title)
	for _, l := range lines {
		w = max(w, measure(l))
	}
	h := float64(lineHeight*(len(lines)+1) + talkBoxSpacing)
	return w + 2*talkBoxPadding, h + 2*talkBoxPadding
}
