package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tilewalk/asset"
	"github.com/milk9111/tilewalk/assets"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/input"
	"github.com/milk9111/tilewalk/logger"
	"github.com/milk9111/tilewalk/prefabs"
	"github.com/milk9111/tilewalk/render"
	"github.com/milk9111/tilewalk/scene"
	"github.com/milk9111/tilewalk/ui"
)

type Game struct {
	frames int
	ctx    context.Context

	spec      *prefabs.GameSpec
	sceneName string
	debug     bool

	textures *asset.Cache
	stage    *render.Container
	scene    *scene.Scene
	poller   *input.Poller
	talk     *ui.TalkBoxes

	watcher *prefabs.Watcher
	stamps  prefabs.Stamps
	reload  bool

	log *logrus.Entry
}

func NewGame(ctx context.Context, spec *prefabs.GameSpec, sceneName string, debug, watch bool) (*Game, error) {
	if sceneName == "" {
		sceneName = spec.Scene
	}
	g := &Game{
		ctx:       ctx,
		spec:      spec,
		sceneName: sceneName,
		debug:     debug,
		textures:  assets.NewCache(asset.WrapEbiten),
		poller:    input.NewPoller(),
		talk:      ui.NewTalkBoxes(),
		log:       logger.For("game"),
	}

	if err := g.loadScene(); err != nil {
		return nil, err
	}

	if watch {
		w, err := prefabs.NewWatcher("prefabs/scenes", "prefabs/scripts")
		if err != nil {
			g.log.WithError(err).Warn("hot reload disabled")
		} else {
			g.watcher = w
			g.stamps = prefabs.Stamps{}
		}
	}
	return g, nil
}

func (g *Game) viewport() scene.Viewport {
	return scene.Viewport{W: float64(g.spec.Viewport.Width), H: float64(g.spec.Viewport.Height)}
}

func (g *Game) sceneOptions() []scene.Option {
	view := g.viewport()
	opts := []scene.Option{
		scene.WithDialogs(g.talk),
		scene.WithInputConfig(g.spec.InputConfig(view.W)),
	}
	if g.spec.Camera.Margin > 0 {
		opts = append(opts, scene.WithMargin(g.spec.Camera.Margin))
	}
	if it := g.spec.Interaction; it.EdgeThreshold > 0 && it.CenterTolerance > 0 {
		opts = append(opts, scene.WithInteraction(it.EdgeThreshold, it.CenterTolerance))
	}
	return opts
}

// loadScene builds the current scene on a fresh stage. The running scene
// is only replaced once the new one is fully loaded.
func (g *Game) loadScene() error {
	spec, err := prefabs.LoadSceneSpec(g.sceneName)
	if err != nil {
		return err
	}
	s, err := prefabs.BuildScene(spec, g.textures, g.sceneOptions()...)
	if err != nil {
		return err
	}
	if err := s.Load(g.ctx); err != nil {
		return err
	}

	stage := render.NewContainer()
	if err := s.Attach(stage, g.viewport()); err != nil {
		return err
	}
	if err := s.DrawMap(); err != nil {
		return err
	}
	if spec.Player != "" {
		player, _ := s.Object(spec.Player)
		if err := s.Control(player); err != nil {
			return err
		}
	}

	g.stage = stage
	g.scene = s
	g.log.WithFields(logrus.Fields{
		"scene":    s.Name(),
		"textures": g.textures.Len(),
	}).Info("scene ready")
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if !g.stamps.Changed(name) {
				continue
			}
			g.log.WithField("file", name).Debug("prefab changed")
			g.reload = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("watch error")
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	g.drainWatcher()
	if g.reload && g.scene.Status() == scene.StatusIdle {
		g.reload = false
		if err := g.loadScene(); err != nil {
			g.log.WithError(err).Warn("reload failed, keeping current scene")
		}
	}

	for _, ev := range g.poller.Poll() {
		if err := g.scene.HandlePointer(g.ctx, ev); err != nil {
			g.log.WithError(err).WithField("event", ev.Kind).Warn("pointer event failed")
		}
	}
	g.talk.Update()

	if err := g.scene.Update(g.ctx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
		g.log.WithError(err).Warn("scene update failed")
	}
	return g.ctx.Err()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.stage.Draw(screen, ebiten.GeoM{})
	g.talk.Draw(screen)

	if g.debug {
		g.drawDebug(screen)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	camX, camY := g.scene.Container().Position()
	blocking := g.spec.Debug.BlockingColor.ColorOr(colornames.Red)
	playerColor := g.spec.Debug.PlayerColor.ColorOr(colornames.Deepskyblue)
	player := g.scene.Player()

	for _, o := range g.scene.Blocking() {
		area, err := o.CollisionArea()
		if err != nil {
			continue
		}
		var clr color.Color = blocking
		if o == player {
			clr = playerColor
		}
		vector.StrokeRect(screen, float32(area.X+camX), float32(area.Y+camY), float32(area.W), float32(area.H), 1, clr, false)
	}

	if box, ok := g.talk.Current(); ok {
		area := box.Area()
		vector.StrokeRect(screen, float32(area.X), float32(area.Y), float32(area.W), float32(area.H), 1, colornames.Yellow, false)
	}

	msg := fmt.Sprintf("FPS: %.2f  scene: %s  status: %s", ebiten.ActualFPS(), g.scene.Name(), g.scene.Status())
	if j := g.scene.Joystick(); j != nil {
		v := j.Velocity()
		msg += fmt.Sprintf("\njoystick: %s  velocity: (%.0f, %.0f)", j.Mode(), v.X, v.Y)
	}
	if player != nil {
		if p, err := player.Pos(); err == nil {
			msg += fmt.Sprintf("\nplayer: (%.0f, %.0f) facing %s  tile %d,%d", p.X, p.Y, player.Direction(),
				int(p.X)/common.TileSize, int(p.Y)/common.TileSize)
		}
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.spec.Viewport.Width, g.spec.Viewport.Height
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}
