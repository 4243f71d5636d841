package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/input"
	"github.com/milk9111/tilewalk/logger"
	"github.com/milk9111/tilewalk/obj"
	"github.com/milk9111/tilewalk/render"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMargin is how far past the map edge the camera may scroll.
	DefaultMargin = 30
	// DefaultEdgeThreshold is the maximum gap between the player's facing
	// edge and an object's near edge for an interaction.
	DefaultEdgeThreshold = 2
	// DefaultCenterTolerance is the maximum offset between the player's and
	// the object's centers on the axis across the facing direction.
	DefaultCenterTolerance = 10
)

// Status routes input: while Talking, movement input is rejected.
type Status uint8

const (
	StatusIdle Status = iota
	StatusTalking
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusTalking:
		return "talking"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Viewport is the size of the visible screen area in pixels.
type Viewport struct {
	W, H float64
}

// Scene owns the tiles and objects of one map, resolves their movement and
// runs the player controller and the talk state machine.
type Scene struct {
	name     string
	tiles    [][]*obj.Object
	objects  []*obj.Object
	blocking []*obj.Object

	width, height float64
	margin        float64
	status        Status

	container *render.Container
	stage     *render.Container
	view      Viewport

	textures obj.TextureSource
	dialogs  Dialogs

	inputCfg        input.Config
	edgeThreshold   float64
	centerTolerance float64

	joystick *input.Joystick
	player   *obj.Object
	ticking  bool
	talk     *talk

	log *logrus.Entry
}

// Option configures a Scene.
type Option func(s *Scene)

func WithMargin(m float64) Option {
	return func(s *Scene) { s.margin = m }
}

// WithTextures sets the texture source used by Load.
func WithTextures(t obj.TextureSource) Option {
	return func(s *Scene) { s.textures = t }
}

// WithDialogs sets the dialog substrate used by Talk.
func WithDialogs(d Dialogs) Option {
	return func(s *Scene) { s.dialogs = d }
}

// WithInputConfig overrides the joystick tuning. ViewWidth is always taken
// from the attached viewport.
func WithInputConfig(cfg input.Config) Option {
	return func(s *Scene) { s.inputCfg = cfg }
}

// WithInteraction sets the adjacency threshold and center tolerance.
func WithInteraction(edgeThreshold, centerTolerance float64) Option {
	return func(s *Scene) {
		s.edgeThreshold = edgeThreshold
		s.centerTolerance = centerTolerance
	}
}

// New creates a scene from a row-major tile grid and a list of objects.
func New(name string, tiles [][]*obj.Object, objects []*obj.Object, opts ...Option) *Scene {
	container := render.NewContainer()
	container.SortableChildren = true

	s := &Scene{
		name:            name,
		tiles:           tiles,
		objects:         slices.Clone(objects),
		margin:          DefaultMargin,
		container:       container,
		inputCfg:        input.DefaultConfig(0),
		edgeThreshold:   DefaultEdgeThreshold,
		centerTolerance: DefaultCenterTolerance,
		log:             logger.For("scene").WithField("scene", name),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, o := range s.allTiles() {
		if !o.Passable() {
			s.blocking = append(s.blocking, o)
		}
	}
	for _, o := range s.objects {
		if !o.Passable() {
			s.blocking = append(s.blocking, o)
		}
	}
	return s
}

func (s *Scene) Name() string { return s.name }

func (s *Scene) Status() Status { return s.status }

// Size is the laid-out map size in pixels. It is zero until DrawMap.
func (s *Scene) Size() (float64, float64) { return s.width, s.height }

func (s *Scene) Margin() float64 { return s.margin }

// Container is the scene's root node; its position is the camera offset.
func (s *Scene) Container() *render.Container { return s.container }

func (s *Scene) Player() *obj.Object { return s.player }

// Objects returns a copy of the interactive object list.
func (s *Scene) Objects() []*obj.Object { return slices.Clone(s.objects) }

// Blocking returns a copy of the blocking tiles and objects.
func (s *Scene) Blocking() []*obj.Object { return slices.Clone(s.blocking) }

// Object finds an object by name.
func (s *Scene) Object(name string) (*obj.Object, bool) {
	for _, o := range s.objects {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

func (s *Scene) allTiles() []*obj.Object {
	var out []*obj.Object
	for _, row := range s.tiles {
		out = append(out, row...)
	}
	return out
}

// Load loads every tile and object concurrently. The scene is ready only
// when every load has succeeded.
func (s *Scene) Load(ctx context.Context) error {
	if s.textures == nil {
		return fmt.Errorf("scene %s load: no texture source: %w", s.name, common.ErrNoActiveContext)
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, o := range append(s.allTiles(), s.objects...) {
		g.Go(func() error {
			return o.Load(ctx, s.textures)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	s.log.WithField("objects", len(s.objects)).Debug("scene loaded")
	return nil
}

// Attach puts the scene on stage and records the viewport size.
func (s *Scene) Attach(stage *render.Container, view Viewport) error {
	if stage == nil {
		return fmt.Errorf("scene %s attach: %w", s.name, common.ErrNoActiveContext)
	}
	s.stage = stage
	s.view = view
	stage.AddChild(s.container)
	return nil
}

// Viewport returns the attached viewport size.
func (s *Scene) Viewport() Viewport { return s.view }

// DrawMap lays the tiles out on the grid, measures the map and attaches
// every object.
func (s *Scene) DrawMap() error {
	for rowIdx, row := range s.tiles {
		for colIdx, tile := range row {
			pos := tilePos(rowIdx, colIdx)
			if err := tile.SetPos(pos); err != nil {
				return fmt.Errorf("scene %s tile %d,%d: %w", s.name, rowIdx, colIdx, err)
			}
			if err := tile.Attach(s.container); err != nil {
				return err
			}
		}
	}
	b := s.container.Bounds()
	s.width = b.W
	s.height = b.H

	for _, o := range s.objects {
		if err := o.Attach(s.container); err != nil {
			return err
		}
	}
	return nil
}

// AddObject adds a loaded object that is not already in the scene.
func (s *Scene) AddObject(o *obj.Object) error {
	if !o.IsLoaded() {
		return fmt.Errorf("add %s to %s: %w", o.Name(), s.name, common.ErrNotLoaded)
	}
	if slices.Contains(s.objects, o) {
		return fmt.Errorf("add %s: already in %s: %w", o.Name(), s.name, common.ErrMembership)
	}
	s.objects = append(s.objects, o)
	if !o.Passable() {
		s.blocking = append(s.blocking, o)
	}
	s.log.WithField("object", o.Name()).Debug("object added")
	return o.Attach(s.container)
}

// RemoveObject removes an object that is in the scene.
func (s *Scene) RemoveObject(o *obj.Object) error {
	if !slices.Contains(s.objects, o) {
		return fmt.Errorf("remove %s: not in %s: %w", o.Name(), s.name, common.ErrMembership)
	}
	s.objects = slices.DeleteFunc(s.objects, func(x *obj.Object) bool { return x == o })
	s.blocking = slices.DeleteFunc(s.blocking, func(x *obj.Object) bool { return x == o })
	s.log.WithField("object", o.Name()).Debug("object removed")
	if o.Node().Parent() == s.container {
		return o.Detach(s.container)
	}
	return nil
}
