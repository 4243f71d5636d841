package obj

import (
	"context"
	"fmt"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/logger"
	"github.com/milk9111/tilewalk/render"
	"golang.org/x/sync/errgroup"
)

// state is the mutable part of an object that drives visual selection.
type state struct {
	dir     common.Direction
	variant string
	loaded  bool
}

// Object is a positioned, direction-aware entity with named visual variants.
// Positions are reported in collision-box space: Pos returns the collision
// box origin and SetPos moves the visual so that the box lands there.
type Object struct {
	name     string
	root     *render.Container
	variants map[string]*Variant

	// loadMu makes concurrent Load calls share one load. Everything else,
	// st included, is used from the game loop once Load has returned.
	loadMu sync.Mutex
	st     state
	zTier  float64

	passable bool
	reaction Reaction
	visits   int
	start    *cp.Vector
}

// Option configures an Object at construction.
type Option func(o *Object)

// WithPassable lets other objects walk through this one.
func WithPassable(passable bool) Option {
	return func(o *Object) { o.passable = passable }
}

// WithReaction sets what happens when the player interacts with the object.
func WithReaction(r Reaction) Option {
	return func(o *Object) { o.reaction = r }
}

// WithZIndex sets the explicit paint tier.
func WithZIndex(tier float64) Option {
	return func(o *Object) { o.zTier = tier }
}

// WithDirection sets the initial facing. Invalid values are ignored.
func WithDirection(dir common.Direction) Option {
	return func(o *Object) {
		if dir.Valid() {
			o.st.dir = dir
		}
	}
}

// WithPosition places the object's collision box at pos once it is loaded.
func WithPosition(pos cp.Vector) Option {
	return func(o *Object) { o.start = &pos }
}

// New creates an unloaded object. Objects block movement unless
// WithPassable(true) is given.
func New(name string, sprites map[string]SpriteInfo, opts ...Option) *Object {
	o := &Object{
		name:     name,
		root:     render.NewContainer(),
		variants: make(map[string]*Variant, len(sprites)),
		st:       state{dir: common.Down},
		zTier:    1,
	}
	for key, info := range sprites {
		o.variants[key] = NewVariant(key, info)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Object) Name() string { return o.name }

func (o *Object) String() string { return o.name }

// Node returns the object's scene-graph node.
func (o *Object) Node() *render.Container { return o.root }

func (o *Object) Passable() bool { return o.passable }

func (o *Object) Reaction() Reaction { return o.reaction }

func (o *Object) IsLoaded() bool { return o.st.loaded }

// Load loads every variant concurrently and selects the default variant.
// Calling Load on a loaded object returns immediately.
func (o *Object) Load(ctx context.Context, textures TextureSource) error {
	o.loadMu.Lock()
	defer o.loadMu.Unlock()
	if o.st.loaded {
		return nil
	}

	def, ok := o.variants[DefaultVariant]
	if !ok || !def.HasFrames(common.Down) {
		return fmt.Errorf("load %s: %w", o.name, common.ErrMissingDefaultFacing)
	}

	g, ctx := errgroup.WithContext(ctx)
	for key, v := range o.variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return v.Load(textures, fmt.Sprintf("%s-%s", o.name, key))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s: %w", o.name, err)
	}

	dir := o.st.dir
	if _, ok := def.Visual(dir); !ok {
		dir = common.Down
	}
	vis, _ := def.Visual(dir)
	o.root.AddChild(vis)
	o.st = state{dir: dir, variant: DefaultVariant, loaded: true}
	if o.start != nil {
		if err := o.SetPos(*o.start); err != nil {
			return err
		}
	}

	logger.For("object").WithField("object", o.name).Debug("loaded")
	return nil
}

// HasVisual reports whether the object currently shows a visual.
func (o *Object) HasVisual() bool {
	vis, ok := o.currentVisual()
	return ok && o.root.HasChild(vis)
}

// Visual returns the visual for the current variant and direction.
func (o *Object) Visual() (render.Visual, error) {
	if !o.st.loaded {
		return nil, fmt.Errorf("%s visual: %w", o.name, common.ErrNotLoaded)
	}
	vis, ok := o.currentVisual()
	if !ok {
		return nil, fmt.Errorf("%s has no %s visual in %s: %w", o.name, o.st.dir, o.st.variant, common.ErrInvalidDirection)
	}
	return vis, nil
}

func (o *Object) currentVisual() (render.Visual, bool) {
	v, ok := o.variants[o.st.variant]
	if !ok {
		return nil, false
	}
	return v.Visual(o.st.dir)
}

// Variant returns the key of the active variant.
func (o *Object) Variant() string { return o.st.variant }

// IsAnimated reports whether the current visual is a multi-frame animation.
func (o *Object) IsAnimated() bool {
	vis, ok := o.currentVisual()
	if !ok {
		return false
	}
	_, anim := vis.(*render.AnimatedSprite)
	return anim
}

// CollisionMod is the collision box relative to the visual's top-left.
func (o *Object) CollisionMod() (common.Rect, error) {
	if !o.st.loaded {
		return common.Rect{}, fmt.Errorf("%s collision: %w", o.name, common.ErrNotLoaded)
	}
	v := o.variants[o.st.variant]
	box, ok := v.CollisionMod(o.st.dir)
	if !ok {
		return common.Rect{}, fmt.Errorf("%s has no %s collision in %s: %w", o.name, o.st.dir, o.st.variant, common.ErrInvalidDirection)
	}
	return box, nil
}

// CollisionArea is the collision box in scene space.
func (o *Object) CollisionArea() (common.Rect, error) {
	box, err := o.CollisionMod()
	if err != nil {
		return common.Rect{}, err
	}
	x, y := o.root.Position()
	return common.Rect{X: x + box.X, Y: y + box.Y, W: box.W, H: box.H}, nil
}

func (o *Object) Pos() (cp.Vector, error) {
	area, err := o.CollisionArea()
	if err != nil {
		return cp.Vector{}, err
	}
	return cp.Vector{X: area.X, Y: area.Y}, nil
}

// SetPos moves the object so its collision box origin is at pos and
// refreshes its paint order.
func (o *Object) SetPos(pos cp.Vector) error {
	box, err := o.CollisionMod()
	if err != nil {
		return err
	}
	o.root.SetPosition(pos.X-box.X, pos.Y-box.Y)
	o.applyZIndex()
	return nil
}

func (o *Object) Width() (float64, error) {
	box, err := o.CollisionMod()
	return box.W, err
}

func (o *Object) Height() (float64, error) {
	box, err := o.CollisionMod()
	return box.H, err
}

func (o *Object) CenterPos() (cp.Vector, error) {
	area, err := o.CollisionArea()
	if err != nil {
		return cp.Vector{}, err
	}
	cx, cy := area.Center()
	return cp.Vector{X: cx, Y: cy}, nil
}

// GlobalPos is the visual anchor in stage space.
func (o *Object) GlobalPos() cp.Vector {
	x, y := render.GlobalPosition(o.root)
	return cp.Vector{X: x, Y: y}
}

func (o *Object) ZIndex() float64 { return o.zTier }

// SetZIndex sets the explicit tier. The effective paint order is
// tier*ZIndexModulus + y + height so lower objects paint in front.
func (o *Object) SetZIndex(tier float64) {
	o.zTier = tier
	o.applyZIndex()
}

func (o *Object) applyZIndex() {
	_, y := o.root.Position()
	_, h := o.root.Size()
	o.root.SetZIndex(o.zTier*common.ZIndexModulus + y + h)
}

func (o *Object) Direction() common.Direction { return o.st.dir }

// SetDirection swaps the displayed visual to dir. Equal directions and
// unloaded objects are left alone. A running animation on the outgoing
// visual is stopped before it is detached.
func (o *Object) SetDirection(dir common.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%s set direction %d: %w", o.name, dir, common.ErrInvalidDirection)
	}
	if dir == o.st.dir || !o.st.loaded {
		return nil
	}
	cur, err := o.Visual()
	if err != nil {
		return err
	}
	next, ok := o.variants[o.st.variant].Visual(dir)
	if !ok {
		return fmt.Errorf("%s has no %s visual in %s: %w", o.name, dir, o.st.variant, common.ErrInvalidDirection)
	}

	if anim, ok := cur.(*render.AnimatedSprite); ok {
		anim.Stop()
	}
	o.root.RemoveChild(cur)
	o.st.dir = dir
	o.root.AddChild(next)
	return nil
}

// Change switches to another variant keeping the current direction. The
// incoming visual starts stopped.
func (o *Object) Change(key string) error {
	next, ok := o.variants[key]
	if !ok {
		return fmt.Errorf("%s change to %q: %w", o.name, key, common.ErrUnknownVariant)
	}
	if !o.st.loaded {
		return fmt.Errorf("%s change: %w", o.name, common.ErrNotLoaded)
	}
	nextVis, ok := next.Visual(o.st.dir)
	if !ok {
		return fmt.Errorf("%s has no %s visual in %s: %w", o.name, o.st.dir, key, common.ErrInvalidDirection)
	}

	if o.HasVisual() {
		cur, _ := o.currentVisual()
		if anim, ok := cur.(*render.AnimatedSprite); ok {
			anim.Stop()
		}
		o.root.RemoveChild(cur)
	}

	o.st.variant = key
	o.root.AddChild(nextVis)
	if anim, ok := nextVis.(*render.AnimatedSprite); ok {
		anim.Stop()
	}
	return nil
}

// Play starts or retunes the current animation. acc scales the base frame
// rate; an animation that is already playing keeps its frame.
func (o *Object) Play(acc float64) error {
	return o.play(acc, -1)
}

// PlayFrom is Play starting at frame when the animation is not running.
func (o *Object) PlayFrom(acc float64, frame int) error {
	return o.play(acc, frame)
}

func (o *Object) play(acc float64, frame int) error {
	anim, err := o.animation("play")
	if err != nil {
		return err
	}
	if !anim.Playing() {
		if frame < 0 {
			anim.Play()
		} else {
			anim.GotoAndPlay(frame)
		}
	}
	anim.SetAnimationSpeed(acc * common.DefaultAnimationSpeed)
	return nil
}

func (o *Object) Stop() error {
	anim, err := o.animation("stop")
	if err != nil {
		return err
	}
	if anim.Playing() {
		anim.Stop()
	}
	return nil
}

func (o *Object) animation(op string) (*render.AnimatedSprite, error) {
	vis, err := o.Visual()
	if err != nil {
		return nil, err
	}
	anim, ok := vis.(*render.AnimatedSprite)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", o.name, op, common.ErrInvalidAnimationOp)
	}
	return anim, nil
}

// Attach adds the object's node to parent.
func (o *Object) Attach(parent *render.Container) error {
	if parent == nil {
		return fmt.Errorf("%s attach: %w", o.name, common.ErrNoActiveContext)
	}
	parent.AddChild(o.root)
	o.applyZIndex()
	return nil
}

// Detach removes the object's node from parent.
func (o *Object) Detach(parent *render.Container) error {
	if parent == nil || !parent.RemoveChild(o.root) {
		return fmt.Errorf("%s detach: %w", o.name, common.ErrNoActiveContext)
	}
	return nil
}

// React runs the object's reaction and returns the lines to show.
func (o *Object) React(ctx context.Context, facing common.Direction) ([]string, error) {
	if o.reaction == nil {
		return nil, nil
	}
	o.visits++
	return o.reaction.React(ctx, ReactionContext{
		Speaker: o.name,
		Facing:  facing,
		Visits:  o.visits,
	})
}
