package prefabs

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/obj"
	"github.com/milk9111/tilewalk/scene"
)

// BuildScene turns a scene spec into an unloaded scene. The returned
// scene still needs Load, Attach and DrawMap.
func BuildScene(spec *SceneSpec, textures obj.TextureSource, opts ...scene.Option) (*scene.Scene, error) {
	tiles, err := buildTiles(spec)
	if err != nil {
		return nil, err
	}

	objects := make([]*obj.Object, 0, len(spec.Objects))
	seen := make(map[string]bool, len(spec.Objects))
	for _, objSpec := range spec.Objects {
		if seen[objSpec.Name] {
			return nil, fmt.Errorf("prefabs: scene %s: duplicate object %q", spec.Name, objSpec.Name)
		}
		seen[objSpec.Name] = true

		o, err := BuildObject(objSpec)
		if err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: %w", spec.Name, err)
		}
		objects = append(objects, o)
	}
	if spec.Player != "" && !seen[spec.Player] {
		return nil, fmt.Errorf("prefabs: scene %s: player %q is not an object", spec.Name, spec.Player)
	}

	opts = append([]scene.Option{scene.WithTextures(textures)}, opts...)
	return scene.New(spec.Name, tiles, objects, opts...), nil
}

func buildTiles(spec *SceneSpec) ([][]*obj.Object, error) {
	if spec.Tileset == "" && len(spec.Rows) > 0 {
		return nil, fmt.Errorf("prefabs: scene %s: rows without a tileset", spec.Name)
	}
	tiles := make([][]*obj.Object, len(spec.Rows))
	for r, row := range spec.Rows {
		cells := []rune(row)
		if r > 0 && len(cells) != len([]rune(spec.Rows[0])) {
			return nil, fmt.Errorf("prefabs: scene %s: row %d has %d tiles, want %d", spec.Name, r, len(cells), len([]rune(spec.Rows[0])))
		}
		tiles[r] = make([]*obj.Object, len(cells))
		for c, ch := range cells {
			ts, ok := spec.Legend[string(ch)]
			if !ok {
				return nil, fmt.Errorf("prefabs: scene %s: row %d col %d: no legend entry for %q", spec.Name, r, c, ch)
			}
			name := ts.Name
			if name == "" {
				name = string(ch)
			}
			tiles[r][c] = obj.NewTile(fmt.Sprintf("%s-%d-%d", name, r, c), spec.Tileset, ts.Frame, ts.Passable)
		}
	}
	return tiles, nil
}

// BuildObject creates an unloaded object from its spec.
func BuildObject(spec ObjectSpec) (*obj.Object, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("object without a name")
	}
	if len(spec.Sprites) == 0 {
		return nil, fmt.Errorf("object %s: no sprites", spec.Name)
	}

	sprites := make(map[string]obj.SpriteInfo, len(spec.Sprites))
	for _, key := range slices.Sorted(maps.Keys(spec.Sprites)) {
		info, err := spriteInfo(spec.Sprites[key])
		if err != nil {
			return nil, fmt.Errorf("object %s sprite %s: %w", spec.Name, key, err)
		}
		sprites[key] = info
	}

	opts := []obj.Option{
		obj.WithPassable(spec.Passable),
		obj.WithPosition(cp.Vector{X: spec.Position.X, Y: spec.Position.Y}),
	}
	if spec.Facing != common.DirNone {
		opts = append(opts, obj.WithDirection(spec.Facing))
	}
	if spec.ZIndex != nil {
		opts = append(opts, obj.WithZIndex(*spec.ZIndex))
	}
	if spec.Reaction != nil {
		r, err := buildReaction(spec.Reaction)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", spec.Name, err)
		}
		opts = append(opts, obj.WithReaction(r))
	}
	return obj.New(spec.Name, sprites, opts...), nil
}

func spriteInfo(spec SpriteSpec) (obj.SpriteInfo, error) {
	info := obj.SpriteInfo{
		Image:     spec.Image,
		Frames:    make(map[common.Direction][][4]int, len(spec.Frames)),
		Collision: make(map[common.Direction]common.Rect, len(spec.Collision)),
	}
	for name, rects := range spec.Frames {
		dir, err := common.ParseDirection(name)
		if err != nil {
			return obj.SpriteInfo{}, err
		}
		info.Frames[dir] = rects
	}
	for name, rect := range spec.Collision {
		dir, err := common.ParseDirection(name)
		if err != nil {
			return obj.SpriteInfo{}, err
		}
		info.Collision[dir] = rect.Rect()
	}
	return info, nil
}

func buildReaction(spec *ReactionSpec) (obj.Reaction, error) {
	if spec.Script == "" {
		return obj.StaticReaction(spec.Lines), nil
	}
	src, err := LoadScript(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("reaction script %s: %w", spec.Script, err)
	}
	return obj.NewScriptReaction(spec.Script, src)
}
