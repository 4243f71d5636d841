package main

import (
	"context"
	"fmt"

	"github.com/milk9111/tilewalk/obj"
	"github.com/milk9111/tilewalk/prefabs"
)

// report summarises one scene.
type report struct {
	Name     string
	Cols     int
	Rows     int
	Objects  int
	Blocking int
	Overlaps [][2]string
	Unmoored []string
}

func (r report) OK() bool {
	return len(r.Overlaps) == 0 && len(r.Unmoored) == 0
}

// check builds and loads a scene and looks for start positions that
// overlap another blocking entity or lie outside the map.
func check(ctx context.Context, name string, textures obj.TextureSource) (report, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return report{}, err
	}
	s, err := prefabs.BuildScene(spec, textures)
	if err != nil {
		return report{}, err
	}
	if err := s.Load(ctx); err != nil {
		return report{}, err
	}
	if err := s.DrawMap(); err != nil {
		return report{}, err
	}

	r := report{
		Name:     s.Name(),
		Rows:     len(spec.Rows),
		Objects:  len(s.Objects()),
		Blocking: len(s.Blocking()),
	}
	if len(spec.Rows) > 0 {
		r.Cols = len([]rune(spec.Rows[0]))
	}

	overlaps, err := s.Overlaps()
	if err != nil {
		return report{}, err
	}
	for _, pair := range overlaps {
		r.Overlaps = append(r.Overlaps, [2]string{pair[0].Name(), pair[1].Name()})
	}

	w, h := s.Size()
	for _, o := range s.Objects() {
		area, err := o.CollisionArea()
		if err != nil {
			return report{}, fmt.Errorf("%s: %w", o.Name(), err)
		}
		if area.X < 0 || area.Y < 0 || area.Right() > w || area.Bottom() > h {
			r.Unmoored = append(r.Unmoored, o.Name())
		}
	}
	return r, nil
}
