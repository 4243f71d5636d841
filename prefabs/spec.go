package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/tilewalk/common"
	"github.com/milk9111/tilewalk/input"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec is the game-wide tuning in game.yaml.
type GameSpec struct {
	Title       string          `yaml:"title"`
	Scene       string          `yaml:"scene"`
	Viewport    ViewportSpec    `yaml:"viewport"`
	Camera      CameraSpec      `yaml:"camera"`
	Joystick    JoystickSpec    `yaml:"joystick"`
	Interaction InteractionSpec `yaml:"interaction"`
	Debug       DebugSpec       `yaml:"debug"`
}

type ViewportSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CameraSpec struct {
	Margin float64 `yaml:"margin"`
}

type JoystickSpec struct {
	DeadZone          float64 `yaml:"dead_zone"`
	FullSpeedDistance float64 `yaml:"full_speed_distance"`
	PartialAcc        float64 `yaml:"partial_acc"`
	FullAcc           float64 `yaml:"full_acc"`
	MoveIntervalMS    int     `yaml:"move_interval_ms"`
}

type InteractionSpec struct {
	EdgeThreshold   float64 `yaml:"edge_threshold"`
	CenterTolerance float64 `yaml:"center_tolerance"`
}

type DebugSpec struct {
	BlockingColor *YAMLColor `yaml:"blocking_color"`
	PlayerColor   *YAMLColor `yaml:"player_color"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// InputConfig returns the joystick tuning for a viewport of width viewW.
// Zero fields keep the defaults.
func (g *GameSpec) InputConfig(viewW float64) input.Config {
	cfg := input.DefaultConfig(viewW)
	j := g.Joystick
	if j.DeadZone > 0 {
		cfg.DeadZone = j.DeadZone
	}
	if j.FullSpeedDistance > 0 {
		cfg.FullSpeedDistance = j.FullSpeedDistance
	}
	if j.PartialAcc > 0 {
		cfg.PartialAcc = j.PartialAcc
	}
	if j.FullAcc > 0 {
		cfg.FullAcc = j.FullAcc
	}
	if j.MoveIntervalMS > 0 {
		cfg.MoveInterval = time.Duration(j.MoveIntervalMS) * time.Millisecond
	}
	return cfg
}

// SceneSpec is one scene file: a tile grid drawn from a legend plus the
// objects standing on it.
type SceneSpec struct {
	Name    string              `yaml:"name"`
	Tileset string              `yaml:"tileset"`
	Legend  map[string]TileSpec `yaml:"legend"`
	Rows    []string            `yaml:"rows"`
	Player  string              `yaml:"player"`
	Objects []ObjectSpec        `yaml:"objects"`
}

// TileSpec describes the tile a legend character stands for.
type TileSpec struct {
	Name     string `yaml:"name"`
	Frame    [4]int `yaml:"frame"`
	Passable bool   `yaml:"passable"`
}

type ObjectSpec struct {
	Name     string                `yaml:"name"`
	Position PointSpec             `yaml:"position"`
	Facing   common.Direction      `yaml:"facing"`
	ZIndex   *float64              `yaml:"z_index"`
	Passable bool                  `yaml:"passable"`
	Sprites  map[string]SpriteSpec `yaml:"sprites"`
	Reaction *ReactionSpec         `yaml:"reaction"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpriteSpec is one sprite variant: frames and collision boxes keyed by
// facing name.
type SpriteSpec struct {
	Image     string              `yaml:"image"`
	Frames    map[string][][4]int `yaml:"frames"`
	Collision map[string]RectSpec `yaml:"collision"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (r RectSpec) Rect() common.Rect {
	return common.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}

// ReactionSpec is either fixed dialog lines or a tengo script.
type ReactionSpec struct {
	Lines  []string `yaml:"lines"`
	Script string   `yaml:"script"`
}

func LoadSceneSpec(name string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](ScenePath(name))
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = name
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// ColorOr returns c, or fallback when c is unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
