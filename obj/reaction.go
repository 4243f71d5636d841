package obj

import (
	"context"
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilewalk/common"
)

// ReactionContext is what a reaction knows about the interaction.
type ReactionContext struct {
	Speaker string
	// Facing is the direction the player faces while talking.
	Facing common.Direction
	// Visits counts interactions with the speaker, starting at 1.
	Visits int
}

// Reaction produces the dialog lines an object says when interacted with.
type Reaction interface {
	React(ctx context.Context, rc ReactionContext) ([]string, error)
}

// StaticReaction always says the same lines.
type StaticReaction []string

func (r StaticReaction) React(context.Context, ReactionContext) ([]string, error) {
	out := make([]string, len(r))
	copy(out, r)
	return out, nil
}

// ScriptReaction runs a tengo script. The script sees the globals name,
// facing and visits and must leave its dialog in a global named lines,
// either a string or an array of strings.
type ScriptReaction struct {
	path string

	mu       sync.Mutex
	compiled *tengo.Compiled
}

// NewScriptReaction compiles src. path is only used in error messages.
func NewScriptReaction(path string, src []byte) (*ScriptReaction, error) {
	script := tengo.NewScript(src)
	_ = script.Add("name", "")
	_ = script.Add("facing", "")
	_ = script.Add("visits", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("reaction script %s: %w", path, err)
	}
	return &ScriptReaction{path: path, compiled: compiled}, nil
}

func (r *ScriptReaction) React(ctx context.Context, rc ReactionContext) ([]string, error) {
	r.mu.Lock()
	run := r.compiled.Clone()
	r.mu.Unlock()

	if err := run.Set("name", rc.Speaker); err != nil {
		return nil, err
	}
	if err := run.Set("facing", rc.Facing.String()); err != nil {
		return nil, err
	}
	if err := run.Set("visits", rc.Visits); err != nil {
		return nil, err
	}
	if err := run.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("reaction script %s: %w", r.path, err)
	}

	switch v := run.Get("lines").Value().(type) {
	case string:
		return []string{v}, nil
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			lines = append(lines, fmt.Sprint(item))
		}
		return lines, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("reaction script %s: lines has type %T", r.path, v)
	}
}
