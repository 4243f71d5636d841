package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml scenes/*.yaml
var PrefabsFS embed.FS

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// ModTime returns the modification time of the disk copy of name.
func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Stamps remembers the last seen modification time of prefab files.
type Stamps map[string]time.Time

// Changed reports whether name was modified since it was last seen. A file
// with no disk copy always counts as changed.
func (s Stamps) Changed(name string) bool {
	mt, ok := ModTime(name)
	if !ok {
		delete(s, name)
		return true
	}
	if prev, seen := s[name]; seen && prev.Equal(mt) {
		return false
	}
	s[name] = mt
	return true
}

// SceneNames lists the scene files, embedded and on disk, without extension.
func SceneNames() ([]string, error) {
	var names []string
	entries, err := fs.ReadDir(PrefabsFS, "scenes")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list scenes: %w", err)
	}
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	if disk, err := os.ReadDir(filepath.Join("prefabs", "scenes")); err == nil {
		for _, e := range disk {
			if isSpecFile(e.Name()) {
				names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// ScenePath returns the prefab path of a scene file.
func ScenePath(name string) string {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return cleanPrefabPath(name)
	}
	return fmt.Sprintf("scenes/%s.yaml", name)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
