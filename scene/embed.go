package scene

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

// DiskDir is searched before the embedded scenes so edited files win.
var DiskDir = "scenes"

// Load returns the raw bytes of a scene. name may be a path to a file on
// disk, a file under DiskDir or one of the embedded scenes.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile("scenes/" + clean)
}

// ModTime reports when the disk copy of a scene last changed.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		info, err = os.Stat(diskScenePath(cleanScenePath(name)))
	}
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// List returns the names of the embedded scenes.
func List() ([]string, error) {
	entries, err := fs.ReadDir(ScenesFS, "scenes")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func diskScenePath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
