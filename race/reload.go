package race

import (
	"path/filepath"
	"strings"

	"github.com/milk9111/kartphysics/scene"
	"github.com/milk9111/kartphysics/script"
	"github.com/rotisserie/eris"
)

// Open loads a scene by name or path and remembers where it came from so
// edits to that file can be applied with ApplyChange.
func (w *World) Open(name string) error {
	s, err := scene.LoadScene(name, w.log)
	if err != nil {
		return err
	}
	if err := w.LoadScene(s); err != nil {
		return err
	}
	w.source = name
	return nil
}

// ApplyChange reacts to an edited content file. A script is recompiled on
// its next run; the open scene is rebuilt with the karts left in place.
// Other files are ignored.
func (w *World) ApplyChange(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tengo":
		name := script.NameFromPath(path)
		w.scripts.Invalidate(name)
		w.log.Info().Str("script", name).Msg("script changed")
		return nil
	case ".yaml", ".yml":
		if w.source == "" || baseName(path) != baseName(w.source) {
			return nil
		}
		s, err := scene.LoadScene(w.source, w.log)
		if err != nil {
			return eris.Wrap(err, "race: reload scene")
		}
		return w.ReloadScene(s)
	}
	return nil
}

func (w *World) Source() string { return w.source }

func baseName(path string) string {
	b := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(b, filepath.Ext(b))
}
