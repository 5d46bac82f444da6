package race

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/config"
	"github.com/milk9111/kartphysics/scene"
	"github.com/milk9111/kartphysics/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSceneDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := scene.DiskDir
	scene.DiskDir = dir
	t.Cleanup(func() { scene.DiskDir = prev })
	return dir
}

func TestOpenAndApplySceneChange(t *testing.T) {
	dir := useSceneDir(t)
	path := filepath.Join(dir, "track.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testTrack), 0o644))

	cfg := config.Default()
	cfg.Race.Countdown = 0
	w, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Open("track"))
	assert.Equal(t, "track", w.Source())
	assert.Equal(t, 9, w.Objects().Len())
	assert.Equal(t, 2, w.KartCount())

	// unrelated files leave the scene alone
	require.NoError(t, w.ApplyChange(filepath.Join(dir, "other.yaml")))
	assert.Equal(t, 9, w.Objects().Len())

	edited := "name: test\nobjects:\n  - name: post\n    physics: {shape: box}\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	require.NoError(t, w.ApplyChange(path))
	assert.Equal(t, 1, w.Objects().Len())
	assert.Equal(t, 2, w.KartCount())
	_, ok := w.Objects().FindByID("post")
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("objects: [oops"), 0o644))
	assert.Error(t, w.ApplyChange(path))
	assert.Equal(t, 1, w.Objects().Len())
}

func TestOpenMissingScene(t *testing.T) {
	useSceneDir(t)
	w, err := New(config.Default())
	require.NoError(t, err)
	assert.Error(t, w.Open("nowhere"))
	assert.Empty(t, w.Source())
}

func TestApplyScriptChange(t *testing.T) {
	loads := 0
	rt := script.New(script.WithLoader(func(string) ([]byte, error) {
		loads++
		return []byte(`message = "hi"`), nil
	}))
	w := newTestWorld(t, WithScripts(rt))
	pk := playerKart(t, w)
	pad := object(t, w, "pad")

	touch(w, pk.Base(), pad, mgl64.Vec3{-1, 0, 0})
	require.True(t, rt.Cached("pad"))

	require.NoError(t, w.ApplyChange("scripts/pad.tengo"))
	assert.False(t, rt.Cached("pad"))

	touch(w, pk.Base(), pad, mgl64.Vec3{-1, 0, 0})
	assert.Equal(t, 2, loads)
}

func TestApplyChangeIgnoresOtherFiles(t *testing.T) {
	w := newTestWorld(t)
	assert.NoError(t, w.ApplyChange("notes.txt"))
	// scenes parsed in memory have no source file
	assert.NoError(t, w.ApplyChange("test.yaml"))
	assert.Equal(t, 9, w.Objects().Len())
}
