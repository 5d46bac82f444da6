package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsContentFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]Root{{Dir: dir, Exts: []string{".yaml"}}})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	track := filepath.Join(dir, "track.yaml")
	require.NoError(t, os.WriteFile(track, []byte("name: t\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, track, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for track.yaml")
	}
}

func TestWatcherFiltersPerRoot(t *testing.T) {
	scenes := t.TempDir()
	scripts := t.TempDir()
	w, err := NewWatcher([]Root{
		{Dir: scenes, Exts: []string{".yaml"}},
		{Dir: scripts, Exts: []string{".tengo"}},
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	// A script dropped in the scene root is not scene content.
	require.NoError(t, os.WriteFile(filepath.Join(scenes, "stray.tengo"), []byte("x"), 0o644))
	gate := filepath.Join(scripts, "gate.tengo")
	require.NoError(t, os.WriteFile(gate, []byte("x := 1\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, gate, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for gate.tengo")
	}
}

func TestWatcherNeedsRoots(t *testing.T) {
	_, err := NewWatcher(nil)
	assert.Error(t, err)
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher([]Root{{Dir: filepath.Join(t.TempDir(), "missing"), Exts: []string{".yaml"}}})
	assert.Error(t, err)
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher([]Root{{Dir: t.TempDir()}})
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
}

func TestRootAccepts(t *testing.T) {
	root := SceneRoot()
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(DiskDir, "a.yaml"), true},
		{filepath.Join(DiskDir, "b.YML"), true},
		{filepath.Join(DiskDir, "c.tengo"), false},
		{filepath.Join(DiskDir, "d.txt"), false},
		{filepath.Join("elsewhere", "a.yaml"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, root.accepts(tt.path), tt.path)
	}
}
