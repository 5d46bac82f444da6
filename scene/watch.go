package scene

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
)

// DefaultDebounce drops repeated events for one file inside this window.
const DefaultDebounce = 100 * time.Millisecond

// Root is a content directory and the extensions reloaded from it.
type Root struct {
	Dir  string
	Exts []string
}

// SceneRoot is the on-disk scene directory.
func SceneRoot() Root {
	return Root{Dir: DiskDir, Exts: []string{".yaml", ".yml"}}
}

func (r Root) accepts(path string) bool {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(r.Dir) {
		return false
	}
	return slices.Contains(r.Exts, strings.ToLower(filepath.Ext(path)))
}

// WatchOption tunes a Watcher.
type WatchOption func(*Watcher)

func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher reports changed files under a set of content roots.
type Watcher struct {
	watcher  *fsnotify.Watcher
	roots    []Root
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(roots []Root, opts ...WatchOption) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, eris.New("scene: no content roots to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "scene: create watcher")
	}

	for _, root := range roots {
		if err := w.Add(root.Dir); err != nil {
			_ = w.Close()
			return nil, eris.Wrapf(err, "scene: watch %s", root.Dir)
		}
	}

	watcher := &Watcher{
		watcher:  w,
		roots:    roots,
		debounce: DefaultDebounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(watcher)
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) accepts(path string) bool {
	for _, root := range w.roots {
		if root.accepts(path) {
			return true
		}
	}
	return false
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
