package tui

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is the quiet period after the last event before a change
// is reported. Editors often truncate and then write, and only the final
// content decodes.
const reloadDebounce = 100 * time.Millisecond

// MapWatcher reports changes to one map file. It watches the containing
// directory so that editors replacing the file by rename are seen too.
type MapWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewMapWatcher starts watching path.
func NewMapWatcher(path string) (*MapWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	mw := &MapWatcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go mw.run()
	return mw, nil
}

// Path returns the absolute path being watched.
func (w *MapWatcher) Path() string { return w.path }

// Close stops the watcher. It is safe to call more than once.
func (w *MapWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *MapWatcher) run() {
	quiet := time.NewTimer(reloadDebounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			quiet.Reset(reloadDebounce)
		case <-quiet.C:
			select {
			case w.Events <- w.path:
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

// mapChangedMsg is delivered when the watched map file changes on disk.
type mapChangedMsg struct{ path string }

// watchErrMsg carries a watcher failure to the model.
type watchErrMsg struct{ err error }

// waitForChange blocks until the next watcher event. The model re-issues it
// after every message to keep listening.
func waitForChange(w *MapWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path := <-w.Events:
			return mapChangedMsg{path: path}
		case err := <-w.Errors:
			return watchErrMsg{err: err}
		case <-w.closeCh:
			return nil
		}
	}
}
