package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a source must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports Java sources that are created or written under a set of
// directory trees.
type Watcher struct {
	w        *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration
}

// NewWatcher watches roots recursively. Files among roots are watched
// through their directory. A nil logger discards.
func NewWatcher(log *slog.Logger, roots ...string) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, log: log, debounce: DefaultDebounce}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := fw.addTree(root); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		fw.log.Debug("watching", "dir", path)
		return fw.w.Add(path)
	})
}

// Run calls onChange for every Java source created or written until ctx is
// done or the watcher fails. Bursts of events on one path, such as an editor
// truncating and then writing a file, are reported once after the path has
// been quiet for the debounce interval. onChange runs on the caller's
// goroutine. New directories are watched as they appear.
func (fw *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	ready := make(chan string)
	done := make(chan struct{})
	timers := make(map[string]*time.Timer)
	defer func() {
		close(done)
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-ready:
			delete(timers, path)
			onChange(path)
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fw.addTree(ev.Name); err != nil {
						fw.log.Warn("cannot watch directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && IsSource(ev.Name) {
				if t, ok := timers[ev.Name]; ok && t.Reset(fw.debounce) {
					continue
				}
				path := ev.Name
				timers[path] = time.AfterFunc(fw.debounce, func() {
					select {
					case ready <- path:
					case <-done:
					}
				})
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Close stops watching.
func (fw *Watcher) Close() error { return fw.w.Close() }
