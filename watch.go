package pubfolio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"
)

const watchDebounce = 500 * time.Millisecond

// Watch invalidates the cache whenever a file under the content or data
// directory changes. Bursts of events are collapsed into one invalidation.
// It blocks until ctx is done.
func (c *SiteCache) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, root := range []string{c.dirs.Content, c.dirs.Pages, c.dirs.Data} {
		if root == "" {
			continue
		}
		n, err := addTree(w, root)
		if err != nil {
			log.Warnf("watch %s: %v", root, err)
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("watch: no directories to watch")
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !affectsContent(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if _, err := addTree(w, ev.Name); err != nil {
						log.Warnf("watch %s: %v", ev.Name, err)
					}
				}
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				log.Infof("content changed, reloading")
				c.Invalidate()
			})
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %v", err)
		}
	}
}

// affectsContent reports whether ev can change what the cache loads. Only
// markdown and JSON files count, plus extensionless names so directory
// creation and removal are seen. Anything else in the watched trees (the
// analytics database and its -wal/-shm files, editor swap files, images)
// is ignored.
func affectsContent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".md", ".json", "":
		return true
	}
	return false
}

// addTree adds root and every directory below it to w.
func addTree(w *fsnotify.Watcher, root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
