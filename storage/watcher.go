package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"young-portfolio/gallery"
)

// Watcher invalidates the derived-view cache whenever a category document
// changes on disk, so out-of-band edits (sync commands, manual fixes) are
// picked up without a restart.
type Watcher struct {
	Log      *zap.Logger
	Cache    *gallery.ViewCache
	OnChange func()
}

// Watch observes dir until ctx is done. JSON writes, creates, renames and
// removes clear the cache and trigger OnChange.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					w.Log.Info("store file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
					w.Cache.Clear()
					if w.OnChange != nil {
						w.OnChange()
					}
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.Log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
