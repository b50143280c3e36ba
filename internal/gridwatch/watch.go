// Package gridwatch watches a directory of grid JSON files and invokes a
// callback whenever one is created or modified, for the watch subcommand
// of tinkerblocksctl. No teacher or pack repo exercises fsnotify with full
// source present, so this package follows the library's own documented
// watch-loop idiom rather than a specific file in the corpus (see
// DESIGN.md).
package gridwatch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/tinkerblocks/core/core/types"
)

// Handler is invoked once per create or write event on a *.json file under
// the watched directory; events are not debounced, so a single file save
// can invoke it more than once.
type Handler func(path string)

// Watch blocks, dispatching h for every create/write event on a .json file
// directly inside dir, until ctx is cancelled or the watcher fails.
func Watch(ctx context.Context, dir string, sink types.Sink, h Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	sink("watching "+dir+" for grid changes", types.Info)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			sink("watch error: "+err.Error(), types.Warning)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
				continue
			}
			sink("detected change: "+ev.Name, types.Info)
			h(ev.Name)
		}
	}
}
