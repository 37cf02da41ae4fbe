package config

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors produce on save.
const debounce = 100 * time.Millisecond

// BuildFunc turns a freshly loaded Config into Options, typically after
// applying command-line overrides.
type BuildFunc func(*Config) (*Options, error)

// Watch sends new Options each time the config file at path changes, until
// ctx is done. The parent directory is watched so that files replaced by
// rename are picked up. Files that fail to load are logged and skipped.
func Watch(ctx context.Context, path string, build BuildFunc, logger *log.Logger) (<-chan *Options, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watch: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config watch %s: %w", dir, err)
	}

	out := make(chan *Options, 1)
	go func() {
		defer watcher.Close()
		defer close(out)

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("config watch: %v", err)
			case <-fire:
				fire = nil
				cfg, err := LoadConfig(path)
				if err != nil {
					logger.Printf("config reload: %v", err)
					continue
				}
				opts, err := build(cfg)
				if err != nil {
					logger.Printf("config reload: %v", err)
					continue
				}
				select {
				case out <- opts:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
