package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Update is the result of reloading a watched config file.
type Update struct {
	Config *Config
	Err    error
}

// Watch reloads the config file at path each time it is written or
// replaced, and delivers the result on the returned channel. The channel is
// closed once ctx is cancelled.
func Watch(ctx context.Context, path string) (<-chan Update, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	// Editors often save by rename, so watch the directory rather than the file.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	updates := make(chan Update, 1)

	go func() {
		defer close(updates)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				select {
				case updates <- Update{Config: cfg, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "error", err)
			}
		}
	}()

	return updates, nil
}
