package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch monitors a YAML config file and invokes onChange with the freshly
// loaded configuration whenever the file is written or recreated. Intended
// for long-running hosts that rotate client secrets without restarting.
// Watch returns once the watcher is installed; it stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	if onChange == nil {
		return fmt.Errorf("config watch: onChange callback is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	// Watch the directory so editors that replace the file (rename+create)
	// keep triggering events.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("config watch %s: %w", path, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		target = path
	}

	go func() {
		defer func() {
			if errClose := watcher.Close(); errClose != nil {
				log.Debugf("config watch: close: %v", errClose)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				abs, errAbs := filepath.Abs(event.Name)
				if errAbs != nil || abs != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, errLoad := Load(path)
				if errLoad != nil {
					log.Warnf("config watch: reload failed: %v", errLoad)
					continue
				}
				log.Debugf("config watch: reloaded %s", path)
				onChange(cfg)
			case errWatch, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watch: %v", errWatch)
			}
		}
	}()
	return nil
}
