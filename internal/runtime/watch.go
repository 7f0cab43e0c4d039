package runtime

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stridekit/strider/internal/config"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// parsed result to apply. Editors that write via rename are covered by
// watching the directory rather than the file itself.
type Watcher struct {
	fsw   *fsnotify.Watcher
	path  string
	apply func(*config.Config)

	closeOnce sync.Once
	done      chan struct{}
}

func WatchConfig(path string, apply func(*config.Config)) (*Watcher, error) {
	if apply == nil {
		return nil, fmt.Errorf("watch config: nil apply func")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	w := &Watcher{
		fsw:   fsw,
		path:  abs,
		apply: apply,
		done:  make(chan struct{}),
	}
	go w.run()
	slog.Info("Watching config for changes", "path", abs)
	return w, nil
}

func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.fsw.Close()
		<-w.done
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce the burst of events a single save produces.
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, w.reload)
			} else {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		slog.Warn("Config reload failed, keeping current tuning", "path", w.path, "error", err)
		return
	}
	slog.Info("Config reloaded", "path", w.path)
	w.apply(cfg)
}
