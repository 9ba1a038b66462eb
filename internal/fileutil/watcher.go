// Package fileutil watches files for changes.
package fileutil

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/pucrs-ages/sarc-gateway/internal/log"
)

// A Watcher watches files for changes.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	binds   []chan struct{}
}

// NewWatcher creates a new Watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch adds filePath to the watched set, initializing the underlying
// watcher on first use.
func (w *Watcher) Watch(ctx context.Context, filePath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		w.watcher = fw
		go w.run(ctx)
	}
	return w.watcher.Add(filePath)
}

// Bind returns a channel that receives a notification whenever any watched
// file changes.
func (w *Watcher) Bind() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan struct{}, 1)
	w.binds = append(w.binds, ch)
	return ch
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.notify()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error(ctx).Err(err).Msg("fileutil/watcher: watch error")
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.binds {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
