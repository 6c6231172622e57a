// Package watch groups filesystem events into batches separated by periods of
// inactivity. A recursive fsnotify watcher produces the events and a cooldown
// buffer debounces them, so a burst of file changes arrives as one batch.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	cooldown "github.com/devzbysiu/cooldown-buffer"
)

type Option = func(*Watcher)

// WithLogger sets the logger used to report watcher errors. Defaults to a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("logger can't be nil")
	}
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher recursively watches directories and emits debounced batches of
// filesystem events. Directories created under a watched path are picked up
// automatically; hidden directories are skipped.
type Watcher struct {
	buffer  *cooldown.Buffer[fsnotify.Event]
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	ctx       context.Context
	stop      func()
	closeOnce sync.Once
	done      chan struct{}
}

// New creates a watcher whose batches are separated by at least quiet of
// filesystem inactivity.
func New(quiet time.Duration, options ...Option) (*Watcher, error) {
	buffer, err := cooldown.New[fsnotify.Event](quiet)
	if err != nil {
		return nil, fmt.Errorf("create cooldown buffer: %w", err)
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		_ = buffer.Close()
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())

	w := Watcher{
		buffer:  buffer,
		watcher: notify,
		logger:  zap.NewNop(),

		ctx:  ctx,
		stop: stop,
		done: make(chan struct{}),
	}
	for _, opt := range options {
		opt(&w)
	}

	go w.run()

	return &w, nil
}

// Batches yields one batch of events per quiet period. The channel is closed
// when the watcher is closed.
func (w *Watcher) Batches() <-chan []fsnotify.Event {
	return w.buffer.Batches()
}

// Add starts watching name and all non-hidden directories below it.
func (w *Watcher) Add(name string) error {
	return w.walk(name, w.watcher.Add)
}

// Remove stops watching name and all non-hidden directories below it.
func (w *Watcher) Remove(name string) error {
	return w.walk(name, w.watcher.Remove)
}

// Close stops watching and terminates the underlying buffer. Events that were
// buffered but not yet flushed are discarded.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.stop()
		err = w.watcher.Close()
		<-w.done
		err = errors.Join(err, w.buffer.Close())
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				w.watchCreated(event.Name)
			}
			if err := w.buffer.Send(w.ctx, event); err != nil {
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))

		case <-w.ctx.Done():
			return
		}
	}
}

// watchCreated extends the watch to directories appearing under a watched
// path, mirroring what Add did for directories that existed up front.
func (w *Watcher) watchCreated(name string) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.Add(name); err != nil {
		w.logger.Error("watch created directory",
			zap.String("path", name),
			zap.Error(err),
		)
	}
}

func (w *Watcher) walk(root string, apply func(string) error) error {
	return filepath.WalkDir(
		root,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}

			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}

			return apply(filepath.Clean(path))
		})
}
