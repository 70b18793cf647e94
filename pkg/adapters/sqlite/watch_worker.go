package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/dogear/pkg/core"
)

const defaultEventBuffer = 100

// Watch reports local mutations as they happen and commits made by other
// processes (buku, another host) once the database files settle.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}
	version, err := dataVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// SQLite replaces -journal and -wal files, so the directory is watched
	// rather than the database file itself.
	if err := watcher.Add(filepath.Dir(r.Path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(r.Path), err)
	}

	w := &watchWorker{
		repo:        r,
		watcher:     watcher,
		pattern:     escapePattern(filepath.Base(r.Path)) + "*",
		events:      make(chan core.Event, defaultEventBuffer),
		lastVersion: version,
	}
	r.subscribe(w.events)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher panic: %w", err))
	}))
	return w.events, nil
}

type watchWorker struct {
	repo        *Repository
	watcher     *fsnotify.Watcher
	pattern     string
	events      chan core.Event
	lastVersion int64
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
		w.repo.unsubscribe(w.events)
		close(w.events)
	}()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.repo.config.Debounce)
			} else {
				timer.Reset(w.repo.config.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.repo.reportError(fmt.Errorf("fsnotify: %w", err))
		case <-fire:
			fire = nil
			w.checkExternal(ctx)
		}
	}
}

func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.Base(event.Name))
	return err == nil && ok
}

// checkExternal compares data_version with the last observed value. Local
// commits leave it untouched, so a change means another connection wrote.
func (w *watchWorker) checkExternal(ctx context.Context) {
	db, err := w.repo.handle()
	if err != nil {
		return
	}
	version, err := dataVersion(ctx, db)
	if err != nil {
		if ctx.Err() == nil {
			w.repo.reportError(err)
		}
		return
	}
	if version == w.lastVersion {
		return
	}
	w.lastVersion = version
	w.repo.cache.Invalidate()
	w.repo.recordExternal()
	w.repo.config.Logger.Debug("external database change detected", "path", w.repo.Path)

	select {
	case w.events <- core.Event{Type: core.EventExternal, Timestamp: time.Now().Unix()}:
	case <-ctx.Done():
	}
}

func (r *Repository) subscribe(ch chan core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers[ch] = struct{}{}
}

func (r *Repository) unsubscribe(ch chan core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, ch)
}

func (r *Repository) recordExternal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastExternal = &now
}

func escapePattern(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch c {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
