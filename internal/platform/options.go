package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/dogear/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for the bookmark service.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	readOnly     bool
	debounce     time.Duration
	errorHandler func(error)
	seed         []core.Bookmark
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterSQLite,
	}
}

// WithLogger sets the logger passed to the storage adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a repository. Adapter selection is skipped;
// Init still calls its Initialize.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("sqlite" or "memory").
// Defaults to "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithReadOnly enables read-only mode. Writes return core.ErrReadOnly and
// the database file must already exist.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithWatchDebounce sets how long the sqlite watcher waits for a burst of
// filesystem events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside
// the watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithSeed preloads the memory adapter. Ignored by other adapters.
func WithSeed(bookmarks ...core.Bookmark) Option {
	return func(o *options) {
		o.seed = append(o.seed, bookmarks...)
	}
}
