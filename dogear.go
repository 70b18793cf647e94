package dogear

import (
	"log/slog"
	"time"

	"github.com/aretw0/dogear/internal/platform"
	"github.com/aretw0/dogear/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring the bookmark service.
type Option = platform.Option

// Adapter names.
const (
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithLogger sets the logger for the storage adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithReadOnly opens the store without write access.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithWatchDebounce sets the quiet period the database watcher waits for.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// WithWatcherErrorHandler registers a callback for errors in the watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSeed preloads the memory adapter.
func WithSeed(bookmarks ...core.Bookmark) Option {
	return platform.WithSeed(bookmarks...)
}

// --- Factory ---

// New creates a bookmark Service. An empty path selects buku's default database.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// DefaultDatabasePath returns buku's database location for the current user.
func DefaultDatabasePath() (string, error) {
	return platform.DefaultDatabasePath()
}
