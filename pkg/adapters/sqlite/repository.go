// Package sqlite provides a SQLite-backed bookmark repository.
//
// The table layout matches buku's bookmarks database, so the host can serve
// an existing buku library and buku can read what the host writes.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/aretw0/dogear/pkg/core"
)

//go:embed schema.sql
var schemaSQL string

const busyTimeoutMillis = 5000

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
	// ErrorHandler receives failures from background watchers.
	ErrorHandler func(error)
	// Debounce coalesces bursts of filesystem events. Zero means 50ms.
	Debounce time.Duration
}

// Repository implements core.Repository on top of a SQLite file.
type Repository struct {
	Path   string
	config Config
	cache  *cache

	mu           sync.RWMutex
	db           *sql.DB
	watchers     map[chan core.Event]struct{}
	lastExternal *time.Time
}

// NewRepository creates a repository. Call Initialize before use.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Repository{
		Path:     filepath.Clean(config.Path),
		config:   config,
		cache:    newCache(),
		watchers: make(map[chan core.Event]struct{}),
	}
}

// Initialize opens the database and creates the bookmarks table when missing.
// In read-only mode the file must already exist and the schema is left untouched.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return nil
	}
	if strings.TrimSpace(r.config.Path) == "" {
		return fmt.Errorf("storage path is required")
	}

	if r.config.ReadOnly {
		if _, err := os.Stat(r.Path); err != nil {
			return fmt.Errorf("database does not exist: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", r.Path, busyTimeoutMillis)
	if r.config.ReadOnly {
		dsn += "&_pragma=query_only(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps PRAGMA data_version meaningful for the list cache.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite db: %w", err)
	}
	if !r.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			_ = db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	r.db = db
	r.config.Logger.Debug("sqlite repository opened", "path", r.Path, "read_only", r.config.ReadOnly)
	return nil
}

// Close closes the SQLite handle.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.cache.Invalidate()
	return err
}

// List returns every bookmark ordered by id. Unchanged rows are served from cache.
func (r *Repository) List(ctx context.Context) ([]core.Bookmark, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}

	version, err := dataVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	cached, generation, ok := r.cache.Get(version)
	if ok {
		return cached, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, URL, metadata, tags, "desc", flags FROM bookmarks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []core.Bookmark{}
	for rows.Next() {
		var (
			b                 core.Bookmark
			title, tags, desc sql.NullString
			flags             sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.URL, &title, &tags, &desc, &flags); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.Title = title.String
		b.Tags = decodeTags(tags.String)
		b.Desc = desc.String
		b.Flags = int(flags.Int64)
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	r.cache.Put(generation, version, bookmarks)
	return bookmarks, nil
}

// Insert stores a new bookmark and returns its id.
func (r *Repository) Insert(ctx context.Context, b core.Bookmark) (core.BookmarkID, error) {
	db, err := r.writableHandle()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO bookmarks (URL, metadata, tags, "desc", flags) VALUES (?, ?, ?, ?, ?)`,
		b.URL, b.Title, encodeTags(b.Tags), b.Desc, b.Flags,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", core.ErrDuplicateURL, b.URL)
		}
		return 0, fmt.Errorf("insert bookmark: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	id := core.BookmarkID(lastID)
	r.afterWrite(core.EventCreate, id)
	return id, nil
}

// Update replaces the bookmark identified by b.ID.
func (r *Repository) Update(ctx context.Context, b core.Bookmark) error {
	if !b.ID.Valid() {
		return fmt.Errorf("%w: %d", core.ErrNotFound, b.ID)
	}
	db, err := r.writableHandle()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE bookmarks SET URL = ?, metadata = ?, tags = ?, "desc" = ?, flags = ? WHERE id = ?`,
		b.URL, b.Title, encodeTags(b.Tags), b.Desc, b.Flags, b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateURL, b.URL)
		}
		return fmt.Errorf("update bookmark %d: %w", b.ID, err)
	}
	if err := requireAffected(res, b.ID); err != nil {
		return err
	}

	r.afterWrite(core.EventModify, b.ID)
	return nil
}

// Delete removes the bookmark with the given id.
func (r *Repository) Delete(ctx context.Context, id core.BookmarkID) error {
	db, err := r.writableHandle()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}

	r.afterWrite(core.EventDelete, id)
	return nil
}

func (r *Repository) handle() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, fmt.Errorf("sqlite repository is not initialized")
	}
	return r.db, nil
}

func (r *Repository) writableHandle() (*sql.DB, error) {
	if r.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	return r.handle()
}

// afterWrite drops the cached listing and notifies watchers of a local change.
func (r *Repository) afterWrite(kind core.EventType, id core.BookmarkID) {
	r.cache.Invalidate()
	r.broadcast(core.Event{Type: kind, ID: id, Timestamp: time.Now().Unix()})
}

func (r *Repository) broadcast(e core.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ch := range r.watchers {
		select {
		case ch <- e:
		default:
			r.config.Logger.Warn("watcher buffer full, dropping event", "event", e.String())
		}
	}
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("sqlite watcher error", "error", err)
}

func dataVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64
	if err := db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return version, nil
}

func requireAffected(res sql.Result, id core.BookmarkID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", core.ErrNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
