// Package memory provides a process-local bookmark store.
// Nothing survives the process; it backs tests and the "memory" adapter.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/aretw0/dogear/pkg/core"
)

// Repository implements core.Repository with a map.
type Repository struct {
	mu       sync.RWMutex
	items    map[core.BookmarkID]core.Bookmark
	lastID   core.BookmarkID
	readOnly bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithReadOnly rejects every mutation with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(r *Repository) {
		r.readOnly = enabled
	}
}

// WithBookmarks seeds the repository. Seeded ids are kept; later inserts
// continue after the highest one.
func WithBookmarks(bookmarks ...core.Bookmark) Option {
	return func(r *Repository) {
		for _, b := range bookmarks {
			if !b.ID.Valid() {
				r.lastID++
				b.ID = r.lastID
			}
			if b.ID > r.lastID {
				r.lastID = b.ID
			}
			r.items[b.ID] = clone(b)
		}
	}
}

// NewRepository creates an empty in-memory repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{items: make(map[core.BookmarkID]core.Bookmark)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Initialize(ctx context.Context) error { return ctx.Err() }

func (r *Repository) List(ctx context.Context) ([]core.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Bookmark, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, clone(b))
	}
	slices.SortFunc(out, func(a, b core.Bookmark) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *Repository) Insert(ctx context.Context, b core.Bookmark) (core.BookmarkID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return 0, core.ErrReadOnly
	}
	for _, existing := range r.items {
		if existing.URL == b.URL {
			return 0, core.ErrDuplicateURL
		}
	}
	r.lastID++
	b.ID = r.lastID
	r.items[b.ID] = clone(b)
	return b.ID, nil
}

func (r *Repository) Update(ctx context.Context, b core.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return core.ErrReadOnly
	}
	if _, ok := r.items[b.ID]; !ok {
		return core.ErrNotFound
	}
	for id, existing := range r.items {
		if id != b.ID && existing.URL == b.URL {
			return core.ErrDuplicateURL
		}
	}
	r.items[b.ID] = clone(b)
	return nil
}

func (r *Repository) Delete(ctx context.Context, id core.BookmarkID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return core.ErrReadOnly
	}
	if _, ok := r.items[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory"
}

func clone(b core.Bookmark) core.Bookmark {
	b.Tags = slices.Clone(b.Tags)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b
}
