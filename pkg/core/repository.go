package core

import "context"

// Repository defines the contract for storing and retrieving bookmarks.
// Adhering to this interface keeps the core independent of the
// underlying storage mechanism (SQLite, memory).
type Repository interface {
	// List returns every stored bookmark ordered by id.
	List(ctx context.Context) ([]Bookmark, error)

	// Insert persists a new bookmark and returns the id assigned by the store.
	// Any id carried by b is ignored.
	Insert(ctx context.Context, b Bookmark) (BookmarkID, error)

	// Update replaces the bookmark identified by b.ID.
	// It returns ErrNotFound when no such bookmark exists.
	Update(ctx context.Context, b Bookmark) error

	// Delete removes a bookmark by its id.
	Delete(ctx context.Context, id BookmarkID) error

	// Initialize ensures the underlying storage is ready (open handle, create schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report changes.
// The channel is closed once ctx is done.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
