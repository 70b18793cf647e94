package core

import "errors"

// Common errors.
var (
	ErrReadOnly        = errors.New("store is in read-only mode")
	ErrNotFound        = errors.New("bookmark not found")
	ErrMissingID       = errors.New("bookmark id is required")
	ErrInvalidBookmark = errors.New("invalid bookmark")
	ErrDuplicateURL    = errors.New("a bookmark with this url already exists")
	ErrNotWatchable    = errors.New("repository does not support watching")
)
