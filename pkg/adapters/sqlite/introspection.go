package sqlite

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path               string     `json:"path"`
	Open               bool       `json:"open"`
	ReadOnly           bool       `json:"read_only"`
	CachedBookmarks    int        `json:"cached_bookmarks"`
	Watchers           int        `json:"watchers"`
	LastExternalChange *time.Time `json:"last_external_change,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:               r.Path,
		Open:               r.db != nil,
		ReadOnly:           r.config.ReadOnly,
		CachedBookmarks:    r.cache.Len(),
		Watchers:           len(r.watchers),
		LastExternalChange: r.lastExternal,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
