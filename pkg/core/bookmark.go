package core

import (
	"sort"
	"strings"
)

// BookmarkID is the store-assigned handle of a persisted bookmark.
// The zero value means the bookmark has not been persisted yet.
type BookmarkID int64

// Valid reports whether the id can refer to a stored bookmark.
func (id BookmarkID) Valid() bool {
	return id > 0
}

// Bookmark is the central entity of the domain.
// Tags group bookmarks; Flags carries ordering/state bits owned by the client.
type Bookmark struct {
	ID    BookmarkID `json:"id,omitempty" yaml:"id,omitempty"`
	URL   string     `json:"url" yaml:"url"`
	Title string     `json:"title" yaml:"title"`
	Desc  string     `json:"desc" yaml:"desc"`
	Tags  []string   `json:"tags" yaml:"tags"`
	Flags int        `json:"flags" yaml:"flags"`
}

// HasID reports whether the bookmark carries an identifier.
func (b Bookmark) HasID() bool {
	return b.ID != 0
}

// Normalize canonicalises the tag set. URL, title and description are
// stored exactly as given.
func (b Bookmark) Normalize() Bookmark {
	b.Tags = NormalizeTags(b.Tags)
	return b
}

// NormalizeTags splits comma-joined entries, drops empties and duplicates,
// and returns the tags sorted. The result is never nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
