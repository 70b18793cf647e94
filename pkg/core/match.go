package core

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchURL filters bookmarks whose URL matches the glob pattern.
// Patterns follow doublestar syntax, so "https://github.com/**" matches
// every page under that host. An empty pattern matches everything.
func MatchURL(bookmarks []Bookmark, pattern string) ([]Bookmark, error) {
	if pattern == "" {
		return bookmarks, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid url pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		ok, err := doublestar.Match(pattern, b.URL)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", b.URL, err)
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}
