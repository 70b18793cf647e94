package core

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// Service handles the business logic for bookmarks.
// It is the store the native-messaging host talks to.
type Service struct {
	mu   sync.RWMutex
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListBookmarks returns every stored bookmark.
func (s *Service) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	bookmarks, err := s.repository().List(ctx)
	if err != nil {
		return nil, err
	}
	if bookmarks == nil {
		bookmarks = []Bookmark{}
	}
	return bookmarks, nil
}

// SearchBookmarks lists bookmarks whose URL matches a glob pattern.
func (s *Service) SearchBookmarks(ctx context.Context, pattern string) ([]Bookmark, error) {
	bookmarks, err := s.ListBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return MatchURL(bookmarks, pattern)
}

// AddBookmark validates and stores a new bookmark.
// Any id on b is discarded; the store assigns one.
func (s *Service) AddBookmark(ctx context.Context, b Bookmark) (BookmarkID, error) {
	b = b.Normalize()
	b.ID = 0
	if err := validate(b); err != nil {
		return 0, err
	}
	return s.repository().Insert(ctx, b)
}

// UpdateBookmark replaces an existing bookmark. The bookmark must carry an id.
func (s *Service) UpdateBookmark(ctx context.Context, b Bookmark) error {
	if !b.HasID() {
		return ErrMissingID
	}
	b = b.Normalize()
	if err := validate(b); err != nil {
		return err
	}
	return s.repository().Update(ctx, b)
}

// DeleteBookmark removes a bookmark.
func (s *Service) DeleteBookmark(ctx context.Context, id BookmarkID) error {
	if id == 0 {
		return ErrMissingID
	}
	return s.repository().Delete(ctx, id)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repository().(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	return w.Watch(ctx)
}

// Close releases the repository if it holds resources.
func (s *Service) Close() error {
	if c, ok := s.repository().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) repository() Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

func validate(b Bookmark) error {
	raw := strings.TrimSpace(b.URL)
	if raw == "" {
		return fmt.Errorf("%w: url cannot be empty", ErrInvalidBookmark)
	}
	if _, err := url.Parse(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBookmark, err)
	}
	return nil
}
