package host_test

import (
	"context"
	"errors"

	"github.com/aretw0/dogear/pkg/core"
)

// fakeStore records every call so tests can assert dispatch counts.
type fakeStore struct {
	bookmarks []core.Bookmark
	nextID    core.BookmarkID
	err       error
	panicOn   string
	calls     map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int)}
}

func (f *fakeStore) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) enter(op string) error {
	f.calls[op]++
	if f.panicOn == op {
		panic("store exploded")
	}
	return f.err
}

func (f *fakeStore) ListBookmarks(ctx context.Context) ([]core.Bookmark, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	return append([]core.Bookmark(nil), f.bookmarks...), nil
}

func (f *fakeStore) AddBookmark(ctx context.Context, b core.Bookmark) (core.BookmarkID, error) {
	if err := f.enter("insert"); err != nil {
		return 0, err
	}
	f.nextID++
	b.ID = f.nextID
	f.bookmarks = append(f.bookmarks, b)
	return b.ID, nil
}

func (f *fakeStore) UpdateBookmark(ctx context.Context, b core.Bookmark) error {
	if err := f.enter("update"); err != nil {
		return err
	}
	for i := range f.bookmarks {
		if f.bookmarks[i].ID == b.ID {
			f.bookmarks[i] = b
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) DeleteBookmark(ctx context.Context, id core.BookmarkID) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	for i := range f.bookmarks {
		if f.bookmarks[i].ID == id {
			f.bookmarks = append(f.bookmarks[:i], f.bookmarks[i+1:]...)
			return nil
		}
	}
	return errors.New("no such bookmark")
}
