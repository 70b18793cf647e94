package host

import (
	"context"

	"github.com/aretw0/dogear/pkg/core"
)

// Store is the persistence collaborator the router dispatches to.
// *core.Service satisfies it.
type Store interface {
	ListBookmarks(ctx context.Context) ([]core.Bookmark, error)
	AddBookmark(ctx context.Context, b core.Bookmark) (core.BookmarkID, error)
	UpdateBookmark(ctx context.Context, b core.Bookmark) error
	DeleteBookmark(ctx context.Context, id core.BookmarkID) error
}

// Route maps a request to its response, issuing at most one store call.
//
// Only GET reports why the store failed; mutations collapse every store
// error to {"success": false}.
func Route(ctx context.Context, store Store, version string, req Request) Response {
	switch r := req.(type) {
	case ListRequest:
		bookmarks, err := store.ListBookmarks(ctx)
		if err != nil {
			return Status{Success: false, Message: errorText(err)}
		}
		if bookmarks == nil {
			bookmarks = []core.Bookmark{}
		}
		return BookmarkList{Success: true, Bookmarks: bookmarks}
	case OptionsRequest:
		return VersionInfo{Success: true, BinaryVersion: version}
	case CreateRequest:
		_, err := store.AddBookmark(ctx, r.Bookmark)
		return result(err)
	case UpdateRequest:
		return result(store.UpdateBookmark(ctx, r.Bookmark))
	case RejectedUpdateRequest:
		return Status{Success: false}
	case DeleteRequest:
		return result(store.DeleteBookmark(ctx, r.ID))
	default:
		return Unknown()
	}
}

func errorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "failed to list bookmarks"
}
