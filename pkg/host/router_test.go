package host_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dogear/pkg/adapters/memory"
	"github.com/aretw0/dogear/pkg/adapters/sqlite"
	"github.com/aretw0/dogear/pkg/core"
	"github.com/aretw0/dogear/pkg/host"
)

const version = "5.0.0"

func route(store host.Store, raw string) host.Response {
	return host.Route(context.Background(), store, version, host.Decode([]byte(raw)))
}

func encode(t *testing.T, res host.Response) string {
	t.Helper()
	b, err := json.Marshal(res)
	require.NoError(t, err)
	return string(b)
}

func TestRoute_OneStoreCallPerValidRequest(t *testing.T) {
	store := newFakeStore()
	store.bookmarks = []core.Bookmark{{ID: 1, URL: "https://a.example"}}
	store.nextID = 1

	requests := map[string]string{
		"list":   `{"method":"GET"}`,
		"insert": `{"method":"POST","data":{"bookmark":{"url":"https://b.example"}}}`,
		"update": `{"method":"PUT","data":{"bookmark":{"id":1,"url":"https://c.example"}}}`,
		"delete": `{"method":"DELETE","data":{"bookmark_id":1}}`,
	}
	for op, raw := range requests {
		before := store.total()
		res := route(store, raw)
		assert.True(t, res.Succeeded(), op)
		assert.Equal(t, 1, store.calls[op], op)
		assert.Equal(t, before+1, store.total(), op)
	}
}

func TestRoute_Options(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("store is down")

	res := route(store, `{"method":"OPTIONS"}`)

	assert.JSONEq(t, `{"success":true,"binaryVersion":"5.0.0"}`, encode(t, res))
	assert.Zero(t, store.total())
}

func TestRoute_PutWithoutIDNeverReachesStore(t *testing.T) {
	store := newFakeStore()

	for _, raw := range []string{
		`{"method":"PUT","data":{"bookmark":{"url":"https://a.example","title":"A"}}}`,
		`{"method":"PUT","data":{}}`,
		`{"method":"PUT"}`,
	} {
		res := route(store, raw)
		assert.JSONEq(t, `{"success":false}`, encode(t, res), raw)
	}
	assert.Zero(t, store.calls["update"])
}

func TestRoute_PostWithoutBookmarkIsUnknown(t *testing.T) {
	store := newFakeStore()

	noData := encode(t, route(store, `{"method":"POST"}`))
	noBookmark := encode(t, route(store, `{"method":"POST","data":{"bookmark_id":2}}`))

	assert.Equal(t, noData, noBookmark)
	assert.JSONEq(t, `{"success":false,"message":"Unrecognised request type or bad request payload."}`, noData)
	assert.Zero(t, store.total())
}

func TestRoute_Delete(t *testing.T) {
	store := newFakeStore()
	store.bookmarks = []core.Bookmark{{ID: 7, URL: "https://a.example"}}

	assert.JSONEq(t, `{"success":true}`, encode(t, route(store, `{"method":"DELETE","data":{"bookmark_id":7}}`)))
	assert.JSONEq(t, `{"success":false}`, encode(t, route(store, `{"method":"DELETE","data":{"bookmark_id":7}}`)))
	assert.Equal(t, host.Unknown(), route(store, `{"method":"DELETE","data":{}}`))
	assert.Equal(t, host.Unknown(), route(store, `{"method":"DELETE"}`))
	assert.Equal(t, 2, store.calls["delete"])
}

func TestRoute_StoreFailures(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("database is locked")

	get := route(store, `{"method":"GET"}`)
	status, ok := get.(host.Status)
	require.True(t, ok, "got %T", get)
	assert.False(t, status.Success)
	assert.NotEmpty(t, status.Message)

	for _, raw := range []string{
		`{"method":"POST","data":{"bookmark":{"url":"https://a.example"}}}`,
		`{"method":"PUT","data":{"bookmark":{"id":1,"url":"https://a.example"}}}`,
		`{"method":"DELETE","data":{"bookmark_id":1}}`,
	} {
		assert.JSONEq(t, `{"success":false}`, encode(t, route(store, raw)), raw)
	}
}

func TestRoute_UnknownMethod(t *testing.T) {
	store := newFakeStore()

	for _, raw := range []string{
		`{"method":"PATCH"}`,
		`{"method":"PATCH","data":{"bookmark":{"id":1,"url":"https://a.example"}}}`,
		`{"method":"PATCH","data":{"bookmark_id":1}}`,
		`{"method":""}`,
	} {
		assert.Equal(t, host.Unknown(), route(store, raw), raw)
	}
	assert.Zero(t, store.total())
}

func TestRoute_KeysAreCaseSensitive(t *testing.T) {
	store := newFakeStore()
	store.bookmarks = []core.Bookmark{{ID: 1, URL: "https://a.example"}}

	for _, raw := range []string{
		`{"Method":"DELETE","Data":{"Bookmark_Id":1}}`,
		`{"method":"DELETE","data":{"BOOKMARK_ID":1}}`,
		`{"METHOD":"GET"}`,
		`{"method":"POST","data":{"Bookmark":{"url":"https://b.example"}}}`,
	} {
		assert.Equal(t, host.Unknown(), route(store, raw), raw)
	}
	assert.Zero(t, store.total())
	assert.Len(t, store.bookmarks, 1)
}

func TestRoute_EmptyListEncodesArray(t *testing.T) {
	res := route(newFakeStore(), `{"method":"GET"}`)

	assert.JSONEq(t, `{"success":true,"bookmarks":[]}`, encode(t, res))
}

func TestRoute_PostThenGetRoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) core.Repository{
		"memory": func(t *testing.T) core.Repository {
			return memory.NewRepository()
		},
		"sqlite": func(t *testing.T) core.Repository {
			repo := sqlite.NewRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "bookmarks.db")})
			require.NoError(t, repo.Initialize(context.Background()))
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			store := core.NewService(open(t))

			res := route(store, `{"method":"POST","data":{"bookmark":{"id":55,"url":"https://go.dev","title":"Go","tags":["lang"]}}}`)
			require.True(t, res.Succeeded())

			list, ok := route(store, `{"method":"GET"}`).(host.BookmarkList)
			require.True(t, ok)
			require.Len(t, list.Bookmarks, 1)

			got := list.Bookmarks[0]
			assert.True(t, got.ID.Valid())
			assert.NotEqual(t, core.BookmarkID(55), got.ID, "store assigns the id")
			assert.Equal(t, "https://go.dev", got.URL)
			assert.Equal(t, "Go", got.Title)
			assert.Equal(t, []string{"lang"}, got.Tags)
		})

		t.Run(name+" keeps fields verbatim", func(t *testing.T) {
			store := core.NewService(open(t))

			res := route(store, `{"method":"POST","data":{"bookmark":{"url":"https://go.dev/ ","title":"  Go  ","tags":["b","a"]}}}`)
			require.True(t, res.Succeeded())

			list, ok := route(store, `{"method":"GET"}`).(host.BookmarkList)
			require.True(t, ok)
			require.Len(t, list.Bookmarks, 1)
			assert.Equal(t, "https://go.dev/ ", list.Bookmarks[0].URL)
			assert.Equal(t, "  Go  ", list.Bookmarks[0].Title)

			updated := `{"method":"PUT","data":{"bookmark":{"id":` +
				strconv.FormatInt(int64(list.Bookmarks[0].ID), 10) +
				`,"url":" https://go.dev/doc","title":"Docs\t"}}}`
			require.True(t, route(store, updated).Succeeded())

			list, ok = route(store, `{"method":"GET"}`).(host.BookmarkList)
			require.True(t, ok)
			require.Len(t, list.Bookmarks, 1)
			assert.Equal(t, " https://go.dev/doc", list.Bookmarks[0].URL)
			assert.Equal(t, "Docs\t", list.Bookmarks[0].Title)
		})
	}
}
