package host_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dogear/pkg/core"
	"github.com/aretw0/dogear/pkg/host"
	"github.com/aretw0/dogear/pkg/nativemsg"
)

func frames(bodies ...string) *bytes.Buffer {
	buf := &bytes.Buffer{}
	for _, body := range bodies {
		var header [nativemsg.HeaderLen]byte
		binary.NativeEndian.PutUint32(header[:], uint32(len(body)))
		buf.Write(header[:])
		buf.WriteString(body)
	}
	return buf
}

func replies(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var all []map[string]any
	for {
		body, err := nativemsg.ReadMessage(out, nativemsg.DefaultLimits())
		if err == io.EOF {
			return all
		}
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(body, &m))
		all = append(all, m)
	}
}

func TestServe_MalformedRequestsKeepLoopAlive(t *testing.T) {
	store := newFakeStore()
	in := frames(
		`not json`,
		`{"method":123}`,
		`{"method":"OPTIONS"}`,
		`{"method":"PATCH"}`,
		`{"method":"GET"}`,
	)
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(in, out, nativemsg.Limits{}), store, host.WithVersion(version))

	require.NoError(t, h.Serve(context.Background()))

	got := replies(t, out)
	require.Len(t, got, 5)
	assert.Equal(t, map[string]any{"success": false, "message": "Unrecognised request type or bad request payload."}, got[0])
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, map[string]any{"success": true, "binaryVersion": version}, got[2])
	assert.Equal(t, got[0], got[3])
	assert.Equal(t, map[string]any{"success": true, "bookmarks": []any{}}, got[4])
	assert.Equal(t, 1, store.total())
}

func TestServe_RepliesInOrder(t *testing.T) {
	store := newFakeStore()
	in := frames(
		`{"method":"POST","data":{"bookmark":{"url":"https://a.example"}}}`,
		`{"method":"POST","data":{"bookmark":{"url":"https://b.example"}}}`,
		`{"method":"DELETE","data":{"bookmark_id":1}}`,
		`{"method":"GET"}`,
	)
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(in, out, nativemsg.Limits{}), store)

	require.NoError(t, h.Serve(context.Background()))

	got := replies(t, out)
	require.Len(t, got, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, map[string]any{"success": true}, got[i])
	}
	bookmarks, ok := got[3]["bookmarks"].([]any)
	require.True(t, ok)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "https://b.example", bookmarks[0].(map[string]any)["url"])
}

func TestServe_EmptyInputIsCleanClose(t *testing.T) {
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(&bytes.Buffer{}, out, nativemsg.Limits{}), newFakeStore())

	assert.NoError(t, h.Serve(context.Background()))
	assert.Zero(t, out.Len())
}

func TestServe_TruncatedFrameIsFatal(t *testing.T) {
	in := frames(`{"method":"OPTIONS"}`)
	var header [nativemsg.HeaderLen]byte
	binary.NativeEndian.PutUint32(header[:], 32)
	in.Write(header[:])
	in.WriteString(`{"method"`)
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(in, out, nativemsg.Limits{}), newFakeStore())

	err := h.Serve(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, nativemsg.ErrTruncated)
	assert.Len(t, replies(t, out), 1, "requests before the broken frame are answered")
}

func TestServe_OversizedRequestIsFatal(t *testing.T) {
	in := frames(strings.Repeat("x", 64))
	h := host.New(nativemsg.NewConn(in, io.Discard, nativemsg.Limits{MaxIncomingBytes: 16}), newFakeStore())

	assert.ErrorIs(t, h.Serve(context.Background()), nativemsg.ErrMessageTooLarge)
}

func TestServe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(frames(`{"method":"GET"}`), out, nativemsg.Limits{}), newFakeStore())

	assert.NoError(t, h.Serve(ctx))
	assert.Zero(t, out.Len())
}

func TestServe_OversizedResponseFallsBack(t *testing.T) {
	store := newFakeStore()
	for i := 1; i <= 50; i++ {
		store.bookmarks = append(store.bookmarks, core.Bookmark{
			ID:    core.BookmarkID(i),
			URL:   "https://example.com/" + strings.Repeat("a", 40),
			Title: strings.Repeat("t", 40),
		})
	}
	in := frames(`{"method":"GET"}`, `{"method":"OPTIONS"}`)
	out := &bytes.Buffer{}
	h := host.New(nativemsg.NewConn(in, out, nativemsg.Limits{MaxOutgoingBytes: 512}), store, host.WithVersion(version))

	require.NoError(t, h.Serve(context.Background()))

	got := replies(t, out)
	require.Len(t, got, 2)
	assert.Equal(t, false, got[0]["success"])
	assert.Equal(t, "Response exceeds the native messaging size limit.", got[0]["message"])
	assert.Equal(t, true, got[1]["success"])
}

func TestHandle_RecoversFromStorePanic(t *testing.T) {
	store := newFakeStore()
	store.panicOn = "insert"
	h := host.New(nil, store)

	res := h.Handle(context.Background(), []byte(`{"method":"POST","data":{"bookmark":{"url":"https://a.example"}}}`))

	status, ok := res.(host.Status)
	require.True(t, ok)
	assert.False(t, status.Success)
	assert.NotEmpty(t, status.Message)

	res = h.Handle(context.Background(), []byte(`{"method":"GET"}`))
	assert.True(t, res.Succeeded())
}

func TestHost_State(t *testing.T) {
	store := newFakeStore()
	h := host.New(nil, store, host.WithVersion(version))
	ctx := context.Background()

	h.Handle(ctx, []byte(`{"method":"GET"}`))
	h.Handle(ctx, []byte(`garbage`))
	h.Handle(ctx, []byte(`{"method":"PUT","data":{"bookmark":{"url":"https://a.example"}}}`))
	h.Handle(ctx, []byte(`{"method":"OPTIONS"}`))

	state, ok := h.State().(host.HostState)
	require.True(t, ok)
	assert.Equal(t, host.HostState{
		Version:    version,
		Served:     4,
		Malformed:  1,
		Failed:     2,
		LastMethod: "OPTIONS",
	}, state)
	assert.Equal(t, "host", h.ComponentType())
}
