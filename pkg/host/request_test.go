package host

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/dogear/pkg/core"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Request
	}{
		{"get", `{"method":"GET"}`, ListRequest{}},
		{"get ignores data", `{"method":"GET","data":{"bookmark_id":3}}`, ListRequest{}},
		{"options", `{"method":"OPTIONS","data":null}`, OptionsRequest{}},
		{
			"post",
			`{"method":"POST","data":{"bookmark":{"url":"https://a.example","title":"A"}}}`,
			CreateRequest{Bookmark: core.Bookmark{URL: "https://a.example", Title: "A"}},
		},
		{
			"put",
			`{"method":"PUT","data":{"bookmark":{"id":4,"url":"https://a.example"}}}`,
			UpdateRequest{Bookmark: core.Bookmark{ID: 4, URL: "https://a.example"}},
		},
		{"delete", `{"method":"DELETE","data":{"bookmark_id":9}}`, DeleteRequest{ID: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode([]byte(tt.raw)))
		})
	}
}

func TestDecode_Rejections(t *testing.T) {
	rejected := []string{
		`{"method":"PUT"}`,
		`{"method":"PUT","data":{}}`,
		`{"method":"PUT","data":{"bookmark":{"url":"https://a.example"}}}`,
		`{"method":"PUT","data":{"bookmark":{"id":null,"url":"https://a.example"}}}`,
		`{"method":"PUT","data":{"Bookmark":{"id":1,"url":"https://a.example"}}}`,
	}
	for _, raw := range rejected {
		t.Run(raw, func(t *testing.T) {
			assert.IsType(t, RejectedUpdateRequest{}, Decode([]byte(raw)))
		})
	}

	malformed := []string{
		``,
		`not json`,
		`null`,
		`[]`,
		`{"method":123}`,
		`{}`,
		`{"method":"get"}`,
		`{"method":"PATCH","data":{"bookmark_id":1}}`,
		`{"method":"POST"}`,
		`{"method":"POST","data":{"bookmark_id":1}}`,
		`{"method":"DELETE","data":{}}`,
		`{"method":"DELETE","data":{"bookmark_id":"one"}}`,
		`{"method":"GET","data":"nope"}`,
		`{"METHOD":"GET"}`,
		`{"Method":"DELETE","Data":{"Bookmark_Id":1}}`,
		`{"method":"DELETE","data":{"Bookmark_ID":1}}`,
		`{"method":"POST","data":{"BOOKMARK":{"url":"https://a.example"}}}`,
		`{"method":"POST","Data":{"bookmark":{"url":"https://a.example"}}}`,
	}
	for _, raw := range malformed {
		t.Run(raw, func(t *testing.T) {
			req := Decode([]byte(raw))
			m, ok := req.(MalformedRequest)
			if assert.True(t, ok, "got %T", req) {
				assert.Error(t, m.Reason)
			}
		})
	}
}
