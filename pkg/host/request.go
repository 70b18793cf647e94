package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/dogear/pkg/core"
)

// Method names accepted on the wire.
const (
	MethodGet     = "GET"
	MethodOptions = "OPTIONS"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
)

var (
	errMissingBookmark   = errors.New("request has no bookmark")
	errMissingBookmarkID = errors.New("request has no bookmark_id")
)

// Request is one decoded message. The set of implementations is closed:
// ListRequest, OptionsRequest, CreateRequest, UpdateRequest,
// RejectedUpdateRequest, DeleteRequest and MalformedRequest.
type Request interface {
	// Method returns the wire method the request was decoded from.
	Method() string
	isRequest()
}

// ListRequest asks for every stored bookmark.
type ListRequest struct{}

// OptionsRequest asks for the host version.
type OptionsRequest struct{}

// CreateRequest stores a new bookmark.
type CreateRequest struct {
	Bookmark core.Bookmark
}

// UpdateRequest replaces a bookmark. Bookmark.ID is always present.
type UpdateRequest struct {
	Bookmark core.Bookmark
}

// RejectedUpdateRequest is a well-formed PUT that cannot be applied,
// such as a bookmark without an id. It fails without reaching the store.
type RejectedUpdateRequest struct {
	Reason error
}

// DeleteRequest removes a bookmark by id.
type DeleteRequest struct {
	ID core.BookmarkID
}

// MalformedRequest is anything that could not be routed: bad JSON,
// the wrong shape, an unknown method or a missing payload.
type MalformedRequest struct {
	Raw    string
	Reason error
}

func (ListRequest) Method() string           { return MethodGet }
func (OptionsRequest) Method() string        { return MethodOptions }
func (CreateRequest) Method() string         { return MethodPost }
func (UpdateRequest) Method() string         { return MethodPut }
func (RejectedUpdateRequest) Method() string { return MethodPut }
func (DeleteRequest) Method() string         { return MethodDelete }
func (m MalformedRequest) Method() string    { return m.Raw }

func (ListRequest) isRequest()           {}
func (OptionsRequest) isRequest()        {}
func (CreateRequest) isRequest()         {}
func (UpdateRequest) isRequest()         {}
func (RejectedUpdateRequest) isRequest() {}
func (DeleteRequest) isRequest()         {}
func (MalformedRequest) isRequest()      {}

type wireData struct {
	Bookmark   *core.Bookmark
	BookmarkID *core.BookmarkID
}

type wireRequest struct {
	Method string
	Data   *wireData
}

// object decodes a JSON object without folding key case. A JSON null
// yields a nil map.
func object(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// optional decodes fields[key] into a new T. A missing key or a JSON null
// yields nil.
func optional[T any](fields map[string]json.RawMessage, key string) (*T, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func decodeWire(raw []byte) (wireRequest, error) {
	var w wireRequest
	fields, err := object(raw)
	if err != nil {
		return w, err
	}

	method, err := optional[string](fields, "method")
	if err != nil {
		return w, err
	}
	if method != nil {
		w.Method = *method
	}

	data, ok := fields["data"]
	if !ok || string(data) == "null" {
		return w, nil
	}
	dataFields, err := object(data)
	if err != nil {
		return w, fmt.Errorf("field %q: %w", "data", err)
	}
	w.Data = &wireData{}
	if w.Data.Bookmark, err = optional[core.Bookmark](dataFields, "bookmark"); err != nil {
		return w, err
	}
	if w.Data.BookmarkID, err = optional[core.BookmarkID](dataFields, "bookmark_id"); err != nil {
		return w, err
	}
	return w, nil
}

// Decode turns a frame body into a Request. It never fails: anything that
// does not fit the request shape becomes a MalformedRequest. Keys are
// matched exactly.
func Decode(raw []byte) Request {
	w, err := decodeWire(raw)
	if err != nil {
		return MalformedRequest{Reason: fmt.Errorf("decode request: %w", err)}
	}

	switch w.Method {
	case MethodGet:
		return ListRequest{}
	case MethodOptions:
		return OptionsRequest{}
	case MethodPost:
		if w.Data == nil || w.Data.Bookmark == nil {
			return MalformedRequest{Raw: w.Method, Reason: errMissingBookmark}
		}
		return CreateRequest{Bookmark: *w.Data.Bookmark}
	case MethodPut:
		if w.Data == nil || w.Data.Bookmark == nil {
			return RejectedUpdateRequest{Reason: errMissingBookmark}
		}
		if !w.Data.Bookmark.HasID() {
			return RejectedUpdateRequest{Reason: core.ErrMissingID}
		}
		return UpdateRequest{Bookmark: *w.Data.Bookmark}
	case MethodDelete:
		if w.Data == nil || w.Data.BookmarkID == nil {
			return MalformedRequest{Raw: w.Method, Reason: errMissingBookmarkID}
		}
		return DeleteRequest{ID: *w.Data.BookmarkID}
	default:
		return MalformedRequest{Raw: w.Method, Reason: fmt.Errorf("unsupported method %q", w.Method)}
	}
}
