package host

import "github.com/aretw0/dogear/pkg/core"

const (
	unknownMessage  = "Unrecognised request type or bad request payload."
	tooLargeMessage = "Response exceeds the native messaging size limit."
	internalMessage = "Internal error while handling the request."
)

// Response is one reply frame. Every implementation encodes a "success" field.
type Response interface {
	Succeeded() bool
}

// Status is the generic reply: a success flag and an optional message.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BookmarkList answers a successful GET.
type BookmarkList struct {
	Success   bool            `json:"success"`
	Bookmarks []core.Bookmark `json:"bookmarks"`
}

// VersionInfo answers OPTIONS.
type VersionInfo struct {
	Success       bool   `json:"success"`
	BinaryVersion string `json:"binaryVersion"`
}

func (s Status) Succeeded() bool       { return s.Success }
func (b BookmarkList) Succeeded() bool { return b.Success }
func (v VersionInfo) Succeeded() bool  { return v.Success }

// Unknown is the fixed reply to anything that cannot be routed.
func Unknown() Status {
	return Status{Success: false, Message: unknownMessage}
}

func result(err error) Status {
	return Status{Success: err == nil}
}
