package core

import "fmt"

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	// EventExternal reports a change committed by another process.
	// The affected bookmark is unknown, so ID is zero.
	EventExternal EventType = "EXTERNAL"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType  `json:"type"`
	ID        BookmarkID `json:"id,omitempty"`
	Timestamp int64      `json:"timestamp"` // Unix timestamp
}

func (e Event) String() string {
	if e.ID == 0 {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %d", e.Type, e.ID)
}
