package nativemsg

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Conn is a native-messaging endpoint over a reader/writer pair,
// normally the process's stdin and stdout.
type Conn struct {
	r      *bufio.Reader
	limits Limits

	mu sync.Mutex
	w  io.Writer
}

// NewConn wraps r and w. Zero limits fall back to DefaultLimits.
func NewConn(r io.Reader, w io.Writer, limits Limits) *Conn {
	defaults := DefaultLimits()
	if limits.MaxIncomingBytes == 0 {
		limits.MaxIncomingBytes = defaults.MaxIncomingBytes
	}
	if limits.MaxOutgoingBytes == 0 {
		limits.MaxOutgoingBytes = defaults.MaxOutgoingBytes
	}
	return &Conn{
		r:      bufio.NewReader(r),
		w:      w,
		limits: limits,
	}
}

// Receive blocks for the next frame and returns its body undecoded.
// Decoding is left to the caller so that a malformed body can be answered
// instead of being mistaken for a broken transport.
func (c *Conn) Receive() (json.RawMessage, error) {
	return ReadMessage(c.r, c.limits)
}

// Send encodes v as JSON and writes it as one frame.
func (c *Conn) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("nativemsg: encode: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteMessage(c.w, payload, c.limits)
}

// Limits returns the size limits in effect.
func (c *Conn) Limits() Limits {
	return c.limits
}
