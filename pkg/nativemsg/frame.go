// Package nativemsg implements the browser native-messaging wire format:
// every message is a UTF-8 JSON document preceded by its length as a 32-bit
// unsigned integer in native byte order.
package nativemsg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const HeaderLen = 4

var (
	ErrTruncated       = errors.New("nativemsg: truncated frame")
	ErrMessageTooLarge = errors.New("nativemsg: message too large")
)

// Limits constrains frame sizes in each direction.
type Limits struct {
	MaxIncomingBytes uint32
	MaxOutgoingBytes uint32
}

// DefaultLimits mirrors Chrome: 64 MiB towards the host, 1 MiB back to the browser.
func DefaultLimits() Limits {
	return Limits{
		MaxIncomingBytes: 64 * 1024 * 1024,
		MaxOutgoingBytes: 1024 * 1024,
	}
}

// ReadMessage reads one frame body from r.
//
// It returns io.EOF only when r ends cleanly before the first header byte,
// which is how the browser closes the connection. A partial header or body
// is ErrTruncated; a declared length over the limit is ErrMessageTooLarge.
// Neither can be resynchronised, so callers must stop reading.
func ReadMessage(r io.Reader, limits Limits) ([]byte, error) {
	var header [HeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: short header", ErrTruncated)
		default:
			return nil, err
		}
	}

	length := binary.NativeEndian.Uint32(header[:])
	if length > limits.MaxIncomingBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrMessageTooLarge, length, limits.MaxIncomingBytes)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: expected %d byte body", ErrTruncated, length)
			}
			return nil, err
		}
	}
	return payload, nil
}

// WriteMessage writes payload as one frame. Oversized payloads are rejected
// before any byte is written, so the stream stays well formed.
func WriteMessage(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > uint64(limits.MaxOutgoingBytes) {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrMessageTooLarge, len(payload), limits.MaxOutgoingBytes)
	}

	buf := make([]byte, HeaderLen+len(payload))
	binary.NativeEndian.PutUint32(buf[:HeaderLen], uint32(len(payload)))
	copy(buf[HeaderLen:], payload)

	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}
