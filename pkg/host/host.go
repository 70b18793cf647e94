// Package host runs the native-messaging protocol loop: it reads one framed
// request at a time, routes it to the bookmark store and writes exactly one
// framed reply before reading the next.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/aretw0/dogear/pkg/nativemsg"
)

// Transport moves frames. Receive returns io.EOF when the browser closes
// the connection; any other error means the stream is unusable.
type Transport interface {
	Receive() (json.RawMessage, error)
	Send(v any) error
}

// Host owns the transport and the store for the lifetime of the process.
type Host struct {
	transport Transport
	store     Store
	version   string
	logger    *slog.Logger

	served    atomic.Uint64
	malformed atomic.Uint64
	failed    atomic.Uint64

	mu         sync.Mutex
	lastMethod string
}

// Option configures a Host.
type Option func(*Host)

// WithVersion sets the version reported to OPTIONS requests.
func WithVersion(version string) Option {
	return func(h *Host) {
		h.version = version
	}
}

// WithLogger sets the logger. It must not write to the transport's stream.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Host.
func New(transport Transport, store Store, opts ...Option) *Host {
	h := &Host{
		transport: transport,
		store:     store,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve runs the protocol loop until the transport closes or ctx is done.
//
// A clean close (io.EOF) and cancellation return nil. Any other transport
// failure is returned: a truncated or oversized frame leaves the stream
// unsynchronised. Malformed requests never end the loop.
func (h *Host) Serve(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		raw, err := h.transport.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.logger.Debug("transport closed")
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		res := h.Handle(ctx, raw)
		if err := h.send(res); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}
}

// Handle decodes and routes a single frame body. It always returns a
// response, including when the store panics.
func (h *Host) Handle(ctx context.Context, raw []byte) (res Response) {
	req := Decode(raw)
	h.served.Add(1)
	h.setLastMethod(req.Method())

	if m, ok := req.(MalformedRequest); ok {
		h.malformed.Add(1)
		h.logger.Debug("unrecognised request", "method", m.Raw, "reason", m.Reason)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			h.logger.Error("panic while handling request",
				"method", req.Method(),
				"panic", recovered,
				"stack", string(debug.Stack()))
			res = Status{Success: false, Message: internalMessage}
		}
		if !res.Succeeded() {
			h.failed.Add(1)
		}
	}()

	res = Route(ctx, h.store, h.version, req)
	h.logger.Debug("request handled", "method", req.Method(), "success", res.Succeeded())
	return res
}

// send writes res, replacing it with a short failure when it exceeds the
// outgoing frame limit; the browser drops the connection on oversized frames.
func (h *Host) send(res Response) error {
	err := h.transport.Send(res)
	if !errors.Is(err, nativemsg.ErrMessageTooLarge) {
		return err
	}
	h.logger.Warn("response too large, replying with failure", "error", err)
	return h.transport.Send(Status{Success: false, Message: tooLargeMessage})
}

func (h *Host) setLastMethod(method string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastMethod = method
}
