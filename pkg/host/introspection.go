package host

import "github.com/aretw0/introspection"

// HostState exposes request counters for observability.
type HostState struct {
	Version    string `json:"version"`
	Served     uint64 `json:"served"`
	Malformed  uint64 `json:"malformed"`
	Failed     uint64 `json:"failed"`
	LastMethod string `json:"last_method,omitempty"`
}

// State implements introspection.Introspectable.
func (h *Host) State() any {
	h.mu.Lock()
	last := h.lastMethod
	h.mu.Unlock()

	return HostState{
		Version:    h.version,
		Served:     h.served.Load(),
		Malformed:  h.malformed.Load(),
		Failed:     h.failed.Load(),
		LastMethod: last,
	}
}

// ComponentType implements introspection.Component.
func (h *Host) ComponentType() string {
	return "host"
}

var _ introspection.Introspectable = (*Host)(nil)
var _ introspection.Component = (*Host)(nil)
