// Package lifecycle bridges bookmark change events into the
// github.com/aretw0/lifecycle event model.
package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/dogear/pkg/core"
)

// EventTypes lists every change kind a store can report.
var EventTypes = []core.EventType{
	core.EventCreate,
	core.EventModify,
	core.EventDelete,
	core.EventExternal,
}

// ParseEventTypes maps names such as "create" or "EXTERNAL" to event types.
func ParseEventTypes(names []string) ([]core.EventType, error) {
	kinds := make([]core.EventType, 0, len(names))
	for _, name := range names {
		kind := core.EventType(strings.ToUpper(strings.TrimSpace(name)))
		if !slices.Contains(EventTypes, kind) {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		if !slices.Contains(kinds, kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

type bookmarkSource struct {
	events <-chan core.Event
	kinds  []core.EventType
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source re-emitting bookmark events whose
// type is one of kinds; no kinds means every event. The output channel
// closes when events closes or the Start context ends.
func NewSource(events <-chan core.Event, kinds ...core.EventType) lifecycle.Source {
	return &bookmarkSource{
		events: events,
		kinds:  kinds,
		out:    make(chan lifecycle.Event),
	}
}

func (s *bookmarkSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *bookmarkSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *bookmarkSource) accepts(e core.Event) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, e.Type)
}

func (s *bookmarkSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		var (
			e  core.Event
			ok bool
		)
		select {
		case <-ctx.Done():
			return nil
		case e, ok = <-s.events:
		}
		if !ok {
			return nil
		}
		if !s.accepts(e) {
			continue
		}
		select {
		case s.out <- e:
		case <-ctx.Done():
			return nil
		}
	}
}
