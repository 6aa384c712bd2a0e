package events

import (
	"slices"
	"time"
)

// Event is one immutable fact recorded by a simulation run.
// StreamID names the stocking location that produced it; Version is its
// 1-based position within that stream once the store has accepted it.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to events a store routes to it
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore records per-location event streams and fans them out to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// record is the only Event implementation; payloads are the value structs in simulation_events.go
type record struct {
	kind    string
	node    string
	payload any
	at      time.Time
	version int
}

func (r record) Type() string { return r.kind }
func (r record) StreamID() string { return r.node }
func (r record) Data() any { return r.payload }
func (r record) Timestamp() time.Time { return r.at }
func (r record) Version() int { return r.version }

// NewEvent stamps a payload for node's stream. The version is provisional
// until a store appends it.
func NewEvent(eventType, node string, payload any) Event {
	return record{kind: eventType, node: node, payload: payload, at: time.Now(), version: 1}
}

// restamp copies e into streamID at the given version
func restamp(e Event, streamID string, version int) Event {
	return record{kind: e.Type(), node: streamID, payload: e.Data(), at: e.Timestamp(), version: version}
}

// HandlerFunc routes the listed event types to Fn.
// Use it by pointer: the store compares handlers by identity on Unsubscribe.
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

// NewHandlerFunc subscribes fn to eventTypes; with no types it accepts every simulation event
func NewHandlerFunc(fn func(Event) error, eventTypes ...string) *HandlerFunc {
	if len(eventTypes) == 0 {
		eventTypes = SimulationEventTypes
	}
	return &HandlerFunc{Types: slices.Clone(eventTypes), Fn: fn}
}

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}
