package events

import (
	"log/slog"
	"sync"
)

// InMemoryEventStore keeps every stream in memory for the lifetime of one run.
// Subscribers are notified asynchronously; Wait blocks until pending notifications finish.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	pending     sync.WaitGroup
	logger      *slog.Logger
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return NewInMemoryEventStoreWithLogger(nil)
}

// NewInMemoryEventStoreWithLogger creates a store that reports handler failures to logger
func NewInMemoryEventStoreWithLogger(logger *slog.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		logger:      logger,
	}
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stamped := restamp(event, streamID, len(s.streams[streamID])+1)

	s.streams[streamID] = append(s.streams[streamID], stamped)
	s.allEvents = append(s.allEvents, stamped)

	if len(s.subscribers[stamped.Type()]) > 0 {
		s.pending.Add(1)
		go s.notifySubscribers(stamped)
	}

	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

// CountByType tallies the events of one type in a stream
func (s *InMemoryEventStore) CountByType(streamID, eventType string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	for _, e := range s.streams[streamID] {
		if e.Type() == eventType {
			count++
		}
	}
	return count
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0)
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

// Wait blocks until every subscriber notification started so far has returned
func (s *InMemoryEventStore) Wait() {
	s.pending.Wait()
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	defer s.pending.Done()

	s.mutex.RLock()
	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Error("event handler failed",
				slog.String("event_type", event.Type()),
				slog.String("stream", event.StreamID()),
				slog.Any("error", err))
		}
	}
}
