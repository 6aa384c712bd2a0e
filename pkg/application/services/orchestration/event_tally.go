package orchestration

import (
	"fmt"
	"sync"

	"github.com/yay4john/Inventory-Optimization/pkg/application/dto"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/events"
)

// eventTally subscribes to a run's event store and folds every event into
// counts by type and activity by stream. Notifications arrive concurrently.
type eventTally struct {
	mu       sync.Mutex
	byType   map[string]int
	byStream map[string]*dto.NodeActivity
	handler  *events.HandlerFunc
}

func newEventTally() *eventTally {
	t := &eventTally{
		byType:   make(map[string]int, len(events.SimulationEventTypes)),
		byStream: make(map[string]*dto.NodeActivity),
	}
	for _, eventType := range events.SimulationEventTypes {
		t.byType[eventType] = 0
	}
	t.handler = events.NewHandlerFunc(t.record, events.SimulationEventTypes...)
	return t
}

// attach subscribes the tally; the returned func waits for in-flight
// notifications and unsubscribes
func (t *eventTally) attach(store *events.InMemoryEventStore) (func(), error) {
	if err := store.Subscribe(events.SimulationEventTypes, t.handler); err != nil {
		return nil, fmt.Errorf("failed to subscribe event tally: %w", err)
	}
	return func() {
		store.Wait()
		_ = store.Unsubscribe(t.handler)
	}, nil
}

func (t *eventTally) record(e events.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	activity := t.byStream[e.StreamID()]
	if activity == nil {
		activity = &dto.NodeActivity{}
		t.byStream[e.StreamID()] = activity
	}

	switch data := e.Data().(type) {
	case events.OrderPlaced:
		activity.Orders++
	case events.ReplenishmentReceived:
		activity.Receipts++
		activity.UnitsReceived += data.Quantity
	case events.StockOutRecorded:
		activity.StockOutPeriods++
		activity.UnitsShort += data.Shortfall
	default:
		return fmt.Errorf("unexpected %s payload %T", e.Type(), data)
	}
	t.byType[e.Type()]++
	return nil
}

// counts returns a copy of the per-type totals
func (t *eventTally) counts() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.byType))
	for eventType, n := range t.byType {
		out[eventType] = n
	}
	return out
}

// activity returns a copy of the given streams' activity; streams that
// recorded nothing report zero
func (t *eventTally) activity(streams []string) map[string]dto.NodeActivity {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]dto.NodeActivity, len(streams))
	for _, name := range streams {
		if a := t.byStream[name]; a != nil {
			out[name] = *a
		} else {
			out[name] = dto.NodeActivity{}
		}
	}
	return out
}
