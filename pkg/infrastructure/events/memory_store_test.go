package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()

	require.NoError(t, store.AppendEvent("store-1", NewOrderPlacedEvent(OrderPlaced{Node: "store-1", Period: 3, LeadTime: 2})))
	require.NoError(t, store.AppendEvent("store-2", NewStockOutRecordedEvent(StockOutRecorded{Node: "store-2", Period: 4, Shortfall: 7})))
	require.NoError(t, store.AppendEvent("store-1", NewReplenishmentReceivedEvent(ReplenishmentReceived{Node: "store-1", Period: 5, Quantity: 100})))

	stream, err := store.ReadEvents("store-1", 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 1, stream[0].Version())
	assert.Equal(t, 2, stream[1].Version())
	assert.Equal(t, ReplenishmentReceivedEvent, stream[1].Type())

	received, ok := stream[1].Data().(ReplenishmentReceived)
	require.True(t, ok)
	assert.Equal(t, 100.0, received.Quantity)

	tail, err := store.ReadEvents("store-1", 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	none, err := store.ReadEvents("store-1", 3)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Equal(t, 1, store.CountByType("store-1", OrderPlacedEvent))
	assert.Equal(t, 0, store.CountByType("store-1", StockOutRecordedEvent))
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore()

	var mu sync.Mutex
	var seen []string
	handler := &HandlerFunc{
		Types: []string{StockOutRecordedEvent},
		Fn: func(e Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, e.StreamID())
			return errors.New("handler failures are logged, not returned")
		},
	}
	require.NoError(t, store.Subscribe([]string{StockOutRecordedEvent}, handler))

	require.NoError(t, store.AppendEvent("a", NewStockOutRecordedEvent(StockOutRecorded{Node: "a"})))
	require.NoError(t, store.AppendEvent("a", NewOrderPlacedEvent(OrderPlaced{Node: "a"})))
	store.Wait()

	mu.Lock()
	assert.Equal(t, []string{"a"}, seen)
	mu.Unlock()

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent("b", NewStockOutRecordedEvent(StockOutRecorded{Node: "b"})))
	store.Wait()

	mu.Lock()
	assert.Equal(t, []string{"a"}, seen)
	mu.Unlock()
}

func TestNewHandlerFunc_DefaultsToSimulationEvents(t *testing.T) {
	handler := NewHandlerFunc(func(Event) error { return nil })
	for _, eventType := range SimulationEventTypes {
		assert.True(t, handler.CanHandle(eventType), eventType)
	}
	assert.False(t, handler.CanHandle("forecast.updated"))

	narrow := NewHandlerFunc(func(Event) error { return nil }, OrderPlacedEvent)
	assert.True(t, narrow.CanHandle(OrderPlacedEvent))
	assert.False(t, narrow.CanHandle(StockOutRecordedEvent))
}

func TestAppendEvent_RestampsIntoStream(t *testing.T) {
	store := NewInMemoryEventStore()
	original := NewOrderPlacedEvent(OrderPlaced{Node: "store-1", Period: 2})

	require.NoError(t, store.AppendEvent("store-1", original))
	require.NoError(t, store.AppendEvent("store-1", original))

	stream, err := store.ReadEvents("store-1", 1)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 2, stream[1].Version())
	assert.Equal(t, original.Timestamp(), stream[1].Timestamp())
	assert.Equal(t, original.Data(), stream[1].Data())
	assert.Equal(t, 1, original.Version(), "the caller's event is untouched")
}
