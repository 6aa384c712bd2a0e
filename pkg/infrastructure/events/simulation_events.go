package events

const (
	OrderPlacedEvent           = "order.placed"
	ReplenishmentReceivedEvent = "replenishment.received"
	StockOutRecordedEvent      = "stockout.recorded"
)

// SimulationEventTypes lists every event type a simulation run can emit.
var SimulationEventTypes = []string{
	OrderPlacedEvent,
	ReplenishmentReceivedEvent,
	StockOutRecordedEvent,
}

type OrderPlaced struct {
	Node          string  `json:"node"`
	Period        int     `json:"period"`
	Inventory     float64 `json:"inventory"`
	ReorderPoint  float64 `json:"reorder_point"`
	OrderQuantity float64 `json:"order_quantity"`
	LeadTime      int     `json:"lead_time"`
}

type ReplenishmentReceived struct {
	Node           string  `json:"node"`
	Period         int     `json:"period"`
	Quantity       float64 `json:"quantity"`
	InventoryAfter float64 `json:"inventory_after"`
}

type StockOutRecorded struct {
	Node      string  `json:"node"`
	Period    int     `json:"period"`
	Shortfall float64 `json:"shortfall"`
	Mode      string  `json:"mode"`
}

func NewOrderPlacedEvent(order OrderPlaced) Event {
	return NewEvent(OrderPlacedEvent, order.Node, order)
}

func NewReplenishmentReceivedEvent(receipt ReplenishmentReceived) Event {
	return NewEvent(ReplenishmentReceivedEvent, receipt.Node, receipt)
}

func NewStockOutRecordedEvent(stockOut StockOutRecorded) Event {
	return NewEvent(StockOutRecordedEvent, stockOut.Node, stockOut)
}
