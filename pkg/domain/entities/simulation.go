package entities

import "strings"

// ReplenishmentState is the state of a stocking location's replenishment cycle
type ReplenishmentState int

const (
	Idle ReplenishmentState = iota
	OrderPending
)

// String method for ReplenishmentState enum
func (s ReplenishmentState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case OrderPending:
		return "OrderPending"
	default:
		return "Unknown"
	}
}

// InventoryMode selects how negative inventory is treated during simulation
type InventoryMode int

const (
	// ClampToZero treats unmet demand as lost sales: the shortfall is counted and inventory reset to zero.
	ClampToZero InventoryMode = iota
	// Backorder lets inventory go negative and counts the newly unmet demand each period.
	Backorder
)

// String method for InventoryMode enum
func (m InventoryMode) String() string {
	switch m {
	case ClampToZero:
		return "ClampToZero"
	case Backorder:
		return "Backorder"
	default:
		return "Unknown"
	}
}

// ParseInventoryMode maps a configuration name to an InventoryMode
func ParseInventoryMode(name string) (InventoryMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "clamp", "clamp_to_zero", "lost_sales":
		return ClampToZero, nil
	case "backorder", "backorders":
		return Backorder, nil
	default:
		return 0, invalidf("unknown inventory mode %q", name)
	}
}

// SimulationState is the mutable per-node state of one simulation run.
// It is created at the start of a run and discarded at the end.
type SimulationState struct {
	CurrentInventory   float64
	OrderPending       bool
	LeadTimeRemaining  int
	CumulativeStockOut float64
	OrderCount         int
}

// NewSimulationState creates the starting state for a run
func NewSimulationState(initialInventory float64) *SimulationState {
	return &SimulationState{CurrentInventory: initialInventory}
}

// State reports the replenishment state implied by OrderPending.
func (s *SimulationState) State() ReplenishmentState {
	if s.OrderPending {
		return OrderPending
	}
	return Idle
}

// OrderRecord describes one replenishment order placed during a run.
// ReceivedPeriod is -1 while the order is still open at the end of the horizon.
type OrderRecord struct {
	PlacedPeriod   int `json:"placed_period"`
	LeadTime       int `json:"lead_time"`
	ReceivedPeriod int `json:"received_period"`
}
