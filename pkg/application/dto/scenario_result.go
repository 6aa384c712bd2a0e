package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yay4john/Inventory-Optimization/pkg/application/services/allocation"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/cost"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/echelon"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
)

// ScenarioResult contains the complete output of one scenario run
type ScenarioResult struct {
	RunID       string     `json:"run_id"`
	Seed        uint64     `json:"seed"`
	GeneratedAt time.Time  `json:"generated_at"`
	Strategies  Strategies `json:"strategies"`
	Days        int        `json:"days"`

	SafetyStock             float64              `json:"safety_stock"`
	ReorderPoint            float64              `json:"reorder_point"`
	EOQ                     float64              `json:"eoq"`
	MultiEchelonSafetyStock float64              `json:"multi_echelon_safety_stock"`
	InventoryComposition    InventoryComposition `json:"inventory_composition"`

	InventoryTrajectory []float64 `json:"inventory_trajectory"`
	AverageInventory    float64   `json:"average_inventory"`
	OrderCount          int       `json:"order_count"`
	CumulativeStockOut  float64   `json:"cumulative_stock_out"`

	HoldingCost  decimal.Decimal `json:"holding_cost"`
	OrderingCost decimal.Decimal `json:"ordering_cost"`
	StockOutCost decimal.Decimal `json:"stock_out_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`

	// AnnualizedCost scales the simulated run to a year
	AnnualizedCost cost.CostBreakdown `json:"annualized_cost"`
	// PolicyCost and EOQCost price the configured order quantity and the EOQ over a year
	PolicyCost cost.CostBreakdown  `json:"policy_cost"`
	EOQCost    cost.CostBreakdown  `json:"eoq_cost"`
	Savings    cost.CostComparison `json:"savings"`

	// EventCounts tallies the events of every run, single node and network, by type
	EventCounts map[string]int `json:"event_counts"`

	Network *NetworkResult `json:"network,omitempty"`
}

// Strategies records the named strategy each computation used
type Strategies struct {
	SafetyStockMethod string `json:"safety_stock_method"`
	ZScoreMethod      string `json:"z_score_method"`
	CostMode          string `json:"cost_mode"`
	StockOutMethod    string `json:"stock_out_method"`
	InventoryMode     string `json:"inventory_mode"`
}

// InventoryComposition splits average stock into cycle stock (Q/2) and safety stock
type InventoryComposition struct {
	CycleStock  float64 `json:"cycle_stock"`
	SafetyStock float64 `json:"safety_stock"`
}

// NodeActivity is what a node's event stream recorded during its run
type NodeActivity struct {
	Orders          int     `json:"orders"`
	Receipts        int     `json:"receipts"`
	UnitsReceived   float64 `json:"units_received"`
	StockOutPeriods int     `json:"stock_out_periods"`
	UnitsShort      float64 `json:"units_short"`
}

// NetworkResult holds the multi-echelon part of a scenario
type NetworkResult struct {
	NodeOrder           []string                       `json:"node_order"`
	PerNodeTrajectories map[string][]float64           `json:"per_node_trajectories"`
	Policies            map[string]services.LeafPolicy `json:"policies"`
	TotalTrajectory     []float64                      `json:"total_trajectory"`
	NodeCosts           map[string]cost.CostBreakdown  `json:"node_costs"`
	TotalCost           cost.CostBreakdown             `json:"total_cost"`
	// Activity is built from each leaf's event stream
	Activity   map[string]NodeActivity    `json:"activity"`
	Pooling    *echelon.PoolingComparison `json:"pooling"`
	Forecast   map[string]float64         `json:"forecast"`
	Allocation *allocation.Allocation     `json:"allocation"`
	// AllocationError is set when the allocation is a degraded all-zero result
	AllocationError string `json:"allocation_error,omitempty"`
}
