package cost

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// CostMode selects how holding and ordering costs are estimated
type CostMode int

const (
	// FormulaBased charges holding on safety stock and ordering on demand/order quantity.
	FormulaBased CostMode = iota
	// SimulationBased charges holding on simulated average inventory and ordering per simulated order.
	SimulationBased
)

// String method for CostMode enum
func (m CostMode) String() string {
	switch m {
	case FormulaBased:
		return "formula"
	case SimulationBased:
		return "simulation"
	default:
		return "unknown"
	}
}

// ParseCostMode maps a configuration name to a CostMode
func ParseCostMode(name string) (CostMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simulation", "simulation_based":
		return SimulationBased, nil
	case "formula", "formula_based":
		return FormulaBased, nil
	default:
		return 0, fmt.Errorf("%w: unknown cost mode %q", entities.ErrInvalidParameter, name)
	}
}

// CostBreakdown itemizes the cost of one policy
type CostBreakdown struct {
	Holding  decimal.Decimal `json:"holding"`
	Ordering decimal.Decimal `json:"ordering"`
	StockOut decimal.Decimal `json:"stock_out"`
	Total    decimal.Decimal `json:"total"`
}

// NewCostBreakdown sums the components into Total
func NewCostBreakdown(holding, ordering, stockOut decimal.Decimal) CostBreakdown {
	return CostBreakdown{
		Holding:  holding,
		Ordering: ordering,
		StockOut: stockOut,
		Total:    holding.Add(ordering).Add(stockOut),
	}
}

// WithStockOut returns a copy with the stock-out component replaced
func (b CostBreakdown) WithStockOut(stockOut decimal.Decimal) CostBreakdown {
	return NewCostBreakdown(b.Holding, b.Ordering, stockOut)
}

// Round rounds every component to places decimal places for presentation
func (b CostBreakdown) Round(places int32) CostBreakdown {
	return CostBreakdown{
		Holding:  b.Holding.Round(places),
		Ordering: b.Ordering.Round(places),
		StockOut: b.StockOut.Round(places),
		Total:    b.Total.Round(places),
	}
}

// HoldingOrderingInputs carries the quantities either cost mode may need.
// FormulaBased reads SafetyStock, DemandMean and OrderQuantity;
// SimulationBased reads AverageInventory and OrderCount.
type HoldingOrderingInputs struct {
	SafetyStock      float64
	AverageInventory float64
	DemandMean       float64
	OrderQuantity    float64
	OrderCount       int
	Costs            entities.CostParameters
}

// HoldingAndOrderingCost prices holding and ordering under the given mode.
// The returned breakdown has a zero stock-out component.
func HoldingAndOrderingCost(mode CostMode, in HoldingOrderingInputs) (CostBreakdown, error) {
	if err := in.Costs.Validate(); err != nil {
		return CostBreakdown{}, err
	}
	h := decimal.NewFromFloat(in.Costs.HoldingCostPerUnit)
	s := decimal.NewFromFloat(in.Costs.OrderCost)

	switch mode {
	case FormulaBased:
		if in.OrderQuantity <= 0 || math.IsNaN(in.OrderQuantity) {
			return CostBreakdown{}, fmt.Errorf("%w: order quantity must be positive, got %v", entities.ErrInvalidParameter, in.OrderQuantity)
		}
		if err := nonNegative("safety stock", in.SafetyStock); err != nil {
			return CostBreakdown{}, err
		}
		if err := nonNegative("demand mean", in.DemandMean); err != nil {
			return CostBreakdown{}, err
		}
		holding := decimal.NewFromFloat(in.SafetyStock).Mul(h)
		ordering := decimal.NewFromFloat(in.DemandMean / in.OrderQuantity).Mul(s)
		return NewCostBreakdown(holding, ordering, decimal.Zero), nil

	case SimulationBased:
		if in.OrderCount < 0 {
			return CostBreakdown{}, fmt.Errorf("%w: order count cannot be negative, got %d", entities.ErrInvalidParameter, in.OrderCount)
		}
		if math.IsNaN(in.AverageInventory) || math.IsInf(in.AverageInventory, 0) {
			return CostBreakdown{}, fmt.Errorf("%w: average inventory must be finite, got %v", entities.ErrInvalidParameter, in.AverageInventory)
		}
		// Backlogged (negative) inventory carries no holding cost
		holding := decimal.NewFromFloat(math.Max(0, in.AverageInventory)).Mul(h)
		ordering := decimal.NewFromInt(int64(in.OrderCount)).Mul(s)
		return NewCostBreakdown(holding, ordering, decimal.Zero), nil

	default:
		return CostBreakdown{}, fmt.Errorf("%w: unknown cost mode %d", entities.ErrInvalidParameter, mode)
	}
}

// Annualize scales the cost of a horizonDays simulation run to a 365 day year.
// Holding is a per-period rate and is multiplied by 365; ordering and stock-out
// are totals over the horizon and are scaled by 365/horizonDays.
func Annualize(b CostBreakdown, horizonDays int) (CostBreakdown, error) {
	if horizonDays < 1 {
		return CostBreakdown{}, fmt.Errorf("%w: horizon must be at least one day, got %d", entities.ErrInvalidParameter, horizonDays)
	}
	year := decimal.NewFromInt(entities.DaysPerYear)
	factor := year.Div(decimal.NewFromInt(int64(horizonDays)))
	return NewCostBreakdown(
		b.Holding.Mul(year),
		b.Ordering.Mul(factor),
		b.StockOut.Mul(factor),
	), nil
}

// AnnualPolicyCost prices a (reorder point, Q) policy over a year:
// holding = (Q/2 + safetyStock)*h and ordering = (annualDemand/Q)*S.
// It is minimized over Q by the EOQ.
func AnnualPolicyCost(annualDemand, orderQuantity, safetyStock float64, costs entities.CostParameters) (CostBreakdown, error) {
	if err := costs.Validate(); err != nil {
		return CostBreakdown{}, err
	}
	if orderQuantity <= 0 || math.IsNaN(orderQuantity) {
		return CostBreakdown{}, fmt.Errorf("%w: order quantity must be positive, got %v", entities.ErrInvalidParameter, orderQuantity)
	}
	if err := nonNegative("annual demand", annualDemand); err != nil {
		return CostBreakdown{}, err
	}
	if err := nonNegative("safety stock", safetyStock); err != nil {
		return CostBreakdown{}, err
	}
	q := decimal.NewFromFloat(orderQuantity)
	holding := q.Div(decimal.NewFromInt(2)).Add(decimal.NewFromFloat(safetyStock)).Mul(decimal.NewFromFloat(costs.HoldingCostPerUnit))
	ordering := decimal.NewFromFloat(annualDemand).Div(q).Mul(decimal.NewFromFloat(costs.OrderCost))
	return NewCostBreakdown(holding, ordering, decimal.Zero), nil
}

// CostComparison reports the savings of Candidate relative to Baseline
type CostComparison struct {
	Baseline       CostBreakdown   `json:"baseline"`
	Candidate      CostBreakdown   `json:"candidate"`
	Savings        decimal.Decimal `json:"savings"`
	SavingsPercent float64         `json:"savings_percent"`
}

// CompareCosts computes Baseline.Total - Candidate.Total and its share of the baseline.
// A zero baseline reports a zero percentage.
func CompareCosts(baseline, candidate CostBreakdown) CostComparison {
	savings := baseline.Total.Sub(candidate.Total)
	percent := 0.0
	if !baseline.Total.IsZero() {
		percent = savings.Div(baseline.Total).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return CostComparison{
		Baseline:       baseline,
		Candidate:      candidate,
		Savings:        savings,
		SavingsPercent: percent,
	}
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be finite and non-negative, got %v", entities.ErrInvalidParameter, name, v)
	}
	return nil
}
