package cost

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// StockOutMethod selects one of the stock-out cost estimators
type StockOutMethod int

const (
	// ExpectedShortfall prices max(0, demand mean - safety stock) units.
	ExpectedShortfall StockOutMethod = iota
	// Simulated prices the cumulative stock-out of a simulation run.
	Simulated
	// AnnualizedProbability prices the expected yearly shortfall implied by the service level.
	AnnualizedProbability
)

// String method for StockOutMethod enum
func (m StockOutMethod) String() string {
	switch m {
	case ExpectedShortfall:
		return "expected_shortfall"
	case Simulated:
		return "simulated"
	case AnnualizedProbability:
		return "annualized_probability"
	default:
		return "unknown"
	}
}

// ParseStockOutMethod maps a configuration name to a StockOutMethod
func ParseStockOutMethod(name string) (StockOutMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simulated", "simulation":
		return Simulated, nil
	case "expected_shortfall", "shortfall":
		return ExpectedShortfall, nil
	case "annualized_probability", "annualized":
		return AnnualizedProbability, nil
	default:
		return 0, fmt.Errorf("%w: unknown stock-out method %q", entities.ErrInvalidParameter, name)
	}
}

// ExpectedShortfallStockOutCost returns max(0, demandMean - safetyStock) * costPerUnit
func ExpectedShortfallStockOutCost(demandMean, safetyStock, costPerUnit float64) (decimal.Decimal, error) {
	if err := nonNegative("demand mean", demandMean); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("safety stock", safetyStock); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("stock-out cost per unit", costPerUnit); err != nil {
		return decimal.Zero, err
	}
	shortfall := math.Max(0, demandMean-safetyStock)
	return decimal.NewFromFloat(shortfall).Mul(decimal.NewFromFloat(costPerUnit)), nil
}

// SimulatedStockOutCost returns cumulativeStockOut * costPerUnit
func SimulatedStockOutCost(cumulativeStockOut, costPerUnit float64) (decimal.Decimal, error) {
	if err := nonNegative("cumulative stock-out", cumulativeStockOut); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("stock-out cost per unit", costPerUnit); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(cumulativeStockOut).Mul(decimal.NewFromFloat(costPerUnit)), nil
}

// AnnualizedStockOutCost returns costPerUnit * ((100 - serviceLevel)/100) * 365 * demandMean
func AnnualizedStockOutCost(demandMean float64, serviceLevel entities.ServiceLevel, costPerUnit float64) (decimal.Decimal, error) {
	if err := serviceLevel.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("demand mean", demandMean); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("stock-out cost per unit", costPerUnit); err != nil {
		return decimal.Zero, err
	}
	missRate := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(float64(serviceLevel))).Div(decimal.NewFromInt(100))
	return decimal.NewFromFloat(costPerUnit).
		Mul(missRate).
		Mul(decimal.NewFromInt(entities.DaysPerYear)).
		Mul(decimal.NewFromFloat(demandMean)), nil
}

// StockOutInputs carries the quantities any stock-out estimator may need
type StockOutInputs struct {
	DemandMean         float64
	SafetyStock        float64
	CumulativeStockOut float64
	ServiceLevel       entities.ServiceLevel
	CostPerUnit        float64
}

// StockOutCost dispatches to the estimator named by method
func StockOutCost(method StockOutMethod, in StockOutInputs) (decimal.Decimal, error) {
	switch method {
	case ExpectedShortfall:
		return ExpectedShortfallStockOutCost(in.DemandMean, in.SafetyStock, in.CostPerUnit)
	case Simulated:
		return SimulatedStockOutCost(in.CumulativeStockOut, in.CostPerUnit)
	case AnnualizedProbability:
		return AnnualizedStockOutCost(in.DemandMean, in.ServiceLevel, in.CostPerUnit)
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown stock-out method %d", entities.ErrInvalidParameter, method)
	}
}
