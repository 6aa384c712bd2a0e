package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// SafetyStockMethod selects the safety stock estimator
type SafetyStockMethod int

const (
	// CombinedVariance is z*sqrt(sd^2*L + sd^2*sL^2). Lead-time variability is
	// weighted by the demand variance rather than the squared demand mean.
	CombinedVariance SafetyStockMethod = iota
	// Textbook is z*sqrt(L*sd^2 + mean^2*sL^2).
	Textbook
	// DemandOnly is z*sd*sqrt(L) and ignores lead-time variability.
	DemandOnly
)

// String method for SafetyStockMethod enum
func (m SafetyStockMethod) String() string {
	switch m {
	case CombinedVariance:
		return "combined_variance"
	case Textbook:
		return "textbook"
	case DemandOnly:
		return "demand_only"
	default:
		return "unknown"
	}
}

// ParseSafetyStockMethod maps a configuration name to a SafetyStockMethod
func ParseSafetyStockMethod(name string) (SafetyStockMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "combined_variance":
		return CombinedVariance, nil
	case "textbook":
		return Textbook, nil
	case "demand_only":
		return DemandOnly, nil
	default:
		return 0, fmt.Errorf("%w: unknown safety stock method %q", entities.ErrInvalidParameter, name)
	}
}

// SafetyStock computes z*sqrt(sd^2*L + sd^2*sL^2) with z from the inverse standard normal CDF.
func SafetyStock(demandStd, leadTimeMean, leadTimeStd, serviceLevel float64) (float64, error) {
	return SafetyStockWith(
		CombinedVariance,
		InverseNormal,
		entities.DemandProcess{StdDev: demandStd},
		entities.LeadTimeProcess{Mean: leadTimeMean, StdDev: leadTimeStd},
		entities.ServiceLevel(serviceLevel),
	)
}

// SafetyStockWith computes safety stock with an explicit estimator and z-score method.
// Zero variance yields zero safety stock. Service levels below 50 would give a
// negative z; the result is floored at zero.
func SafetyStockWith(
	method SafetyStockMethod,
	zMethod ZScoreMethod,
	demand entities.DemandProcess,
	leadTime entities.LeadTimeProcess,
	level entities.ServiceLevel,
) (float64, error) {
	if err := demand.Validate(); err != nil {
		return 0, err
	}
	if err := leadTime.Validate(); err != nil {
		return 0, err
	}
	z, err := ZScore(zMethod, level)
	if err != nil {
		return 0, err
	}

	var variance float64
	switch method {
	case CombinedVariance:
		variance = demand.Variance()*leadTime.Mean + demand.Variance()*leadTime.StdDev*leadTime.StdDev
	case Textbook:
		variance = leadTime.Mean*demand.Variance() + demand.Mean*demand.Mean*leadTime.StdDev*leadTime.StdDev
	case DemandOnly:
		variance = demand.Variance() * leadTime.Mean
	default:
		return 0, fmt.Errorf("%w: unknown safety stock method %d", entities.ErrInvalidParameter, method)
	}

	return math.Max(0, z*math.Sqrt(variance)), nil
}

// ReorderPoint returns demandMean*leadTimeMean + safetyStock.
func ReorderPoint(demandMean, leadTimeMean, safetyStock float64) float64 {
	return demandMean*leadTimeMean + safetyStock
}

// EconomicOrderQuantity returns sqrt(2*D*S/H).
// A zero holding cost returns ErrDivisionByZero.
func EconomicOrderQuantity(annualDemand, orderCost, holdingCostPerUnit float64) (float64, error) {
	if annualDemand < 0 {
		return 0, fmt.Errorf("%w: annual demand cannot be negative, got %v", entities.ErrInvalidParameter, annualDemand)
	}
	if orderCost < 0 {
		return 0, fmt.Errorf("%w: order cost cannot be negative, got %v", entities.ErrInvalidParameter, orderCost)
	}
	if holdingCostPerUnit < 0 {
		return 0, fmt.Errorf("%w: holding cost per unit cannot be negative, got %v", entities.ErrInvalidParameter, holdingCostPerUnit)
	}
	if holdingCostPerUnit == 0 {
		return 0, fmt.Errorf("%w: holding cost per unit is zero", entities.ErrDivisionByZero)
	}
	return math.Sqrt(2 * annualDemand * orderCost / holdingCostPerUnit), nil
}

// PooledSafetyStock applies the square-root risk-pooling reduction: base/sqrt(numEchelons).
func PooledSafetyStock(baseSafetyStock float64, numEchelons int) (float64, error) {
	if numEchelons < 1 {
		return 0, fmt.Errorf("%w: number of echelons must be at least 1, got %d", entities.ErrInvalidParameter, numEchelons)
	}
	if baseSafetyStock < 0 {
		return 0, fmt.Errorf("%w: base safety stock cannot be negative, got %v", entities.ErrInvalidParameter, baseSafetyStock)
	}
	if numEchelons == 1 {
		return baseSafetyStock, nil
	}
	return baseSafetyStock / math.Sqrt(float64(numEchelons)), nil
}
