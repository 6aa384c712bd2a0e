package entities

import "math"

// ServiceLevel is the target probability, in percent, of not stocking out during lead time.
type ServiceLevel float64

// Validate checks that the level lies in the open interval (0, 100)
func (s ServiceLevel) Validate() error {
	v := float64(s)
	if math.IsNaN(v) || v <= 0 || v >= 100 {
		return invalidf("service level must be in (0, 100), got %v", v)
	}
	return nil
}

// Probability returns the level as a fraction in (0, 1).
func (s ServiceLevel) Probability() float64 {
	return float64(s) / 100
}

// ReplenishmentPolicy is a continuous-review (reorder point, order quantity) policy.
type ReplenishmentPolicy struct {
	ReorderPoint  float64
	OrderQuantity float64
}

// NewReplenishmentPolicy creates a validated ReplenishmentPolicy
func NewReplenishmentPolicy(reorderPoint, orderQuantity float64) (ReplenishmentPolicy, error) {
	p := ReplenishmentPolicy{ReorderPoint: reorderPoint, OrderQuantity: orderQuantity}
	if err := p.Validate(); err != nil {
		return ReplenishmentPolicy{}, err
	}
	return p, nil
}

// Validate checks that the order quantity is positive and the reorder point is finite
func (p ReplenishmentPolicy) Validate() error {
	if math.IsNaN(p.ReorderPoint) || math.IsInf(p.ReorderPoint, 0) {
		return invalidf("reorder point must be finite, got %v", p.ReorderPoint)
	}
	if math.IsNaN(p.OrderQuantity) || p.OrderQuantity <= 0 || math.IsInf(p.OrderQuantity, 0) {
		return invalidf("order quantity must be positive, got %v", p.OrderQuantity)
	}
	return nil
}

// CostParameters holds the unit economics of a stocking location.
type CostParameters struct {
	HoldingCostPerUnit  float64
	OrderCost           float64
	StockOutCostPerUnit float64
}

// NewCostParameters creates a validated CostParameters
func NewCostParameters(holdingCostPerUnit, orderCost, stockOutCostPerUnit float64) (CostParameters, error) {
	c := CostParameters{
		HoldingCostPerUnit:  holdingCostPerUnit,
		OrderCost:           orderCost,
		StockOutCostPerUnit: stockOutCostPerUnit,
	}
	if err := c.Validate(); err != nil {
		return CostParameters{}, err
	}
	return c, nil
}

// Validate checks that all costs are non-negative
func (c CostParameters) Validate() error {
	if err := checkNonNegative("holding cost per unit", c.HoldingCostPerUnit); err != nil {
		return err
	}
	if err := checkNonNegative("order cost", c.OrderCost); err != nil {
		return err
	}
	return checkNonNegative("stock-out cost per unit", c.StockOutCostPerUnit)
}
