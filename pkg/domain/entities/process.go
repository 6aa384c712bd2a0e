package entities

import "math"

// DemandProcess describes normally distributed demand per period.
// A zero StdDev is the deterministic case.
type DemandProcess struct {
	Mean   float64
	StdDev float64
}

// NewDemandProcess creates a validated DemandProcess
func NewDemandProcess(mean, stdDev float64) (DemandProcess, error) {
	if err := checkNonNegative("demand mean", mean); err != nil {
		return DemandProcess{}, err
	}
	if err := checkNonNegative("demand standard deviation", stdDev); err != nil {
		return DemandProcess{}, err
	}
	return DemandProcess{Mean: mean, StdDev: stdDev}, nil
}

// Validate checks the invariants of a DemandProcess built without the constructor
func (d DemandProcess) Validate() error {
	_, err := NewDemandProcess(d.Mean, d.StdDev)
	return err
}

// Variance returns StdDev squared.
func (d DemandProcess) Variance() float64 {
	return d.StdDev * d.StdDev
}

// Annual returns the expected demand over a 365 period year.
func (d DemandProcess) Annual() float64 {
	return d.Mean * DaysPerYear
}

// DaysPerYear is the annualization factor used for demand and cost figures.
const DaysPerYear = 365

// LeadTimeProcess describes the replenishment delay in periods.
type LeadTimeProcess struct {
	Mean   float64
	StdDev float64
}

// NewLeadTimeProcess creates a validated LeadTimeProcess
func NewLeadTimeProcess(mean, stdDev float64) (LeadTimeProcess, error) {
	if err := checkNonNegative("lead time mean", mean); err != nil {
		return LeadTimeProcess{}, err
	}
	if err := checkNonNegative("lead time standard deviation", stdDev); err != nil {
		return LeadTimeProcess{}, err
	}
	return LeadTimeProcess{Mean: mean, StdDev: stdDev}, nil
}

// Validate checks the invariants of a LeadTimeProcess built without the constructor
func (l LeadTimeProcess) Validate() error {
	_, err := NewLeadTimeProcess(l.Mean, l.StdDev)
	return err
}

// RealizedPeriods converts a sampled lead time into whole periods, never less than one.
func RealizedPeriods(sample float64) int {
	periods := int(math.Round(sample))
	if periods < 1 {
		return 1
	}
	return periods
}

func checkNonNegative(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return invalidf("%s must be finite, got %v", name, value)
	}
	if value < 0 {
		return invalidf("%s cannot be negative, got %v", name, value)
	}
	return nil
}
