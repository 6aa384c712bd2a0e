package entities

import (
	"errors"
	"math"
	"testing"
)

func TestDemandProcess_Validation(t *testing.T) {
	valid, err := NewDemandProcess(100, 20)
	if err != nil {
		t.Fatalf("Expected valid demand process creation to succeed: %v", err)
	}
	if valid.Variance() != 400 {
		t.Errorf("Expected variance 400, got %v", valid.Variance())
	}
	if valid.Annual() != 36500 {
		t.Errorf("Expected annual demand 36500, got %v", valid.Annual())
	}

	if _, err := NewDemandProcess(10, 0); err != nil {
		t.Errorf("Expected zero standard deviation to be valid, got %v", err)
	}

	testCases := []struct {
		name        string
		mean        float64
		stdDev      float64
		expectError string
	}{
		{"negative mean", -1, 5, "invalid parameter: demand mean cannot be negative, got -1"},
		{"negative std dev", 10, -2, "invalid parameter: demand standard deviation cannot be negative, got -2"},
		{"NaN mean", math.NaN(), 1, "invalid parameter: demand mean must be finite, got NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDemandProcess(tc.mean, tc.stdDev)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestLeadTimeProcess_Validation(t *testing.T) {
	if _, err := NewLeadTimeProcess(5, 2); err != nil {
		t.Fatalf("Expected valid lead time creation to succeed: %v", err)
	}
	if _, err := NewLeadTimeProcess(-5, 2); err == nil {
		t.Error("Expected error for negative lead time mean")
	}
	if err := (LeadTimeProcess{Mean: 3, StdDev: -1}).Validate(); err == nil {
		t.Error("Expected error for negative lead time standard deviation")
	}
}

func TestRealizedPeriods(t *testing.T) {
	testCases := []struct {
		sample   float64
		expected int
	}{
		{4.6, 5},
		{4.4, 4},
		{0.2, 1},
		{-3, 1},
		{1, 1},
		{2.5, 3},
	}

	for _, tc := range testCases {
		if got := RealizedPeriods(tc.sample); got != tc.expected {
			t.Errorf("RealizedPeriods(%v): expected %d, got %d", tc.sample, tc.expected, got)
		}
	}
}

func TestServiceLevel_Validate(t *testing.T) {
	for _, level := range []ServiceLevel{0.01, 50, 95, 99.99} {
		if err := level.Validate(); err != nil {
			t.Errorf("Expected service level %v to be valid, got %v", level, err)
		}
	}
	for _, level := range []ServiceLevel{0, 100, -5, 150} {
		if err := level.Validate(); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Expected ErrInvalidParameter for service level %v, got %v", level, err)
		}
	}
	if p := ServiceLevel(95).Probability(); p != 0.95 {
		t.Errorf("Expected probability 0.95, got %v", p)
	}
}

func TestReplenishmentPolicy_Validation(t *testing.T) {
	policy, err := NewReplenishmentPolicy(598.7, 500)
	if err != nil {
		t.Fatalf("Expected valid policy creation to succeed: %v", err)
	}
	if policy.OrderQuantity != 500 {
		t.Errorf("Expected order quantity 500, got %v", policy.OrderQuantity)
	}

	testCases := []struct {
		name          string
		reorderPoint  float64
		orderQuantity float64
		expectError   string
	}{
		{"zero order quantity", 10, 0, "invalid parameter: order quantity must be positive, got 0"},
		{"negative order quantity", 10, -4, "invalid parameter: order quantity must be positive, got -4"},
		{"infinite reorder point", math.Inf(1), 5, "invalid parameter: reorder point must be finite, got +Inf"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReplenishmentPolicy(tc.reorderPoint, tc.orderQuantity)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestCostParameters_Validation(t *testing.T) {
	if _, err := NewCostParameters(1, 50, 0); err != nil {
		t.Fatalf("Expected valid cost parameters, got %v", err)
	}
	if _, err := NewCostParameters(-1, 50, 0); err == nil {
		t.Error("Expected error for negative holding cost")
	}
	if _, err := NewCostParameters(1, -50, 0); err == nil {
		t.Error("Expected error for negative order cost")
	}
	if _, err := NewCostParameters(1, 50, -2); err == nil {
		t.Error("Expected error for negative stock-out cost")
	}
}

func TestErrDivisionByZero_IsInvalidParameter(t *testing.T) {
	if !errors.Is(ErrDivisionByZero, ErrInvalidParameter) {
		t.Error("Expected ErrDivisionByZero to match ErrInvalidParameter")
	}
}

func TestSimulationState_State(t *testing.T) {
	state := NewSimulationState(100)
	if state.State() != Idle {
		t.Errorf("Expected Idle, got %s", state.State())
	}
	state.OrderPending = true
	if state.State() != OrderPending {
		t.Errorf("Expected OrderPending, got %s", state.State())
	}
	if Backorder.String() != "Backorder" || ClampToZero.String() != "ClampToZero" {
		t.Error("Unexpected inventory mode names")
	}
}

func TestParseInventoryMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected InventoryMode
	}{
		{"", ClampToZero},
		{"lost_sales", ClampToZero},
		{"Backorder", Backorder},
	}

	for _, tc := range testCases {
		got, err := ParseInventoryMode(tc.input)
		if err != nil {
			t.Fatalf("ParseInventoryMode(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("ParseInventoryMode(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}

	if _, err := ParseInventoryMode("negative"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}
}
