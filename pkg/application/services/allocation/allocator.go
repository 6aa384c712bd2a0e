package allocation

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// solverTolerance is passed to the simplex solver as its optimality tolerance
const solverTolerance = 1e-10

// Allocation is the single-period stocking plan for distributors and retailers
type Allocation struct {
	Inventory     map[string]float64 `json:"inventory"`
	Objective     float64            `json:"objective"`
	TransportCost float64            `json:"transport_cost"`
	Feasible      bool               `json:"feasible"`
}

// AllocatorConfig holds configuration for the network allocator
type AllocatorConfig struct {
	Logger *slog.Logger
}

// Allocator solves the snapshot allocation LP over a supply network
type Allocator struct {
	logger *slog.Logger
}

// NewAllocator creates an allocator logging to the default logger
func NewAllocator() *Allocator {
	return NewAllocatorWithConfig(AllocatorConfig{})
}

// NewAllocatorWithConfig creates an allocator with custom configuration
func NewAllocatorWithConfig(config AllocatorConfig) *Allocator {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{logger: logger}
}

// Allocate solves
//
//	minimize   sum of x_i over distributors and retailers
//	subject to x_r = forecast[r]                 for every retailer r
//	           x_d - sum(x_c for children c) = 0 for every distributor d
//	           x >= 0
//
// Every retailer needs a forecast. When the LP is infeasible the returned allocation
// is all zero with Feasible unset, alongside an error matching ErrInfeasibleAllocation.
func (a *Allocator) Allocate(graph *entities.NetworkGraph, forecast map[string]float64) (*Allocation, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}

	// Step 1: index decision variables, distributors first then retailers
	distributors := graph.NodesByTier(entities.Distributor)
	retailers := graph.NodesByTier(entities.Retailer)
	locations := append(append([]string{}, distributors...), retailers...)
	if len(retailers) == 0 {
		return nil, fmt.Errorf("%w: network has no retailers to allocate to", entities.ErrInvalidNetwork)
	}
	index := make(map[string]int, len(locations))
	for i, name := range locations {
		index[name] = i
	}

	for _, name := range retailers {
		if _, ok := forecast[name]; !ok {
			return nil, fmt.Errorf("%w: missing forecast for retailer %s", entities.ErrInvalidParameter, name)
		}
	}

	// Step 2: one equality row per variable
	n := len(locations)
	A := mat.NewDense(n, n, nil)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := range c {
		c[i] = 1
	}
	for row, name := range distributors {
		A.Set(row, index[name], 1)
		for _, child := range graph.Children(name) {
			if col, ok := index[child]; ok {
				A.Set(row, col, -1)
			}
		}
	}
	for k, name := range retailers {
		row := len(distributors) + k
		A.Set(row, index[name], 1)
		b[row] = forecast[name]
	}

	// Step 3: solve
	objective, x, err := lp.Simplex(c, A, b, solverTolerance, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			a.logger.Warn("allocation infeasible, returning zero allocation",
				slog.Int("locations", n),
				slog.Any("error", err))
			return zeroAllocation(locations), fmt.Errorf("%w: %w", entities.ErrInfeasibleAllocation, err)
		}
		return nil, fmt.Errorf("failed to solve allocation: %w", err)
	}

	allocation := &Allocation{
		Inventory: make(map[string]float64, n),
		Objective: objective,
		Feasible:  true,
	}
	for i, name := range locations {
		allocation.Inventory[name] = x[i]
	}
	for _, edge := range graph.Edges() {
		if col, ok := index[edge.Downstream]; ok {
			allocation.TransportCost += edge.UnitCost * x[col]
		}
	}

	return allocation, nil
}

func zeroAllocation(locations []string) *Allocation {
	inventory := make(map[string]float64, len(locations))
	for _, name := range locations {
		inventory[name] = 0
	}
	return &Allocation{Inventory: inventory}
}
