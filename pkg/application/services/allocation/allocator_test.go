package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/logging"
	testhelpers "github.com/yay4john/Inventory-Optimization/pkg/infrastructure/testing"
)

func newTestAllocator() *Allocator {
	return NewAllocatorWithConfig(AllocatorConfig{Logger: logging.Discard()})
}

func TestAllocate_SingleLane(t *testing.T) {
	graph, err := entities.NewNetworkGraph(
		[]entities.Node{
			{Name: "dc", Tier: entities.Distributor},
			{Name: "store", Tier: entities.Retailer, ServiceLevel: 95},
		},
		[]entities.NetworkEdge{{Upstream: "dc", Downstream: "store", UnitCost: 0.5}},
	)
	require.NoError(t, err)

	allocation, err := newTestAllocator().Allocate(graph, map[string]float64{"store": 100})
	require.NoError(t, err)

	assert.True(t, allocation.Feasible)
	assert.InDelta(t, 100, allocation.Inventory["store"], 1e-9)
	assert.InDelta(t, 100, allocation.Inventory["dc"], 1e-9)
	assert.InDelta(t, 200, allocation.Objective, 1e-9)
	assert.InDelta(t, 50, allocation.TransportCost, 1e-9)
}

func TestAllocate_FlowBalance(t *testing.T) {
	graph := testhelpers.BuildThreeTierNetwork()
	forecast := map[string]float64{"store-1": 130, "store-2": 70, "store-3": 45}

	allocation, err := newTestAllocator().Allocate(graph, forecast)
	require.NoError(t, err)
	require.True(t, allocation.Feasible)

	assert.NotContains(t, allocation.Inventory, "factory", "suppliers are not decision variables")
	for name, demand := range forecast {
		assert.InDelta(t, demand, allocation.Inventory[name], 1e-9, name)
	}
	assert.InDelta(t, 200, allocation.Inventory["dc-east"], 1e-9)
	assert.InDelta(t, 45, allocation.Inventory["dc-west"], 1e-9)
	assert.InDelta(t, 490, allocation.Objective, 1e-9)

	// factory lanes carry 200 + 45 at 1; store lanes 130 + 70 at 1 and 45 at 2
	assert.InDelta(t, 245+200+90, allocation.TransportCost, 1e-9)
}

func TestAllocate_Infeasible(t *testing.T) {
	graph := testhelpers.BuildTwoRetailerNetwork()

	allocation, err := newTestAllocator().Allocate(graph, map[string]float64{"store-a": 100, "store-b": -40})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInfeasibleAllocation)
	assert.ErrorIs(t, err, lp.ErrInfeasible)

	require.NotNil(t, allocation, "the degraded result is returned with the error")
	assert.False(t, allocation.Feasible)
	assert.Len(t, allocation.Inventory, 3)
	for name, qty := range allocation.Inventory {
		assert.Equal(t, 0.0, qty, name)
	}
}

func TestAllocate_InvalidInput(t *testing.T) {
	allocator := newTestAllocator()
	graph := testhelpers.BuildTwoRetailerNetwork()

	_, err := allocator.Allocate(graph, map[string]float64{"store-a": 100})
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)

	_, err = allocator.Allocate(nil, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)

	suppliersOnly, err := entities.NewNetworkGraph([]entities.Node{{Name: "s", Tier: entities.Supplier}}, nil)
	require.NoError(t, err)
	_, err = allocator.Allocate(suppliersOnly, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)
}
