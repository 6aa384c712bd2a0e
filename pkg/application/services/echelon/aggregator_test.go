package echelon

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	testhelpers "github.com/yay4john/Inventory-Optimization/pkg/infrastructure/testing"
)

const z95 = 1.6448536269514722

func TestDerivePolicy_EOQAndReorderPoint(t *testing.T) {
	aggregator := NewAggregator()
	graph := testhelpers.BuildTwoRetailerNetwork()

	leaf, err := aggregator.DerivePolicy(graph, "store-a")
	require.NoError(t, err)

	assert.InDelta(t, z95*60, leaf.SafetyStock, 1e-9)
	assert.InDelta(t, 500+z95*60, leaf.Policy.ReorderPoint, 1e-9)
	assert.InDelta(t, math.Sqrt(2*36500*50), leaf.Policy.OrderQuantity, 1e-9)
}

func TestDerivePolicy_Errors(t *testing.T) {
	aggregator := NewAggregator()

	solo, err := entities.NewNetworkGraph([]entities.Node{{Name: "solo", Tier: entities.Retailer, ServiceLevel: 95}}, nil)
	require.NoError(t, err)
	_, err = aggregator.DerivePolicy(solo, "solo")
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)

	_, err = aggregator.DerivePolicy(solo, "ghost")
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)

	free, err := entities.NewNetworkGraph(
		[]entities.Node{
			{Name: "dc", Tier: entities.Distributor},
			{Name: "store", Tier: entities.Retailer, ServiceLevel: 95, Demand: entities.DemandProcess{Mean: 10, StdDev: 2}},
		},
		[]entities.NetworkEdge{testhelpers.Edge("dc", "store")},
	)
	require.NoError(t, err)
	_, err = aggregator.DerivePolicy(free, "store")
	assert.ErrorIs(t, err, entities.ErrDivisionByZero)

	// a distributor with nothing below it has no end demand to stock against
	bare, err := entities.NewNetworkGraph(
		[]entities.Node{
			{Name: "plant", Tier: entities.Supplier},
			{Name: "dc", Tier: entities.Distributor, Demand: entities.DemandProcess{Mean: 10}},
		},
		[]entities.NetworkEdge{testhelpers.Edge("plant", "dc")},
	)
	require.NoError(t, err)
	_, err = aggregator.DerivePolicy(bare, "dc")
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)
	_, err = aggregator.RunNetworkSimulation(context.Background(), bare, 10, testhelpers.Seeded(1))
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)
	_, err = aggregator.ComparePooling(bare)
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)
}

func TestRunNetworkSimulation_Deterministic(t *testing.T) {
	aggregator := NewAggregator()
	graph := testhelpers.BuildDeterministicNetwork()

	result, err := aggregator.RunNetworkSimulation(context.Background(), graph, 10, testhelpers.Seeded(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"store-a", "store-b"}, result.NodeOrder)
	assert.Equal(t, []float64{90, 80, 70, 60, 50, 40, 30, 20, 10, 100}, result.PerNode["store-a"].Trajectory)
	assert.Equal(t, []float64{80, 60, 40, 20, 100, 80, 60, 40, 20, 100}, result.PerNode["store-b"].Trajectory)
	assert.Equal(t, []float64{170, 140, 110, 80, 150, 120, 90, 60, 30, 200}, result.TotalTrajectory)

	assert.Equal(t, 20.0, result.Policies["store-a"].Policy.ReorderPoint)
	assert.Equal(t, 40.0, result.Policies["store-b"].Policy.ReorderPoint)
	assert.Equal(t, 1, result.PerNode["store-a"].OrderCount)
	assert.Equal(t, 2, result.PerNode["store-b"].OrderCount)
}

func TestRunNetworkSimulation_PricesEveryLeaf(t *testing.T) {
	graph := testhelpers.BuildDeterministicNetwork()

	result, err := NewAggregator().RunNetworkSimulation(context.Background(), graph, 10, testhelpers.Seeded(1))
	require.NoError(t, err)
	require.Len(t, result.NodeCosts, 2)

	// store-a averages 55 units on hand and orders once at S=50
	storeA := result.NodeCosts["store-a"]
	assert.InDelta(t, 55, storeA.Holding.InexactFloat64(), 1e-9)
	assert.InDelta(t, 50, storeA.Ordering.InexactFloat64(), 1e-9)
	assert.True(t, storeA.StockOut.IsZero())

	// store-b averages 60 units on hand and orders twice
	storeB := result.NodeCosts["store-b"]
	assert.InDelta(t, 60, storeB.Holding.InexactFloat64(), 1e-9)
	assert.InDelta(t, 100, storeB.Ordering.InexactFloat64(), 1e-9)

	assert.InDelta(t, 265, result.TotalCost.Total.InexactFloat64(), 1e-9)
	assert.True(t, result.TotalCost.Holding.Equal(storeA.Holding.Add(storeB.Holding)))
}

func TestRunNetworkSimulation_PricesStockOutsAndEdgeOrderCost(t *testing.T) {
	store, err := entities.NewNode("store", entities.Retailer, entities.DemandProcess{Mean: 30},
		entities.CostParameters{HoldingCostPerUnit: 2, OrderCost: 999, StockOutCostPerUnit: 4}, 95)
	require.NoError(t, err)
	store.OrderQuantity = 50
	graph, err := entities.NewNetworkGraph(
		[]entities.Node{{Name: "dc", Tier: entities.Distributor}, *store},
		[]entities.NetworkEdge{{Upstream: "dc", Downstream: "store", OrderCost: 10, LeadTime: entities.LeadTimeProcess{Mean: 3}}},
	)
	require.NoError(t, err)

	result, err := NewAggregator().RunNetworkSimulation(context.Background(), graph, 20, testhelpers.Seeded(3))
	require.NoError(t, err)

	run := result.PerNode["store"]
	require.Greater(t, run.CumulativeStockOut, 0.0)
	breakdown := result.NodeCosts["store"]
	assert.InDelta(t, 4*run.CumulativeStockOut, breakdown.StockOut.InexactFloat64(), 1e-9)
	assert.InDelta(t, 10*float64(run.OrderCount), breakdown.Ordering.InexactFloat64(), 1e-9)
	assert.InDelta(t, 2*math.Max(0, run.AverageInventory), breakdown.Holding.InexactFloat64(), 1e-9)
	assert.True(t, breakdown.Total.Equal(result.TotalCost.Total))
}

func TestRunNetworkSimulation_ReproducibleAcrossConcurrency(t *testing.T) {
	graph := testhelpers.BuildThreeTierNetwork()
	ctx := context.Background()

	parallel, err := NewAggregator().RunNetworkSimulation(ctx, graph, 120, testhelpers.Seeded(99))
	require.NoError(t, err)

	sequential, err := NewAggregatorWithConfig(AggregatorConfig{MaxConcurrency: 1}).
		RunNetworkSimulation(ctx, graph, 120, testhelpers.Seeded(99))
	require.NoError(t, err)

	assert.Equal(t, parallel.TotalTrajectory, sequential.TotalTrajectory)
	for _, name := range parallel.NodeOrder {
		assert.Equal(t, parallel.PerNode[name], sequential.PerNode[name], name)
	}
}

func TestRunNetworkSimulation_TotalIsSumOfLeaves(t *testing.T) {
	graph := testhelpers.BuildThreeTierNetwork()

	result, err := NewAggregator().RunNetworkSimulation(context.Background(), graph, 90, testhelpers.Seeded(5))
	require.NoError(t, err)

	require.Equal(t, []string{"store-1", "store-2", "store-3"}, result.NodeOrder)
	require.Len(t, result.TotalTrajectory, 90)
	for period := range result.TotalTrajectory {
		sum := 0.0
		for _, name := range result.NodeOrder {
			sum += result.PerNode[name].Trajectory[period]
		}
		assert.InDelta(t, sum, result.TotalTrajectory[period], 1e-9, "period %d", period)
	}
}

func TestRunNetworkSimulation_Errors(t *testing.T) {
	aggregator := NewAggregator()
	ctx := context.Background()
	graph := testhelpers.BuildTwoRetailerNetwork()

	_, err := aggregator.RunNetworkSimulation(ctx, graph, 0, testhelpers.Seeded(1))
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)

	_, err = aggregator.RunNetworkSimulation(ctx, nil, 10, testhelpers.Seeded(1))
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)

	_, err = aggregator.RunNetworkSimulation(ctx, graph, 10, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = aggregator.RunNetworkSimulation(cancelled, graph, 10, testhelpers.Seeded(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparePooling_IdenticalRetailers(t *testing.T) {
	comparison, err := NewAggregator().ComparePooling(testhelpers.BuildTwoRetailerNetwork())
	require.NoError(t, err)

	assert.InDelta(t, z95*60, comparison.PerNode["store-a"], 1e-9)
	assert.InDelta(t, 2*z95*60, comparison.IndependentSafetyStock, 1e-9)
	// identical streams: the aggregate-variance result equals the square-root law
	assert.InDelta(t, comparison.SquareRootLawSafetyStock, comparison.PooledSafetyStock, 1e-9)
	assert.InDelta(t, 2*z95*60/math.Sqrt2, comparison.PooledSafetyStock, 1e-9)
	assert.InDelta(t, (1-1/math.Sqrt2)*100, comparison.BenefitPercent, 1e-9)

	// h=1 everywhere: holding cost equals safety stock
	assert.InDelta(t, comparison.IndependentSafetyStock, comparison.IndependentHoldingCost.InexactFloat64(), 1e-6)
	assert.InDelta(t, comparison.PooledSafetyStock, comparison.PooledHoldingCost.InexactFloat64(), 1e-6)
	assert.InDelta(t, comparison.RiskPoolingBenefit, comparison.HoldingCostSavings.InexactFloat64(), 1e-6)
}

func TestComparePooling_HoldingCostUsesEachLeafRate(t *testing.T) {
	store := func(name string, h float64) entities.Node {
		n, err := entities.NewNode(name, entities.Retailer, testhelpers.DefaultDemand(),
			entities.CostParameters{HoldingCostPerUnit: h, OrderCost: 50, StockOutCostPerUnit: 5}, 95)
		require.NoError(t, err)
		return *n
	}
	graph, err := entities.NewNetworkGraph(
		[]entities.Node{{Name: "dc", Tier: entities.Distributor}, store("store-a", 2), store("store-b", 1)},
		[]entities.NetworkEdge{testhelpers.Edge("dc", "store-a"), testhelpers.Edge("dc", "store-b")},
	)
	require.NoError(t, err)

	comparison, err := NewAggregator().ComparePooling(graph)
	require.NoError(t, err)

	// independent: z*60 at h=2 plus z*60 at h=1; pooled: sqrt(2)*z*60 at the mean rate 1.5
	assert.InDelta(t, 3*z95*60, comparison.IndependentHoldingCost.InexactFloat64(), 1e-6)
	assert.InDelta(t, 1.5*math.Sqrt2*z95*60, comparison.PooledHoldingCost.InexactFloat64(), 1e-6)
	assert.InDelta(t, (3-1.5*math.Sqrt2)*z95*60, comparison.HoldingCostSavings.InexactFloat64(), 1e-6)
	assert.True(t, comparison.HoldingCostSavings.IsPositive())
}

func TestComparePooling_UnequalRetailers(t *testing.T) {
	comparison, err := NewAggregator().ComparePooling(testhelpers.BuildThreeTierNetwork())
	require.NoError(t, err)

	require.Len(t, comparison.PerNode, 3)
	sum := 0.0
	for _, ss := range comparison.PerNode {
		sum += ss
	}
	assert.InDelta(t, sum, comparison.IndependentSafetyStock, 1e-9)
	assert.Less(t, comparison.PooledSafetyStock, comparison.IndependentSafetyStock)
	assert.Greater(t, comparison.RiskPoolingBenefit, 0.0)
	assert.InDelta(t, comparison.IndependentSafetyStock/math.Sqrt(3), comparison.SquareRootLawSafetyStock, 1e-9)
}

func TestPooledSafetyStock_Delegates(t *testing.T) {
	pooled, err := PooledSafetyStock(100, 4)
	require.NoError(t, err)
	assert.InDelta(t, 50, pooled, 1e-12)

	_, err = PooledSafetyStock(100, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
}
