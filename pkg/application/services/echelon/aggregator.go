package echelon

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yay4john/Inventory-Optimization/pkg/application/services/cost"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/simulation"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
)

// AggregatorConfig holds configuration for the multi-echelon aggregator
type AggregatorConfig struct {
	SafetyStockMethod services.SafetyStockMethod
	ZScoreMethod      services.ZScoreMethod
	// Simulator runs each leaf; nil uses a lost-sales simulator
	Simulator *simulation.Simulator
	// MaxConcurrency limits parallel leaf simulations (0 = unlimited)
	MaxConcurrency int
	Logger         *slog.Logger
}

// Aggregator simulates every leaf of a supply network and compares independent and pooled stocking
type Aggregator struct {
	config AggregatorConfig
	logger *slog.Logger
}

// NewAggregator creates an aggregator with default configuration
func NewAggregator() *Aggregator {
	return NewAggregatorWithConfig(AggregatorConfig{})
}

// NewAggregatorWithConfig creates an aggregator with custom configuration
func NewAggregatorWithConfig(config AggregatorConfig) *Aggregator {
	if config.Simulator == nil {
		config.Simulator = simulation.NewSimulatorWithConfig(simulation.SimulatorConfig{
			Mode:   entities.ClampToZero,
			Logger: config.Logger,
		})
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{config: config, logger: logger}
}

// PooledSafetyStock applies the square-root law to a base safety stock
func PooledSafetyStock(baseSafetyStock float64, numEchelons int) (float64, error) {
	return services.PooledSafetyStock(baseSafetyStock, numEchelons)
}

// DerivePolicy derives the replenishment policy of one leaf from its own demand and
// service level and its inbound edge's lead time and order cost
func (a *Aggregator) DerivePolicy(graph *entities.NetworkGraph, name string) (services.LeafPolicy, error) {
	if graph == nil {
		return services.LeafPolicy{}, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}
	node, ok := graph.Node(name)
	if !ok {
		return services.LeafPolicy{}, fmt.Errorf("%w: unknown node %s", entities.ErrInvalidNetwork, name)
	}
	edge, ok := graph.InboundEdge(name)
	if !ok {
		return services.LeafPolicy{}, fmt.Errorf("%w: node %s has no inbound edge to supply it", entities.ErrInvalidNetwork, name)
	}
	return services.DeriveLeafPolicy(a.config.SafetyStockMethod, a.config.ZScoreMethod, node, edge)
}

// NetworkSimulationResult holds per-leaf runs and their period-by-period sum
type NetworkSimulationResult struct {
	PerNode         map[string]*simulation.SimulationResult `json:"per_node"`
	Policies        map[string]services.LeafPolicy          `json:"policies"`
	NodeOrder       []string                                `json:"node_order"`
	TotalTrajectory []float64                               `json:"total_trajectory"`
	// NodeCosts prices each leaf's run: holding on its average inventory, ordering at
	// its inbound edge's order cost and stock-out on its cumulative shortfall
	NodeCosts map[string]cost.CostBreakdown `json:"node_costs"`
	TotalCost cost.CostBreakdown            `json:"total_cost"`
}

// RunNetworkSimulation runs one simulator per leaf node and sums their trajectories.
// Each leaf gets its own PCG stream seeded in name order from src, so the result
// does not depend on goroutine scheduling.
func (a *Aggregator) RunNetworkSimulation(
	ctx context.Context,
	graph *entities.NetworkGraph,
	horizon int,
	src rand.Source,
) (*NetworkSimulationResult, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: random source is required", entities.ErrInvalidParameter)
	}
	if horizon < 1 || horizon > simulation.MaxHorizon {
		return nil, fmt.Errorf("%w: horizon must be between 1 and %d, got %d", entities.ErrInvalidParameter, simulation.MaxHorizon, horizon)
	}

	// Step 1: derive every policy before simulating anything
	policies, err := services.DeriveLeafPolicies(graph, a.config.SafetyStockMethod, a.config.ZScoreMethod)
	if err != nil {
		return nil, err
	}
	leaves := make([]string, len(policies))
	for i, policy := range policies {
		leaves[i] = policy.Node
	}

	// Step 2: split the source into per-leaf streams
	seeder := rand.New(src)
	sources := make([]rand.Source, len(leaves))
	for i := range leaves {
		sources[i] = rand.NewPCG(seeder.Uint64(), seeder.Uint64())
	}

	// Step 3: simulate leaves concurrently
	results := make([]*simulation.SimulationResult, len(leaves))
	g, gctx := errgroup.WithContext(ctx)
	if a.config.MaxConcurrency > 0 {
		g.SetLimit(a.config.MaxConcurrency)
	}
	for i, name := range leaves {
		g.Go(func() error {
			node, _ := graph.Node(name)
			result, err := a.config.Simulator.Simulate(gctx, simulation.Scenario{
				Node:             name,
				Demand:           policies[i].Demand,
				LeadTime:         policies[i].LeadTime,
				Policy:           policies[i].Policy,
				Horizon:          horizon,
				InitialInventory: node.InitialInventory,
			}, sources[i])
			if err != nil {
				return fmt.Errorf("failed to simulate node %s: %w", name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 4: aggregate and price
	out := &NetworkSimulationResult{
		PerNode:         make(map[string]*simulation.SimulationResult, len(leaves)),
		Policies:        make(map[string]services.LeafPolicy, len(leaves)),
		NodeOrder:       leaves,
		TotalTrajectory: make([]float64, horizon),
		NodeCosts:       make(map[string]cost.CostBreakdown, len(leaves)),
		TotalCost:       cost.NewCostBreakdown(decimal.Zero, decimal.Zero, decimal.Zero),
	}
	for i, name := range leaves {
		out.PerNode[name] = results[i]
		out.Policies[name] = policies[i]
		for period, level := range results[i].Trajectory {
			out.TotalTrajectory[period] += level
		}

		breakdown, err := priceLeaf(graph, name, results[i])
		if err != nil {
			return nil, err
		}
		out.NodeCosts[name] = breakdown
		out.TotalCost = cost.NewCostBreakdown(
			out.TotalCost.Holding.Add(breakdown.Holding),
			out.TotalCost.Ordering.Add(breakdown.Ordering),
			out.TotalCost.StockOut.Add(breakdown.StockOut),
		)
	}

	a.logger.Debug("network simulation finished",
		slog.Int("leaves", len(leaves)),
		slog.Int("horizon", horizon),
		slog.String("total_cost", out.TotalCost.Total.StringFixed(2)))

	return out, nil
}

// priceLeaf prices one leaf run from its simulated averages.
// Orders are charged at the inbound edge's order cost, the same cost its EOQ used.
func priceLeaf(graph *entities.NetworkGraph, name string, run *simulation.SimulationResult) (cost.CostBreakdown, error) {
	node, _ := graph.Node(name)
	edge, _ := graph.InboundEdge(name)

	costs := node.Costs
	costs.OrderCost = edge.OrderCost
	breakdown, err := cost.HoldingAndOrderingCost(cost.SimulationBased, cost.HoldingOrderingInputs{
		AverageInventory: run.AverageInventory,
		OrderCount:       run.OrderCount,
		Costs:            costs,
	})
	if err != nil {
		return cost.CostBreakdown{}, fmt.Errorf("failed to price node %s: %w", name, err)
	}
	stockOut, err := cost.SimulatedStockOutCost(run.CumulativeStockOut, node.Costs.StockOutCostPerUnit)
	if err != nil {
		return cost.CostBreakdown{}, fmt.Errorf("failed to price stock-outs at node %s: %w", name, err)
	}
	return breakdown.WithStockOut(stockOut), nil
}

// PoolingComparison contrasts stocking each leaf independently with one pooled location
type PoolingComparison struct {
	PerNode                map[string]float64 `json:"per_node"`
	IndependentSafetyStock float64            `json:"independent_safety_stock"`
	// PooledSafetyStock is computed over the aggregate demand variance
	PooledSafetyStock float64 `json:"pooled_safety_stock"`
	// SquareRootLawSafetyStock is IndependentSafetyStock / sqrt(number of leaves)
	SquareRootLawSafetyStock float64 `json:"square_root_law_safety_stock"`
	RiskPoolingBenefit       float64 `json:"risk_pooling_benefit"`
	BenefitPercent           float64 `json:"benefit_percent"`
	// IndependentHoldingCost is the sum of each leaf's safety stock times its holding cost
	IndependentHoldingCost decimal.Decimal `json:"independent_holding_cost"`
	// PooledHoldingCost charges the pooled safety stock at the demand-weighted holding cost
	PooledHoldingCost  decimal.Decimal `json:"pooled_holding_cost"`
	HoldingCostSavings decimal.Decimal `json:"holding_cost_savings"`
}

// ComparePooling computes per-leaf safety stock, sums it, and compares the sum with the
// safety stock of a single location facing the aggregate demand. The pooled location uses
// the summed demand mean, the root of the summed variances, a demand-weighted lead time and
// the strictest leaf service level. Both stockings are also priced at SS*h.
func (a *Aggregator) ComparePooling(graph *entities.NetworkGraph) (*PoolingComparison, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}
	policies, err := services.DeriveLeafPolicies(graph, a.config.SafetyStockMethod, a.config.ZScoreMethod)
	if err != nil {
		return nil, err
	}
	leaves := len(policies)
	if leaves == 0 {
		return nil, fmt.Errorf("%w: network has no leaves to pool", entities.ErrInvalidNetwork)
	}

	comparison := &PoolingComparison{
		PerNode:                make(map[string]float64, leaves),
		IndependentHoldingCost: decimal.Zero,
	}

	var (
		meanSum, varianceSum    float64
		weightedLT, weightedLTV float64
		plainLT, plainLTV       float64
		weightedH, plainH       float64
		level                   entities.ServiceLevel
	)
	for _, policy := range policies {
		node, _ := graph.Node(policy.Node)
		h := node.Costs.HoldingCostPerUnit

		comparison.PerNode[policy.Node] = policy.SafetyStock
		comparison.IndependentSafetyStock += policy.SafetyStock
		comparison.IndependentHoldingCost = comparison.IndependentHoldingCost.Add(
			decimal.NewFromFloat(policy.SafetyStock).Mul(decimal.NewFromFloat(h)))
		weightedH += policy.Demand.Mean * h
		plainH += h

		meanSum += policy.Demand.Mean
		varianceSum += policy.Demand.Variance()
		weightedLT += policy.Demand.Mean * policy.LeadTime.Mean
		weightedLTV += policy.Demand.Mean * policy.LeadTime.StdDev
		plainLT += policy.LeadTime.Mean
		plainLTV += policy.LeadTime.StdDev
		if node.ServiceLevel > level {
			level = node.ServiceLevel
		}
	}

	leadTime := entities.LeadTimeProcess{Mean: plainLT / float64(leaves), StdDev: plainLTV / float64(leaves)}
	pooledH := plainH / float64(leaves)
	if meanSum > 0 {
		leadTime = entities.LeadTimeProcess{Mean: weightedLT / meanSum, StdDev: weightedLTV / meanSum}
		pooledH = weightedH / meanSum
	}
	aggregate := entities.DemandProcess{Mean: meanSum, StdDev: math.Sqrt(varianceSum)}

	pooled, err := services.SafetyStockWith(a.config.SafetyStockMethod, a.config.ZScoreMethod, aggregate, leadTime, level)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pooled safety stock: %w", err)
	}
	comparison.PooledSafetyStock = pooled
	comparison.PooledHoldingCost = decimal.NewFromFloat(pooled).Mul(decimal.NewFromFloat(pooledH))
	comparison.HoldingCostSavings = comparison.IndependentHoldingCost.Sub(comparison.PooledHoldingCost)

	comparison.SquareRootLawSafetyStock, err = PooledSafetyStock(comparison.IndependentSafetyStock, leaves)
	if err != nil {
		return nil, err
	}

	comparison.RiskPoolingBenefit = comparison.IndependentSafetyStock - comparison.PooledSafetyStock
	if comparison.IndependentSafetyStock > 0 {
		comparison.BenefitPercent = comparison.RiskPoolingBenefit / comparison.IndependentSafetyStock * 100
	}

	return comparison, nil
}
