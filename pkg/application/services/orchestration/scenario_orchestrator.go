package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/yay4john/Inventory-Optimization/pkg/application/dto"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/allocation"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/cost"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/echelon"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/simulation"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/config"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/events"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/logging"
)

// singleNodeStream names the event stream of the single-location simulation
const singleNodeStream = "single-node"

// OrchestratorConfig holds configuration for the scenario orchestrator
type OrchestratorConfig struct {
	Logger *slog.Logger
	// MaxConcurrency limits parallel leaf simulations in network mode (0 = unlimited)
	MaxConcurrency int
	// Now and NewRunID default to time.Now and uuid.NewString
	Now      func() time.Time
	NewRunID func() string
}

// ScenarioOrchestrator turns a scenario config into a scenario result
type ScenarioOrchestrator struct {
	config OrchestratorConfig
	logger *slog.Logger
}

// NewScenarioOrchestrator creates an orchestrator using the global logger
func NewScenarioOrchestrator() *ScenarioOrchestrator {
	return NewScenarioOrchestratorWithConfig(OrchestratorConfig{})
}

// NewScenarioOrchestratorWithConfig creates an orchestrator with custom configuration
func NewScenarioOrchestratorWithConfig(cfg OrchestratorConfig) *ScenarioOrchestrator {
	if cfg.Logger == nil {
		cfg.Logger = logging.Get()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = uuid.NewString
	}
	return &ScenarioOrchestrator{config: cfg, logger: cfg.Logger}
}

// strategies are the parsed strategy names of a config
type strategies struct {
	safetyStock   services.SafetyStockMethod
	zScore        services.ZScoreMethod
	costMode      cost.CostMode
	stockOut      cost.StockOutMethod
	inventoryMode entities.InventoryMode
}

func parseStrategies(cfg *config.Config) (strategies, error) {
	var (
		s   strategies
		err error
	)
	if s.safetyStock, err = services.ParseSafetyStockMethod(cfg.SafetyStockMethod); err != nil {
		return s, err
	}
	if s.zScore, err = services.ParseZScoreMethod(cfg.ZScoreMethod); err != nil {
		return s, err
	}
	if s.costMode, err = cost.ParseCostMode(cfg.CostMode); err != nil {
		return s, err
	}
	if s.stockOut, err = cost.ParseStockOutMethod(cfg.StockOutMethod); err != nil {
		return s, err
	}
	if s.inventoryMode, err = entities.ParseInventoryMode(cfg.InventoryMode); err != nil {
		return s, err
	}
	return s, nil
}

// RunScenario validates cfg, computes the formula outputs, runs the simulations and prices the result.
// A zero cfg.Seed draws a fresh seed, which is reported in the result so the run can be repeated.
func (o *ScenarioOrchestrator) RunScenario(ctx context.Context, cfg *config.Config) (*dto.ScenarioResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: scenario config is required", entities.ErrInvalidParameter)
	}

	// Step 1: validate everything before computing anything
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate scenario: %w", err)
	}
	strat, err := parseStrategies(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to validate scenario: %w", err)
	}

	runID := o.config.NewRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	streams := rand.New(rand.NewPCG(seed, seed))
	nextSource := func() rand.Source {
		return rand.NewPCG(streams.Uint64(), streams.Uint64())
	}

	logger.Info("scenario started",
		slog.Uint64("seed", seed),
		slog.Int("days", cfg.SimulationDays),
		slog.Int("nodes", len(cfg.Nodes)),
		slog.Int("edges", len(cfg.Edges)))
	defer logging.LogDuration(ctx, o.logger, "scenario finished")()

	result := &dto.ScenarioResult{
		RunID:       runID,
		Seed:        seed,
		GeneratedAt: o.config.Now(),
		Days:        cfg.SimulationDays,
		Strategies: dto.Strategies{
			SafetyStockMethod: strat.safetyStock.String(),
			ZScoreMethod:      strat.zScore.String(),
			CostMode:          strat.costMode.String(),
			StockOutMethod:    strat.stockOut.String(),
			InventoryMode:     strat.inventoryMode.String(),
		},
	}

	// Step 2: closed-form quantities
	demand, leadTime, costs := cfg.Demand(), cfg.LeadTime(), cfg.Costs()
	level := entities.ServiceLevel(cfg.ServiceLevel)

	result.SafetyStock, err = services.SafetyStockWith(strat.safetyStock, strat.zScore, demand, leadTime, level)
	if err != nil {
		return nil, fmt.Errorf("failed to compute safety stock: %w", err)
	}
	result.ReorderPoint = services.ReorderPoint(demand.Mean, leadTime.Mean, result.SafetyStock)
	result.EOQ, err = services.EconomicOrderQuantity(demand.Annual(), costs.OrderCost, costs.HoldingCostPerUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute EOQ: %w", err)
	}
	result.MultiEchelonSafetyStock, err = services.PooledSafetyStock(result.SafetyStock, cfg.NumEchelons)
	if err != nil {
		return nil, fmt.Errorf("failed to compute multi-echelon safety stock: %w", err)
	}
	result.InventoryComposition = dto.InventoryComposition{
		CycleStock:  cfg.OrderQuantity / 2,
		SafetyStock: result.SafetyStock,
	}

	// Step 3: single-location simulation
	store := events.NewInMemoryEventStoreWithLogger(o.logger)
	tally := newEventTally()
	settle, err := tally.attach(store)
	if err != nil {
		return nil, err
	}
	defer settle()
	simulator := simulation.NewSimulatorWithConfig(simulation.SimulatorConfig{
		Mode:       strat.inventoryMode,
		EventStore: store,
		Logger:     logger,
	})
	policy, err := entities.NewReplenishmentPolicy(result.ReorderPoint, cfg.OrderQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to build replenishment policy: %w", err)
	}
	run, err := simulator.Simulate(ctx, simulation.Scenario{
		Node:             singleNodeStream,
		Demand:           demand,
		LeadTime:         leadTime,
		Policy:           policy,
		Horizon:          cfg.SimulationDays,
		InitialInventory: cfg.InitialInventory,
	}, nextSource())
	if err != nil {
		return nil, fmt.Errorf("failed to run simulation: %w", err)
	}
	result.InventoryTrajectory = run.Trajectory
	result.AverageInventory = run.AverageInventory
	result.OrderCount = run.OrderCount
	result.CumulativeStockOut = run.CumulativeStockOut

	// Step 4: costs
	if err := o.priceScenario(cfg, strat, run, result); err != nil {
		return nil, err
	}

	// Step 5: network mode
	if cfg.HasNetwork() {
		networkSource, forecastSource := nextSource(), nextSource()
		network, err := o.runNetwork(ctx, cfg, strat, simulator, networkSource, forecastSource, logger)
		if err != nil {
			return nil, err
		}
		result.Network = network
	}

	// Step 6: fold the event streams into the result
	settle()
	result.EventCounts = tally.counts()
	if result.Network != nil {
		result.Network.Activity = tally.activity(result.Network.NodeOrder)
	}

	return result, nil
}

func (o *ScenarioOrchestrator) priceScenario(
	cfg *config.Config,
	strat strategies,
	run *simulation.SimulationResult,
	result *dto.ScenarioResult,
) error {
	costs := cfg.Costs()

	breakdown, err := cost.HoldingAndOrderingCost(strat.costMode, cost.HoldingOrderingInputs{
		SafetyStock:      result.SafetyStock,
		AverageInventory: run.AverageInventory,
		DemandMean:       cfg.DemandMean,
		OrderQuantity:    cfg.OrderQuantity,
		OrderCount:       run.OrderCount,
		Costs:            costs,
	})
	if err != nil {
		return fmt.Errorf("failed to compute holding and ordering cost: %w", err)
	}
	stockOut, err := cost.StockOutCost(strat.stockOut, cost.StockOutInputs{
		DemandMean:         cfg.DemandMean,
		SafetyStock:        result.SafetyStock,
		CumulativeStockOut: run.CumulativeStockOut,
		ServiceLevel:       entities.ServiceLevel(cfg.ServiceLevel),
		CostPerUnit:        costs.StockOutCostPerUnit,
	})
	if err != nil {
		return fmt.Errorf("failed to compute stock-out cost: %w", err)
	}
	breakdown = breakdown.WithStockOut(stockOut)
	result.HoldingCost = breakdown.Holding
	result.OrderingCost = breakdown.Ordering
	result.StockOutCost = breakdown.StockOut
	result.TotalCost = breakdown.Total

	simulated, err := cost.HoldingAndOrderingCost(cost.SimulationBased, cost.HoldingOrderingInputs{
		AverageInventory: run.AverageInventory,
		OrderCount:       run.OrderCount,
		Costs:            costs,
	})
	if err != nil {
		return fmt.Errorf("failed to compute simulated cost: %w", err)
	}
	simulatedStockOut, err := cost.SimulatedStockOutCost(run.CumulativeStockOut, costs.StockOutCostPerUnit)
	if err != nil {
		return fmt.Errorf("failed to compute simulated stock-out cost: %w", err)
	}
	result.AnnualizedCost, err = cost.Annualize(simulated.WithStockOut(simulatedStockOut), cfg.SimulationDays)
	if err != nil {
		return fmt.Errorf("failed to annualize cost: %w", err)
	}

	annualDemand := cfg.Demand().Annual()
	result.PolicyCost, err = cost.AnnualPolicyCost(annualDemand, cfg.OrderQuantity, result.SafetyStock, costs)
	if err != nil {
		return fmt.Errorf("failed to price configured policy: %w", err)
	}
	result.EOQCost = result.PolicyCost
	if result.EOQ > 0 {
		result.EOQCost, err = cost.AnnualPolicyCost(annualDemand, result.EOQ, result.SafetyStock, costs)
		if err != nil {
			return fmt.Errorf("failed to price EOQ policy: %w", err)
		}
	}
	result.Savings = cost.CompareCosts(result.PolicyCost, result.EOQCost)
	return nil
}

func (o *ScenarioOrchestrator) runNetwork(
	ctx context.Context,
	cfg *config.Config,
	strat strategies,
	simulator *simulation.Simulator,
	networkSource rand.Source,
	forecastSource rand.Source,
	logger *slog.Logger,
) (*dto.NetworkResult, error) {
	graph, err := cfg.BuildNetwork()
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	aggregator := echelon.NewAggregatorWithConfig(echelon.AggregatorConfig{
		SafetyStockMethod: strat.safetyStock,
		ZScoreMethod:      strat.zScore,
		Simulator:         simulator,
		MaxConcurrency:    o.config.MaxConcurrency,
		Logger:            logger,
	})

	simulated, err := aggregator.RunNetworkSimulation(ctx, graph, cfg.SimulationDays, networkSource)
	if err != nil {
		return nil, fmt.Errorf("failed to run network simulation: %w", err)
	}
	pooling, err := aggregator.ComparePooling(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to compare pooling: %w", err)
	}

	network := &dto.NetworkResult{
		NodeOrder:           simulated.NodeOrder,
		PerNodeTrajectories: make(map[string][]float64, len(simulated.PerNode)),
		Policies:            simulated.Policies,
		TotalTrajectory:     simulated.TotalTrajectory,
		NodeCosts:           simulated.NodeCosts,
		TotalCost:           simulated.TotalCost,
		Pooling:             pooling,
	}
	for name, run := range simulated.PerNode {
		network.PerNodeTrajectories[name] = run.Trajectory
	}

	network.Forecast, err = allocation.RetailerForecasts(graph, allocation.TrendParams{
		Base:     cfg.Forecast.Base,
		Slope:    cfg.Forecast.Slope,
		NoiseStd: cfg.Forecast.NoiseStd,
	}, cfg.SimulationDays, forecastSource)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast retailer demand: %w", err)
	}

	allocator := allocation.NewAllocatorWithConfig(allocation.AllocatorConfig{Logger: logger})
	network.Allocation, err = allocator.Allocate(graph, network.Forecast)
	switch {
	case errors.Is(err, entities.ErrInfeasibleAllocation):
		network.AllocationError = err.Error()
	case err != nil:
		return nil, fmt.Errorf("failed to allocate network inventory: %w", err)
	}

	return network, nil
}
