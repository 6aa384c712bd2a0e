package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/events"
)

// MaxHorizon bounds the number of simulated periods (ten years of days)
const MaxHorizon = 3650

// SimulatorConfig holds configuration for the single-node simulator
type SimulatorConfig struct {
	// Mode selects lost-sales (clamp) or backorder accounting
	Mode entities.InventoryMode
	// EventStore receives order, receipt and stock-out events when set
	EventStore events.EventStore
	Logger     *slog.Logger
}

// Simulator runs a continuous-review (reorder point, order quantity) policy day by day
type Simulator struct {
	config SimulatorConfig
	logger *slog.Logger
}

// NewSimulator creates a simulator using lost-sales accounting and no event store
func NewSimulator() *Simulator {
	return NewSimulatorWithConfig(SimulatorConfig{Mode: entities.ClampToZero})
}

// NewSimulatorWithConfig creates a simulator with custom configuration
func NewSimulatorWithConfig(config SimulatorConfig) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{config: config, logger: logger}
}

// Mode returns the inventory accounting mode
func (s *Simulator) Mode() entities.InventoryMode {
	return s.config.Mode
}

// Scenario is the input of one simulation run
type Scenario struct {
	// Node names the event stream; defaults to "node"
	Node     string
	Demand   entities.DemandProcess
	LeadTime entities.LeadTimeProcess
	Policy   entities.ReplenishmentPolicy
	Horizon  int
	// InitialInventory overrides the starting level when positive; otherwise the order quantity is used
	InitialInventory float64
}

// Validate checks every parameter before any period is simulated
func (sc Scenario) Validate() error {
	if err := sc.Demand.Validate(); err != nil {
		return err
	}
	if err := sc.LeadTime.Validate(); err != nil {
		return err
	}
	if err := sc.Policy.Validate(); err != nil {
		return err
	}
	if sc.Horizon < 1 || sc.Horizon > MaxHorizon {
		return fmt.Errorf("%w: horizon must be between 1 and %d, got %d", entities.ErrInvalidParameter, MaxHorizon, sc.Horizon)
	}
	if sc.InitialInventory < 0 || math.IsNaN(sc.InitialInventory) || math.IsInf(sc.InitialInventory, 0) {
		return fmt.Errorf("%w: initial inventory must be finite and non-negative, got %v", entities.ErrInvalidParameter, sc.InitialInventory)
	}
	return nil
}

// SimulationResult is the outcome of one run
type SimulationResult struct {
	Trajectory         []float64              `json:"trajectory"`
	OrderCount         int                    `json:"order_count"`
	CumulativeStockOut float64                `json:"cumulative_stock_out"`
	AverageInventory   float64                `json:"average_inventory"`
	Orders             []entities.OrderRecord `json:"orders"`
}

// Simulate runs the scenario for Horizon periods drawing every random number from src.
// The same src state reproduces the same result.
func (s *Simulator) Simulate(ctx context.Context, scenario Scenario, src rand.Source) (*SimulationResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: random source is required", entities.ErrInvalidParameter)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate simulation scenario: %w", err)
	}
	if scenario.Node == "" {
		scenario.Node = "node"
	}

	demand := distuv.Normal{Mu: scenario.Demand.Mean, Sigma: scenario.Demand.StdDev, Src: src}
	leadTime := distuv.Normal{Mu: scenario.LeadTime.Mean, Sigma: scenario.LeadTime.StdDev, Src: src}

	initial := scenario.Policy.OrderQuantity
	if scenario.InitialInventory > 0 {
		initial = scenario.InitialInventory
	}
	state := entities.NewSimulationState(initial)

	result := &SimulationResult{
		Trajectory: make([]float64, 0, scenario.Horizon),
		Orders:     make([]entities.OrderRecord, 0),
	}
	openOrder := -1
	total := 0.0

	for period := 0; period < scenario.Horizon; period++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation of %s cancelled at period %d: %w", scenario.Node, period, err)
		}

		// Step 1: demand, floored at zero
		dailyDemand := math.Max(0, demand.Rand())
		state.CurrentInventory -= dailyDemand

		// Step 2: progress the open order
		if state.OrderPending {
			state.LeadTimeRemaining--
			if state.LeadTimeRemaining <= 0 {
				state.CurrentInventory += scenario.Policy.OrderQuantity
				state.OrderPending = false
				result.Orders[openOrder].ReceivedPeriod = period
				openOrder = -1
				s.emit(events.NewReplenishmentReceivedEvent(events.ReplenishmentReceived{
					Node:           scenario.Node,
					Period:         period,
					Quantity:       scenario.Policy.OrderQuantity,
					InventoryAfter: state.CurrentInventory,
				}))
			}
		}

		// Step 3: reorder at or below the reorder point
		if !state.OrderPending && state.CurrentInventory <= scenario.Policy.ReorderPoint {
			realized := entities.RealizedPeriods(leadTime.Rand())
			state.OrderPending = true
			state.OrderCount++
			state.LeadTimeRemaining = realized
			result.Orders = append(result.Orders, entities.OrderRecord{
				PlacedPeriod:   period,
				LeadTime:       realized,
				ReceivedPeriod: -1,
			})
			openOrder = len(result.Orders) - 1
			s.emit(events.NewOrderPlacedEvent(events.OrderPlaced{
				Node:          scenario.Node,
				Period:        period,
				Inventory:     state.CurrentInventory,
				ReorderPoint:  scenario.Policy.ReorderPoint,
				OrderQuantity: scenario.Policy.OrderQuantity,
				LeadTime:      realized,
			}))
		}

		// Step 4: stock-out accounting
		if shortfall := s.account(state, dailyDemand); shortfall > 0 {
			s.emit(events.NewStockOutRecordedEvent(events.StockOutRecorded{
				Node:      scenario.Node,
				Period:    period,
				Shortfall: shortfall,
				Mode:      s.config.Mode.String(),
			}))
		}

		// Step 5: record
		result.Trajectory = append(result.Trajectory, state.CurrentInventory)
		total += state.CurrentInventory
	}

	result.OrderCount = state.OrderCount
	result.CumulativeStockOut = state.CumulativeStockOut
	result.AverageInventory = total / float64(scenario.Horizon)

	s.logger.Debug("simulation finished",
		slog.String("node", scenario.Node),
		slog.Int("horizon", scenario.Horizon),
		slog.Int("orders", result.OrderCount),
		slog.Float64("stock_out", result.CumulativeStockOut),
		slog.Float64("average_inventory", result.AverageInventory))

	return result, nil
}

// account applies the stock-out rule of the configured mode and returns the units added this period
func (s *Simulator) account(state *entities.SimulationState, dailyDemand float64) float64 {
	if state.CurrentInventory >= 0 {
		return 0
	}
	var shortfall float64
	switch s.config.Mode {
	case entities.Backorder:
		// Only the part of today's demand that on-hand stock could not cover is new
		shortfall = math.Min(dailyDemand, -state.CurrentInventory)
	default:
		shortfall = -state.CurrentInventory
		state.CurrentInventory = 0
	}
	state.CumulativeStockOut += shortfall
	return shortfall
}

func (s *Simulator) emit(event events.Event) {
	if s.config.EventStore == nil {
		return
	}
	if err := s.config.EventStore.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Warn("failed to record simulation event",
			slog.String("event_type", event.Type()),
			slog.Any("error", err))
	}
}
