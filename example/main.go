package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/yay4john/Inventory-Optimization/pkg/application/services/cost"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/simulation"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
)

func main() {
	ctx := context.Background()

	// A single store selling ~100 units a day, restocked by a supplier with a 5 +/- 2 day lead time
	demand := entities.DemandProcess{Mean: 100, StdDev: 20}
	leadTime := entities.LeadTimeProcess{Mean: 5, StdDev: 2}
	costs := entities.CostParameters{HoldingCostPerUnit: 1, OrderCost: 50, StockOutCostPerUnit: 5}

	fmt.Println("📐 Computing policy for a 95% service level...")
	safetyStock, err := services.SafetyStock(demand.StdDev, leadTime.Mean, leadTime.StdDev, 95)
	if err != nil {
		fmt.Printf("❌ Safety stock failed: %v\n", err)
		return
	}
	reorderPoint := services.ReorderPoint(demand.Mean, leadTime.Mean, safetyStock)
	eoq, err := services.EconomicOrderQuantity(demand.Annual(), costs.OrderCost, costs.HoldingCostPerUnit)
	if err != nil {
		fmt.Printf("❌ EOQ failed: %v\n", err)
		return
	}
	fmt.Printf("  Safety Stock: %.2f\n", safetyStock)
	fmt.Printf("  Reorder Point: %.2f\n", reorderPoint)
	fmt.Printf("  EOQ: %.2f\n\n", eoq)

	policy, err := entities.NewReplenishmentPolicy(reorderPoint, eoq)
	if err != nil {
		fmt.Printf("❌ Policy failed: %v\n", err)
		return
	}

	fmt.Println("🎲 Simulating one year under the EOQ policy...")
	simulator := simulation.NewSimulator()
	result, err := simulator.Simulate(ctx, simulation.Scenario{
		Node:     "store",
		Demand:   demand,
		LeadTime: leadTime,
		Policy:   policy,
		Horizon:  365,
	}, rand.NewPCG(42, 42))
	if err != nil {
		fmt.Printf("❌ Simulation failed: %v\n", err)
		return
	}
	fmt.Printf("  Orders Placed: %d\n", result.OrderCount)
	fmt.Printf("  Average Inventory: %.2f\n", result.AverageInventory)
	fmt.Printf("  Units Short: %.2f\n\n", result.CumulativeStockOut)

	breakdown, err := cost.HoldingAndOrderingCost(cost.SimulationBased, cost.HoldingOrderingInputs{
		AverageInventory: result.AverageInventory,
		OrderCount:       result.OrderCount,
		Costs:            costs,
	})
	if err != nil {
		fmt.Printf("❌ Costing failed: %v\n", err)
		return
	}
	stockOut, err := cost.SimulatedStockOutCost(result.CumulativeStockOut, costs.StockOutCostPerUnit)
	if err != nil {
		fmt.Printf("❌ Costing failed: %v\n", err)
		return
	}
	breakdown = breakdown.WithStockOut(stockOut).Round(2)

	fmt.Println("💰 Costs:")
	fmt.Printf("  Holding: %s\n", breakdown.Holding)
	fmt.Printf("  Ordering: %s\n", breakdown.Ordering)
	fmt.Printf("  Stock-Out: %s\n", breakdown.StockOut)
	fmt.Printf("  Total: %s\n", breakdown.Total)
	if breakdown.Total.GreaterThan(decimal.Zero) {
		perUnit := breakdown.Total.Div(decimal.NewFromFloat(demand.Annual())).Round(4)
		fmt.Printf("  Per Unit Sold: %s\n", perUnit)
	}
}
