package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yay4john/Inventory-Optimization/pkg/application/dto"
)

// Output file names written under Config.OutputDir
const (
	TextFile              = "scenario_results.txt"
	JSONFile              = "scenario_results.json"
	SummaryCSV            = "summary.csv"
	TrajectoryCSV         = "trajectory.csv"
	NetworkTrajectoryCSV  = "network_trajectory.csv"
	NetworkAllocationCSV  = "network_allocation.csv"
	defaultDirPermissions = 0755
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
	// Stdout receives text output and progress lines (default os.Stdout)
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Generate creates output in the specified format
func Generate(result *dto.ScenarioResult, config Config) error {
	if result == nil {
		return fmt.Errorf("no scenario result to write")
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints a human-readable summary and saves a copy when an output directory is set
func generateTextOutput(result *dto.ScenarioResult, config Config) error {
	text := FormatText(result, config.Elapsed)
	fmt.Fprint(config.stdout(), text)

	if config.OutputDir == "" {
		return nil
	}
	filename, err := writeFile(config.OutputDir, TextFile, []byte(text))
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Results saved to: %s\n", filename)
	}
	return nil
}

// FormatText renders the scenario summary
func FormatText(result *dto.ScenarioResult, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════\n")
	b.WriteString("                 INVENTORY OPTIMIZATION RESULTS\n")
	b.WriteString("═══════════════════════════════════════════════════════════════\n\n")

	fmt.Fprintf(&b, "📊 SUMMARY\n")
	fmt.Fprintf(&b, "  Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "  Seed: %d\n", result.Seed)
	fmt.Fprintf(&b, "  Days: %d\n", result.Days)
	if elapsed > 0 {
		fmt.Fprintf(&b, "  Run Time: %v\n", elapsed)
	}
	fmt.Fprintf(&b, "  Strategies: safety stock=%s, z=%s, cost=%s, stock-out=%s, inventory=%s\n\n",
		result.Strategies.SafetyStockMethod,
		result.Strategies.ZScoreMethod,
		result.Strategies.CostMode,
		result.Strategies.StockOutMethod,
		result.Strategies.InventoryMode)

	b.WriteString("📐 POLICY\n")
	b.WriteString("────────────────────────────────────────────────────────────────\n")
	fmt.Fprintf(&b, "  Safety Stock:               %12.2f\n", result.SafetyStock)
	fmt.Fprintf(&b, "  Reorder Point:              %12.2f\n", result.ReorderPoint)
	fmt.Fprintf(&b, "  Economic Order Quantity:    %12.2f\n", result.EOQ)
	fmt.Fprintf(&b, "  Multi-Echelon Safety Stock: %12.2f\n", result.MultiEchelonSafetyStock)
	fmt.Fprintf(&b, "  Cycle Stock (Q/2):          %12.2f\n\n", result.InventoryComposition.CycleStock)

	b.WriteString("📈 SIMULATION\n")
	b.WriteString("────────────────────────────────────────────────────────────────\n")
	fmt.Fprintf(&b, "  Average Inventory:          %12.2f\n", result.AverageInventory)
	fmt.Fprintf(&b, "  Orders Placed:              %12d\n", result.OrderCount)
	fmt.Fprintf(&b, "  Cumulative Stock-Out:       %12.2f\n\n", result.CumulativeStockOut)

	b.WriteString("💰 COSTS\n")
	b.WriteString("────────────────────────────────────────────────────────────────\n")
	fmt.Fprintf(&b, "  Holding:                    %12s\n", result.HoldingCost.StringFixed(2))
	fmt.Fprintf(&b, "  Ordering:                   %12s\n", result.OrderingCost.StringFixed(2))
	fmt.Fprintf(&b, "  Stock-Out:                  %12s\n", result.StockOutCost.StringFixed(2))
	fmt.Fprintf(&b, "  Total:                      %12s\n", result.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "  Annualized Total:           %12s\n", result.AnnualizedCost.Total.StringFixed(2))
	fmt.Fprintf(&b, "  Annual Cost at Q:           %12s\n", result.PolicyCost.Total.StringFixed(2))
	fmt.Fprintf(&b, "  Annual Cost at EOQ:         %12s\n", result.EOQCost.Total.StringFixed(2))
	fmt.Fprintf(&b, "  Savings from EOQ:           %12s (%.1f%%)\n\n",
		result.Savings.Savings.StringFixed(2), result.Savings.SavingsPercent)

	if network := result.Network; network != nil {
		b.WriteString("🏭 NETWORK\n")
		b.WriteString("────────────────────────────────────────────────────────────────\n")
		fmt.Fprintf(&b, "%-16s %12s %12s %12s %12s %10s %12s\n",
			"Node", "Safety Stk", "Reorder Pt", "Order Qty", "Avg Inv", "Short Days", "Cost")
		for _, name := range network.NodeOrder {
			policy := network.Policies[name]
			fmt.Fprintf(&b, "%-16s %12.2f %12.2f %12.2f %12.2f %10d %12s\n",
				name,
				policy.SafetyStock,
				policy.Policy.ReorderPoint,
				policy.Policy.OrderQuantity,
				mean(network.PerNodeTrajectories[name]),
				network.Activity[name].StockOutPeriods,
				network.NodeCosts[name].Total.StringFixed(2))
		}
		fmt.Fprintf(&b, "%-16s %12s %12s %12s %12.2f %10s %12s\n\n",
			"TOTAL", "", "", "", mean(network.TotalTrajectory), "", network.TotalCost.Total.StringFixed(2))

		if pooling := network.Pooling; pooling != nil {
			fmt.Fprintf(&b, "  Independent Safety Stock:   %12.2f (holding %s)\n",
				pooling.IndependentSafetyStock, pooling.IndependentHoldingCost.StringFixed(2))
			fmt.Fprintf(&b, "  Pooled Safety Stock:        %12.2f (holding %s)\n",
				pooling.PooledSafetyStock, pooling.PooledHoldingCost.StringFixed(2))
			fmt.Fprintf(&b, "  Square-Root Law:            %12.2f\n", pooling.SquareRootLawSafetyStock)
			fmt.Fprintf(&b, "  Risk Pooling Benefit:       %12.2f (%.1f%%)\n", pooling.RiskPoolingBenefit, pooling.BenefitPercent)
			fmt.Fprintf(&b, "  Holding Cost Savings:       %12s\n\n", pooling.HoldingCostSavings.StringFixed(2))
		}

		if alloc := network.Allocation; alloc != nil {
			b.WriteString("📦 ALLOCATION\n")
			if network.AllocationError != "" {
				fmt.Fprintf(&b, "  ⚠️  %s\n", network.AllocationError)
			}
			for _, name := range sortedKeys(alloc.Inventory) {
				fmt.Fprintf(&b, "  %-16s %12.2f  (forecast %s)\n", name, alloc.Inventory[name], forecastLabel(network.Forecast, name))
			}
			fmt.Fprintf(&b, "  Transport Cost:             %12.2f\n\n", alloc.TransportCost)
		}
	}

	return b.String()
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.ScenarioResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.stdout(), string(jsonData))
		return nil
	}

	filename, err := writeFile(config.OutputDir, JSONFile, jsonData)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes the summary and trajectories as CSV files
func generateCSVOutput(result *dto.ScenarioResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, defaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, 4)

	summaryFile := filepath.Join(config.OutputDir, SummaryCSV)
	if err := writeCSV(summaryFile, summaryRows(result)); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}
	written = append(written, summaryFile)

	trajectoryFile := filepath.Join(config.OutputDir, TrajectoryCSV)
	if err := writeCSV(trajectoryFile, trajectoryRows(result.InventoryTrajectory)); err != nil {
		return fmt.Errorf("failed to write trajectory CSV: %w", err)
	}
	written = append(written, trajectoryFile)

	if result.Network != nil {
		networkFile := filepath.Join(config.OutputDir, NetworkTrajectoryCSV)
		if err := writeCSV(networkFile, networkTrajectoryRows(result.Network)); err != nil {
			return fmt.Errorf("failed to write network trajectory CSV: %w", err)
		}
		written = append(written, networkFile)

		if result.Network.Allocation != nil {
			allocationFile := filepath.Join(config.OutputDir, NetworkAllocationCSV)
			if err := writeCSV(allocationFile, allocationRows(result.Network)); err != nil {
				return fmt.Errorf("failed to write allocation CSV: %w", err)
			}
			written = append(written, allocationFile)
		}
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 CSV results saved to:\n")
		for _, name := range written {
			fmt.Fprintf(config.stdout(), "  %s\n", name)
		}
	}
	return nil
}

func summaryRows(result *dto.ScenarioResult) [][]string {
	rows := [][]string{
		{"metric", "value"},
		{"run_id", result.RunID},
		{"seed", strconv.FormatUint(result.Seed, 10)},
		{"days", strconv.Itoa(result.Days)},
		{"safety_stock", formatFloat(result.SafetyStock)},
		{"reorder_point", formatFloat(result.ReorderPoint)},
		{"eoq", formatFloat(result.EOQ)},
		{"multi_echelon_safety_stock", formatFloat(result.MultiEchelonSafetyStock)},
		{"average_inventory", formatFloat(result.AverageInventory)},
		{"order_count", strconv.Itoa(result.OrderCount)},
		{"cumulative_stock_out", formatFloat(result.CumulativeStockOut)},
		{"holding_cost", result.HoldingCost.String()},
		{"ordering_cost", result.OrderingCost.String()},
		{"stock_out_cost", result.StockOutCost.String()},
		{"total_cost", result.TotalCost.String()},
		{"annualized_total_cost", result.AnnualizedCost.Total.String()},
		{"eoq_savings", result.Savings.Savings.String()},
	}
	if network := result.Network; network != nil {
		rows = append(rows, []string{"network_total_cost", network.TotalCost.Total.String()})
		if network.Pooling != nil {
			rows = append(rows, []string{"pooling_holding_cost_savings", network.Pooling.HoldingCostSavings.String()})
		}
	}
	return rows
}

func trajectoryRows(trajectory []float64) [][]string {
	rows := make([][]string, 0, len(trajectory)+1)
	rows = append(rows, []string{"period", "inventory"})
	for i, level := range trajectory {
		rows = append(rows, []string{strconv.Itoa(i + 1), formatFloat(level)})
	}
	return rows
}

func networkTrajectoryRows(network *dto.NetworkResult) [][]string {
	header := append([]string{"period"}, network.NodeOrder...)
	header = append(header, "total")

	rows := make([][]string, 0, len(network.TotalTrajectory)+1)
	rows = append(rows, header)
	for i, total := range network.TotalTrajectory {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i+1))
		for _, name := range network.NodeOrder {
			row = append(row, formatFloat(network.PerNodeTrajectories[name][i]))
		}
		row = append(row, formatFloat(total))
		rows = append(rows, row)
	}
	return rows
}

func allocationRows(network *dto.NetworkResult) [][]string {
	rows := [][]string{{"node", "inventory", "forecast", "feasible"}}
	for _, name := range sortedKeys(network.Allocation.Inventory) {
		rows = append(rows, []string{
			name,
			formatFloat(network.Allocation.Inventory[name]),
			forecastLabel(network.Forecast, name),
			strconv.FormatBool(network.Allocation.Feasible),
		})
	}
	return rows
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, defaultDirPermissions); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filename, nil
}
