package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yay4john/Inventory-Optimization/pkg/application/dto"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/allocation"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/cost"
	"github.com/yay4john/Inventory-Optimization/pkg/application/services/echelon"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
)

func sampleResult() *dto.ScenarioResult {
	return &dto.ScenarioResult{
		RunID:               "run-1",
		Seed:                42,
		Days:                3,
		SafetyStock:         98.7,
		ReorderPoint:        598.7,
		EOQ:                 1910.5,
		InventoryTrajectory: []float64{400, 300, 700},
		AverageInventory:    466.6,
		OrderCount:          1,
		HoldingCost:         decimal.NewFromInt(1400),
		OrderingCost:        decimal.NewFromInt(50),
		StockOutCost:        decimal.Zero,
		TotalCost:           decimal.NewFromInt(1450),
	}
}

func withNetwork(result *dto.ScenarioResult) *dto.ScenarioResult {
	result.Network = &dto.NetworkResult{
		NodeOrder: []string{"store-a", "store-b"},
		PerNodeTrajectories: map[string][]float64{
			"store-a": {10, 20, 30},
			"store-b": {1, 2, 3},
		},
		Policies:        map[string]services.LeafPolicy{},
		TotalTrajectory: []float64{11, 22, 33},
		NodeCosts: map[string]cost.CostBreakdown{
			"store-a": cost.NewCostBreakdown(decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromInt(5)),
			"store-b": cost.NewCostBreakdown(decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero),
		},
		TotalCost: cost.NewCostBreakdown(decimal.NewFromInt(22), decimal.NewFromInt(150), decimal.NewFromInt(5)),
		Activity: map[string]dto.NodeActivity{
			"store-a": {Orders: 1, StockOutPeriods: 3, UnitsShort: 1},
			"store-b": {Orders: 2},
		},
		Pooling: &echelon.PoolingComparison{
			IndependentSafetyStock: 50,
			PooledSafetyStock:      36,
			IndependentHoldingCost: decimal.NewFromInt(50),
			PooledHoldingCost:      decimal.NewFromInt(36),
			HoldingCostSavings:     decimal.NewFromInt(14),
		},
		Forecast:        map[string]float64{"store-a": 60, "store-b": 40},
		Allocation: &allocation.Allocation{
			Inventory: map[string]float64{"dc": 100, "store-a": 60, "store-b": 40},
			Feasible:  true,
		},
	}
	return result
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerate_Text(t *testing.T) {
	var stdout bytes.Buffer
	dir := t.TempDir()

	err := Generate(withNetwork(sampleResult()), Config{Format: "text", OutputDir: dir, Stdout: &stdout})
	require.NoError(t, err)

	text := stdout.String()
	assert.Contains(t, text, "Run ID: run-1")
	assert.Contains(t, text, "598.70")
	assert.Contains(t, text, "1450.00")
	assert.Contains(t, text, "store-b")
	assert.Contains(t, text, "(forecast -)")
	assert.Contains(t, text, "75.00", "store-a priced from its node costs")
	assert.Contains(t, text, "177.00", "network total cost")
	assert.Regexp(t, `Holding Cost Savings:\s+14\.00`, text)

	saved, err := os.ReadFile(filepath.Join(dir, TextFile))
	require.NoError(t, err)
	assert.Equal(t, text, string(saved))
}

func TestGenerate_JSONToStdout(t *testing.T) {
	var stdout bytes.Buffer

	require.NoError(t, Generate(sampleResult(), Config{Format: "json", Stdout: &stdout}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "1450", decoded["total_cost"])
	assert.NotContains(t, decoded, "network")
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Generate(withNetwork(sampleResult()), Config{Format: "csv", OutputDir: dir}))

	trajectory := readCSV(t, filepath.Join(dir, TrajectoryCSV))
	assert.Equal(t, [][]string{{"period", "inventory"}, {"1", "400"}, {"2", "300"}, {"3", "700"}}, trajectory)

	network := readCSV(t, filepath.Join(dir, NetworkTrajectoryCSV))
	require.Len(t, network, 4)
	assert.Equal(t, []string{"period", "store-a", "store-b", "total"}, network[0])
	assert.Equal(t, []string{"3", "30", "3", "33"}, network[3])

	alloc := readCSV(t, filepath.Join(dir, NetworkAllocationCSV))
	assert.Equal(t, []string{"dc", "100", "-", "true"}, alloc[1])

	summary := readCSV(t, filepath.Join(dir, SummaryCSV))
	assert.Contains(t, summary, []string{"total_cost", "1450"})
	assert.Contains(t, summary, []string{"network_total_cost", "177"})
	assert.Contains(t, summary, []string{"pooling_holding_cost_savings", "14"})
}

func TestGenerate_Errors(t *testing.T) {
	err := Generate(sampleResult(), Config{Format: "csv"})
	assert.ErrorContains(t, err, "output directory required")

	err = Generate(sampleResult(), Config{Format: "xml"})
	assert.True(t, strings.Contains(err.Error(), "unsupported output format"))

	assert.Error(t, Generate(nil, Config{Format: "text"}))
}
