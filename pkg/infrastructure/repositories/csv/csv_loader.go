package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/config"
)

// File names read by LoadNetwork
const (
	NodesFile = "nodes.csv"
	EdgesFile = "edges.csv"
)

var (
	nodesHeader = []string{"name", "tier", "demand_mean", "demand_std", "service_level",
		"holding_cost_per_unit", "stock_out_cost_per_unit", "order_quantity", "initial_inventory"}
	edgesHeader = []string{"upstream", "downstream", "order_cost", "lead_time_mean", "lead_time_std", "unit_cost"}
)

// Loader handles loading network records from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadNetwork reads nodes.csv and edges.csv from dir
func (l *Loader) LoadNetwork(dir string) ([]config.NodeConfig, []config.EdgeConfig, error) {
	nodes, err := l.LoadNodes(filepath.Join(dir, NodesFile))
	if err != nil {
		return nil, nil, err
	}
	edges, err := l.LoadEdges(filepath.Join(dir, EdgesFile))
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

// LoadNodes loads node records from a CSV file. Empty numeric cells read as zero.
func (l *Loader) LoadNodes(filename string) ([]config.NodeConfig, error) {
	records, err := readRecords(filename, "nodes", nodesHeader)
	if err != nil {
		return nil, err
	}

	nodes := make([]config.NodeConfig, 0, len(records))
	for i, record := range records {
		node, err := parseNode(record)
		if err != nil {
			return nil, fmt.Errorf("nodes CSV row %d: %w", i+2, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LoadEdges loads edge records from a CSV file
func (l *Loader) LoadEdges(filename string) ([]config.EdgeConfig, error) {
	records, err := readRecords(filename, "edges", edgesHeader)
	if err != nil {
		return nil, err
	}

	edges := make([]config.EdgeConfig, 0, len(records))
	for i, record := range records {
		edge, err := parseEdge(record)
		if err != nil {
			return nil, fmt.Errorf("edges CSV row %d: %w", i+2, err)
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// readRecords returns the data rows after checking the header and column counts
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseNode(record []string) (config.NodeConfig, error) {
	node := config.NodeConfig{
		Name: strings.TrimSpace(record[0]),
		Tier: strings.TrimSpace(record[1]),
	}
	if node.Name == "" {
		return config.NodeConfig{}, fmt.Errorf("name cannot be empty")
	}

	fields := []*float64{
		&node.DemandMean,
		&node.DemandStd,
		&node.ServiceLevel,
		&node.HoldingCostPerUnit,
		&node.StockOutCostPerUnit,
		&node.OrderQuantity,
		&node.InitialInventory,
	}
	for i, field := range fields {
		col := i + 2
		v, err := parseFloat(record[col])
		if err != nil {
			return config.NodeConfig{}, fmt.Errorf("invalid %s: %s", nodesHeader[col], record[col])
		}
		*field = v
	}
	return node, nil
}

func parseEdge(record []string) (config.EdgeConfig, error) {
	edge := config.EdgeConfig{
		Upstream:   strings.TrimSpace(record[0]),
		Downstream: strings.TrimSpace(record[1]),
	}

	fields := []*float64{&edge.OrderCost, &edge.LeadTimeMean, &edge.LeadTimeStd, &edge.UnitCost}
	for i, field := range fields {
		col := i + 2
		v, err := parseFloat(record[col])
		if err != nil {
			return config.EdgeConfig{}, fmt.Errorf("invalid %s: %s", edgesHeader[col], record[col])
		}
		*field = v
	}
	return edge, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
