package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yay4john/Inventory-Optimization/pkg/application/services/orchestration"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/config"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/logging"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/repositories/csv"
	"github.com/yay4john/Inventory-Optimization/pkg/interfaces/cli/output"
)

// Config holds configuration for the simulate command
type Config struct {
	ConfigFile string
	// Seed and Days override the config file when non-zero
	Seed      uint64
	Days      int
	Format    string
	OutputDir string
	// NetworkDir holds nodes.csv and edges.csv replacing the config's network
	NetworkDir string
	// Network enables the multi-echelon analysis when the config defines nodes
	Network bool
	Verbose bool
	Help    bool
	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

// SimulateCommand loads a scenario, runs it and writes the result
type SimulateCommand struct {
	config Config
	out    io.Writer
}

// NewSimulateCommand creates a new simulate command with the given configuration
func NewSimulateCommand(cfg Config) *SimulateCommand {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &SimulateCommand{config: cfg, out: out}
}

// Execute runs the simulate command
func (c *SimulateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	scenario, err := c.loadScenario()
	if err != nil {
		return err
	}

	logCfg := scenario.Logger
	if c.config.Verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(scenario)
	}

	orchestrator := orchestration.NewScenarioOrchestrator()

	startTime := time.Now()
	result, err := orchestrator.RunScenario(ctx, scenario)
	elapsed := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Scenario completed in %v\n\n", elapsed)
	}

	err = output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   elapsed,
		Stdout:    c.out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *SimulateCommand) validateInputs() error {
	switch c.config.Format {
	case "text", "json":
	case "csv":
		if c.config.OutputDir == "" {
			return fmt.Errorf("-output directory is required for csv format")
		}
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	if c.config.Days < 0 || c.config.Days > config.MaxSimulationDays {
		return fmt.Errorf("-days must be between 1 and %d", config.MaxSimulationDays)
	}
	return nil
}

// loadScenario reads the config file (or the defaults), applies flag overrides
// and validates the result once
func (c *SimulateCommand) loadScenario() (*config.Config, error) {
	var (
		scenario *config.Config
		err      error
	)
	if c.config.ConfigFile != "" {
		scenario, err = config.Read(c.config.ConfigFile)
	} else {
		scenario, err = config.ReadWithDefaults("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.config.Seed != 0 {
		scenario.Seed = c.config.Seed
	}
	if c.config.Days != 0 {
		scenario.SimulationDays = c.config.Days
	}
	if c.config.NetworkDir != "" {
		scenario.Nodes, scenario.Edges, err = csv.NewLoader().LoadNetwork(c.config.NetworkDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load network: %w", err)
		}
	}
	if !c.config.Network {
		scenario.Nodes = nil
		scenario.Edges = nil
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: config validation failed: %w", err)
	}
	return scenario, nil
}

// printHeader prints the command header information
func (c *SimulateCommand) printHeader(scenario *config.Config) {
	fmt.Fprintf(c.out, "🚀 Inventory Optimization CLI\n")
	if c.config.ConfigFile != "" {
		fmt.Fprintf(c.out, "Config file: %s\n", c.config.ConfigFile)
	} else {
		fmt.Fprintf(c.out, "Config file: (defaults)\n")
	}
	fmt.Fprintf(c.out, "Demand: mean %.2f, std %.2f\n", scenario.DemandMean, scenario.DemandStd)
	fmt.Fprintf(c.out, "Lead time: mean %.2f, std %.2f\n", scenario.LeadTimeMean, scenario.LeadTimeStd)
	fmt.Fprintf(c.out, "Service level: %.2f%%\n", scenario.ServiceLevel)
	fmt.Fprintf(c.out, "Days: %d\n", scenario.SimulationDays)
	if scenario.HasNetwork() {
		fmt.Fprintf(c.out, "Network: %d nodes, %d edges\n", len(scenario.Nodes), len(scenario.Edges))
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *SimulateCommand) showHelp() {
	fmt.Fprintf(c.out, `Inventory Optimization CLI - safety stock, reorder point and EOQ with Monte Carlo simulation

USAGE:
    invopt [-config <file>] [options]

OPTIONS:
    -config <file>      Scenario file (YAML, JSON or TOML); built-in defaults when omitted
    -seed <n>           Random seed (0 keeps the config value; a zero config seed picks one)
    -days <n>           Simulation horizon in days, 1-%d (0 keeps the config value)
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (required for csv)
    -network-dir <dir>  Directory with nodes.csv and edges.csv replacing the config's network
    -network            Run the multi-echelon analysis when the config defines a network (default: true)
    -verbose            Enable verbose output and debug logging
    -help               Show this help message

ENVIRONMENT:
    Every config key can be overridden with %s_<KEY>, e.g. %s_SERVICE_LEVEL=99

NETWORK CSV FILES:
    nodes.csv:
        name,tier,demand_mean,demand_std,service_level,holding_cost_per_unit,stock_out_cost_per_unit,order_quantity,initial_inventory
        store-a,retailer,60,15,95,,,,
    edges.csv:
        upstream,downstream,order_cost,lead_time_mean,lead_time_std,unit_cost
        dc,store-a,50,3,1,0.5

CONFIG FILE (YAML):
    demand_mean: 100
    demand_std: 20
    lead_time_mean: 5
    lead_time_std: 2
    service_level: 95
    holding_cost_per_unit: 1.0
    order_cost: 50
    order_quantity: 500
    stock_out_cost_per_unit: 5
    simulation_days: 365
    seed: 42
    nodes:
      - {name: dc, tier: distributor}
      - {name: store-a, tier: retailer, demand_mean: 60, demand_std: 15, service_level: 95}
    edges:
      - {upstream: dc, downstream: store-a, order_cost: 50, lead_time_mean: 3, lead_time_std: 1, unit_cost: 0.5}

EXAMPLES:
    # Run the default scenario
    invopt -seed 42

    # Run a network scenario and save JSON
    invopt -config scenarios/two_retailers.yaml -format json -output results/

    # Write the inventory trajectories as CSV
    invopt -config scenarios/two_retailers.yaml -format csv -output results/ -verbose
`, config.MaxSimulationDays, config.EnvPrefix, config.EnvPrefix)
}
