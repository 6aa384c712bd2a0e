// Package config loads scenario parameters from YAML, JSON or TOML files with INVOPT_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
	"github.com/yay4john/Inventory-Optimization/pkg/domain/services"
	"github.com/yay4john/Inventory-Optimization/pkg/infrastructure/logging"
)

// EnvPrefix prefixes every environment override, e.g. INVOPT_SERVICE_LEVEL
const EnvPrefix = "INVOPT"

// MaxSimulationDays bounds simulation_days
const MaxSimulationDays = 3650

// Config is the scenario record accepted by the orchestrator
type Config struct {
	DemandMean          float64 `mapstructure:"demand_mean"`
	DemandStd           float64 `mapstructure:"demand_std"`
	LeadTimeMean        float64 `mapstructure:"lead_time_mean"`
	LeadTimeStd         float64 `mapstructure:"lead_time_std"`
	ServiceLevel        float64 `mapstructure:"service_level"`
	HoldingCostPerUnit  float64 `mapstructure:"holding_cost_per_unit"`
	OrderCost           float64 `mapstructure:"order_cost"`
	OrderQuantity       float64 `mapstructure:"order_quantity"`
	StockOutCostPerUnit float64 `mapstructure:"stock_out_cost_per_unit"`
	SimulationDays      int     `mapstructure:"simulation_days"`
	NumEchelons         int     `mapstructure:"num_echelons"`
	// InitialInventory overrides the starting level when positive
	InitialInventory float64 `mapstructure:"initial_inventory"`
	// Seed drives every random draw; zero picks a fresh seed per run
	Seed uint64 `mapstructure:"seed"`

	SafetyStockMethod string `mapstructure:"safety_stock_method"`
	ZScoreMethod      string `mapstructure:"z_score_method"`
	CostMode          string `mapstructure:"cost_mode"`
	StockOutMethod    string `mapstructure:"stock_out_method"`
	InventoryMode     string `mapstructure:"inventory_mode"`

	Nodes    []NodeConfig   `mapstructure:"nodes"`
	Edges    []EdgeConfig   `mapstructure:"edges"`
	Forecast ForecastConfig `mapstructure:"forecast"`

	Logger logging.Config `mapstructure:"logger"`
}

// NodeConfig describes one stocking location of a network scenario
type NodeConfig struct {
	Name                string  `mapstructure:"name"`
	Tier                string  `mapstructure:"tier"`
	DemandMean          float64 `mapstructure:"demand_mean"`
	DemandStd           float64 `mapstructure:"demand_std"`
	ServiceLevel        float64 `mapstructure:"service_level"`
	HoldingCostPerUnit  float64 `mapstructure:"holding_cost_per_unit"`
	StockOutCostPerUnit float64 `mapstructure:"stock_out_cost_per_unit"`
	OrderQuantity       float64 `mapstructure:"order_quantity"`
	InitialInventory    float64 `mapstructure:"initial_inventory"`
}

// EdgeConfig describes one supply lane of a network scenario
type EdgeConfig struct {
	Upstream     string  `mapstructure:"upstream"`
	Downstream   string  `mapstructure:"downstream"`
	OrderCost    float64 `mapstructure:"order_cost"`
	LeadTimeMean float64 `mapstructure:"lead_time_mean"`
	LeadTimeStd  float64 `mapstructure:"lead_time_std"`
	UnitCost     float64 `mapstructure:"unit_cost"`
}

// ForecastConfig parameterizes the retailer demand forecast used for allocation
type ForecastConfig struct {
	Base     float64 `mapstructure:"base"`
	Slope    float64 `mapstructure:"slope"`
	NoiseStd float64 `mapstructure:"noise_std"`
}

// Load reads configPath, which must exist, layering defaults and environment overrides
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation
func Read(configPath string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults reads configPath when it exists; a missing or empty path yields the defaults
func LoadWithDefaults(configPath string) (*Config, error) {
	cfg, err := ReadWithDefaults(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ReadWithDefaults is LoadWithDefaults without validation, for callers that
// override fields before calling Validate themselves
func ReadWithDefaults(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return unmarshal(v)
}

// Default returns the built-in scenario without reading files or the environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects out-of-domain parameters, unknown safety stock, z-score and inventory
// mode names, and networks with a leaf that cannot be stocked. cost_mode and
// stock_out_method are parsed by the orchestrator when the scenario runs.
func (c *Config) Validate() error {
	if _, err := entities.NewDemandProcess(c.DemandMean, c.DemandStd); err != nil {
		return err
	}
	if _, err := entities.NewLeadTimeProcess(c.LeadTimeMean, c.LeadTimeStd); err != nil {
		return err
	}
	if err := entities.ServiceLevel(c.ServiceLevel).Validate(); err != nil {
		return err
	}
	if _, err := entities.NewCostParameters(c.HoldingCostPerUnit, c.OrderCost, c.StockOutCostPerUnit); err != nil {
		return err
	}
	if c.HoldingCostPerUnit == 0 {
		return fmt.Errorf("%w: holding_cost_per_unit must be positive for the EOQ", entities.ErrDivisionByZero)
	}
	if _, err := entities.NewReplenishmentPolicy(0, c.OrderQuantity); err != nil {
		return err
	}
	if c.SimulationDays < 1 || c.SimulationDays > MaxSimulationDays {
		return fmt.Errorf("%w: simulation_days must be between 1 and %d, got %d", entities.ErrInvalidParameter, MaxSimulationDays, c.SimulationDays)
	}
	if c.NumEchelons < 1 {
		return fmt.Errorf("%w: num_echelons must be at least 1, got %d", entities.ErrInvalidParameter, c.NumEchelons)
	}
	if c.InitialInventory < 0 || math.IsNaN(c.InitialInventory) {
		return fmt.Errorf("%w: initial_inventory cannot be negative, got %v", entities.ErrInvalidParameter, c.InitialInventory)
	}
	if c.Forecast.NoiseStd < 0 {
		return fmt.Errorf("%w: forecast.noise_std cannot be negative, got %v", entities.ErrInvalidParameter, c.Forecast.NoiseStd)
	}

	ssMethod, err := services.ParseSafetyStockMethod(c.SafetyStockMethod)
	if err != nil {
		return err
	}
	zMethod, err := services.ParseZScoreMethod(c.ZScoreMethod)
	if err != nil {
		return err
	}
	if _, err := entities.ParseInventoryMode(c.InventoryMode); err != nil {
		return err
	}

	if c.HasNetwork() {
		graph, err := c.BuildNetwork()
		if err != nil {
			return err
		}
		// every leaf must be stockable before the single-node run starts
		if _, err := services.DeriveLeafPolicies(graph, ssMethod, zMethod); err != nil {
			return err
		}
	}
	return nil
}

// Demand returns the single-node demand process
func (c *Config) Demand() entities.DemandProcess {
	return entities.DemandProcess{Mean: c.DemandMean, StdDev: c.DemandStd}
}

// LeadTime returns the single-node lead time process
func (c *Config) LeadTime() entities.LeadTimeProcess {
	return entities.LeadTimeProcess{Mean: c.LeadTimeMean, StdDev: c.LeadTimeStd}
}

// Costs returns the single-node cost parameters
func (c *Config) Costs() entities.CostParameters {
	return entities.CostParameters{
		HoldingCostPerUnit:  c.HoldingCostPerUnit,
		OrderCost:           c.OrderCost,
		StockOutCostPerUnit: c.StockOutCostPerUnit,
	}
}

// HasNetwork reports whether the scenario includes a network
func (c *Config) HasNetwork() bool {
	return len(c.Nodes) > 0
}

// NetworkRecords converts node and edge records into domain values.
// Node cost fields left at zero inherit the scenario-level costs.
func (c *Config) NetworkRecords() ([]entities.Node, []entities.NetworkEdge, error) {
	nodes := make([]entities.Node, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		tier, err := entities.ParseTier(n.Tier)
		if err != nil {
			return nil, nil, fmt.Errorf("node %s: %w", n.Name, err)
		}
		holding := n.HoldingCostPerUnit
		if holding == 0 {
			holding = c.HoldingCostPerUnit
		}
		stockOut := n.StockOutCostPerUnit
		if stockOut == 0 {
			stockOut = c.StockOutCostPerUnit
		}
		nodes = append(nodes, entities.Node{
			Name:             n.Name,
			Tier:             tier,
			Demand:           entities.DemandProcess{Mean: n.DemandMean, StdDev: n.DemandStd},
			Costs:            entities.CostParameters{HoldingCostPerUnit: holding, OrderCost: c.OrderCost, StockOutCostPerUnit: stockOut},
			ServiceLevel:     entities.ServiceLevel(n.ServiceLevel),
			OrderQuantity:    n.OrderQuantity,
			InitialInventory: n.InitialInventory,
		})
	}

	edges := make([]entities.NetworkEdge, 0, len(c.Edges))
	for _, e := range c.Edges {
		edges = append(edges, entities.NetworkEdge{
			Upstream:   e.Upstream,
			Downstream: e.Downstream,
			OrderCost:  e.OrderCost,
			LeadTime:   entities.LeadTimeProcess{Mean: e.LeadTimeMean, StdDev: e.LeadTimeStd},
			UnitCost:   e.UnitCost,
		})
	}
	return nodes, edges, nil
}

// BuildNetwork validates the node and edge records and returns the graph
func (c *Config) BuildNetwork() (*entities.NetworkGraph, error) {
	nodes, edges, err := c.NetworkRecords()
	if err != nil {
		return nil, err
	}

	if report := services.NewNetworkValidator().ValidateNetwork(nodes, edges); !report.Valid() {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidNetwork, strings.Join(report.Errors, "; "))
	}

	graph, err := entities.NewNetworkGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	return graph, nil
}

// setDefaults mirrors the interactive walkthrough's starting values
func setDefaults(v *viper.Viper) {
	v.SetDefault("demand_mean", 100.0)
	v.SetDefault("demand_std", 20.0)
	v.SetDefault("lead_time_mean", 5.0)
	v.SetDefault("lead_time_std", 2.0)
	v.SetDefault("service_level", 95.0)
	v.SetDefault("holding_cost_per_unit", 1.0)
	v.SetDefault("order_cost", 50.0)
	v.SetDefault("order_quantity", 500.0)
	v.SetDefault("stock_out_cost_per_unit", 5.0)
	v.SetDefault("simulation_days", 365)
	v.SetDefault("num_echelons", 2)
	v.SetDefault("initial_inventory", 0.0)
	v.SetDefault("seed", 0)

	v.SetDefault("safety_stock_method", "combined_variance")
	v.SetDefault("z_score_method", "inverse_normal")
	v.SetDefault("cost_mode", "simulation")
	v.SetDefault("stock_out_method", "simulated")
	v.SetDefault("inventory_mode", "clamp_to_zero")

	v.SetDefault("forecast.base", 0.0)
	v.SetDefault("forecast.slope", 0.0)
	v.SetDefault("forecast.noise_std", 0.0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.file_path", "logs/invopt.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)
}
