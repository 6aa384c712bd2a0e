package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yay4john/Inventory-Optimization/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "Path to scenario file (YAML, JSON or TOML)")
		seed       = flag.Uint64("seed", 0, "Random seed (0 keeps the config value)")
		days       = flag.Int("days", 0, "Simulation horizon in days (0 keeps the config value)")
		format     = flag.String("format", "text", "Output format: text, json, csv")
		outputDir  = flag.String("output", "", "Output directory for results (optional)")
		networkDir = flag.String("network-dir", "", "Directory with nodes.csv and edges.csv (optional)")
		network    = flag.Bool("network", true, "Run the multi-echelon analysis when the config defines a network")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ConfigFile: *configFile,
		Seed:       *seed,
		Days:       *days,
		Format:     *format,
		OutputDir:  *outputDir,
		NetworkDir: *networkDir,
		Network:    *network,
		Verbose:    *verbose,
		Help:       *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create and execute command
	cmd := commands.NewSimulateCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
