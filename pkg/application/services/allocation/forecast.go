package allocation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// TrendParams parameterizes a linear trend with additive Gaussian noise
type TrendParams struct {
	// Base is the level at period zero; zero uses each retailer's demand mean
	Base     float64 `json:"base"`
	Slope    float64 `json:"slope"`
	NoiseStd float64 `json:"noise_std"`
}

// LinearTrendForecast returns base + slope*t + noise for t in [0, horizon)
func LinearTrendForecast(base, slope, noiseStd float64, horizon int, src rand.Source) ([]float64, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: forecast horizon must be positive, got %d", entities.ErrInvalidParameter, horizon)
	}
	if noiseStd < 0 || math.IsNaN(noiseStd) {
		return nil, fmt.Errorf("%w: noise standard deviation cannot be negative, got %v", entities.ErrInvalidParameter, noiseStd)
	}
	if noiseStd > 0 && src == nil {
		return nil, fmt.Errorf("%w: random source is required for a noisy forecast", entities.ErrInvalidParameter)
	}

	series := make([]float64, horizon)
	noise := distuv.Normal{Mu: 0, Sigma: noiseStd, Src: src}
	for t := range series {
		series[t] = base + slope*float64(t)
		if noiseStd > 0 {
			series[t] += noise.Rand()
		}
	}
	return series, nil
}

// TerminalForecast returns the last value of a series
func TerminalForecast(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("%w: forecast series is empty", entities.ErrInvalidParameter)
	}
	return series[len(series)-1], nil
}

// RetailerForecasts generates one series per retailer, in name order from src,
// and keeps each series' terminal value
func RetailerForecasts(graph *entities.NetworkGraph, params TrendParams, horizon int, src rand.Source) (map[string]float64, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}
	out := make(map[string]float64)
	for _, name := range graph.NodesByTier(entities.Retailer) {
		node, _ := graph.Node(name)
		base := params.Base
		if base == 0 {
			base = node.Demand.Mean
		}
		series, err := LinearTrendForecast(base, params.Slope, params.NoiseStd, horizon, src)
		if err != nil {
			return nil, fmt.Errorf("failed to forecast %s: %w", name, err)
		}
		out[name], err = TerminalForecast(series)
		if err != nil {
			return nil, fmt.Errorf("failed to forecast %s: %w", name, err)
		}
	}
	return out, nil
}
