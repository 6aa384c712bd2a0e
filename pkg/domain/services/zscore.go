package services

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// ZScoreMethod selects how a service level is converted into a standard normal z-score
type ZScoreMethod int

const (
	// InverseNormal uses the exact inverse standard normal CDF.
	InverseNormal ZScoreMethod = iota
	// LookupTable uses the rounded table {90: 1.28, 95: 1.65, 99: 2.33}.
	LookupTable
)

// String method for ZScoreMethod enum
func (m ZScoreMethod) String() string {
	switch m {
	case InverseNormal:
		return "inverse_normal"
	case LookupTable:
		return "lookup_table"
	default:
		return "unknown"
	}
}

// ParseZScoreMethod maps a configuration name to a ZScoreMethod
func ParseZScoreMethod(name string) (ZScoreMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "inverse_normal":
		return InverseNormal, nil
	case "lookup_table", "table":
		return LookupTable, nil
	default:
		return 0, fmt.Errorf("%w: unknown z-score method %q", entities.ErrInvalidParameter, name)
	}
}

// zScoreTable holds the rounded z-scores for the common service levels.
var zScoreTable = map[entities.ServiceLevel]float64{
	90: 1.28,
	95: 1.65,
	99: 2.33,
}

// defaultTableZScore is used for levels missing from zScoreTable.
const defaultTableZScore = 1.65

// ZScore converts a service level into a z-score using the given method
func ZScore(method ZScoreMethod, level entities.ServiceLevel) (float64, error) {
	if err := level.Validate(); err != nil {
		return 0, err
	}

	switch method {
	case InverseNormal:
		return distuv.UnitNormal.Quantile(level.Probability()), nil
	case LookupTable:
		if z, ok := zScoreTable[level]; ok {
			return z, nil
		}
		return defaultTableZScore, nil
	default:
		return 0, fmt.Errorf("%w: unknown z-score method %d", entities.ErrInvalidParameter, method)
	}
}
