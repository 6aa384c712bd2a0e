package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

func leafStore(name string, mean float64) entities.Node {
	return entities.Node{
		Name:         name,
		Tier:         entities.Retailer,
		Demand:       entities.DemandProcess{Mean: mean, StdDev: 20},
		Costs:        entities.CostParameters{HoldingCostPerUnit: 1, OrderCost: 50, StockOutCostPerUnit: 5},
		ServiceLevel: 95,
	}
}

func leafLane(from, to string, orderCost float64) entities.NetworkEdge {
	return entities.NetworkEdge{
		Upstream:   from,
		Downstream: to,
		OrderCost:  orderCost,
		LeadTime:   entities.LeadTimeProcess{Mean: 5, StdDev: 2},
	}
}

func TestDeriveLeafPolicy_EOQAndReorderPoint(t *testing.T) {
	leaf, err := DeriveLeafPolicy(CombinedVariance, InverseNormal, leafStore("store", 100), leafLane("dc", "store", 50))
	require.NoError(t, err)

	assert.Equal(t, "store", leaf.Node)
	assert.InDelta(t, 1.6448536269514722*60, leaf.SafetyStock, 1e-9)
	assert.InDelta(t, 500+leaf.SafetyStock, leaf.Policy.ReorderPoint, 1e-9)
	assert.InDelta(t, math.Sqrt(2*36500*50), leaf.Policy.OrderQuantity, 1e-9)
}

func TestDeriveLeafPolicy_FixedQuantitySkipsEOQ(t *testing.T) {
	store := leafStore("store", 100)
	store.OrderQuantity = 250

	leaf, err := DeriveLeafPolicy(CombinedVariance, InverseNormal, store, leafLane("dc", "store", 0))
	require.NoError(t, err)
	assert.Equal(t, 250.0, leaf.Policy.OrderQuantity)
}

func TestDeriveLeafPolicy_Rejects(t *testing.T) {
	distributor := leafStore("dc", 100)
	distributor.Tier = entities.Distributor
	distributor.ServiceLevel = 0

	tests := []struct {
		name    string
		node    entities.Node
		edge    entities.NetworkEdge
		wantErr error
	}{
		{"non-retailer leaf", distributor, leafLane("plant", "dc", 50), entities.ErrInvalidNetwork},
		{"edge supplies another node", leafStore("store", 100), leafLane("dc", "other", 50), entities.ErrInvalidNetwork},
		{"zero order cost gives zero EOQ", leafStore("store", 100), leafLane("dc", "store", 0), entities.ErrInvalidParameter},
		{"zero demand gives zero EOQ", leafStore("store", 0), leafLane("dc", "store", 50), entities.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveLeafPolicy(CombinedVariance, InverseNormal, tt.node, tt.edge)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeriveLeafPolicies_WholeGraph(t *testing.T) {
	graph, err := entities.NewNetworkGraph(
		[]entities.Node{
			{Name: "dc", Tier: entities.Distributor},
			leafStore("store-b", 50),
			leafStore("store-a", 100),
		},
		[]entities.NetworkEdge{leafLane("dc", "store-a", 50), leafLane("dc", "store-b", 50)},
	)
	require.NoError(t, err)

	policies, err := DeriveLeafPolicies(graph, CombinedVariance, InverseNormal)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, "store-a", policies[0].Node)
	assert.Equal(t, "store-b", policies[1].Node)
}

func TestDeriveLeafPolicies_Rejects(t *testing.T) {
	_, err := DeriveLeafPolicies(nil, CombinedVariance, InverseNormal)
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)

	solo, err := entities.NewNetworkGraph([]entities.Node{leafStore("solo", 100)}, nil)
	require.NoError(t, err)
	_, err = DeriveLeafPolicies(solo, CombinedVariance, InverseNormal)
	assert.ErrorIs(t, err, entities.ErrInvalidNetwork)
}
