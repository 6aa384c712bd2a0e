package services

import (
	"fmt"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// LeafPolicy is the replenishment policy derived for one stocking location
type LeafPolicy struct {
	Node        string                       `json:"node"`
	Demand      entities.DemandProcess       `json:"demand"`
	LeadTime    entities.LeadTimeProcess     `json:"lead_time"`
	SafetyStock float64                      `json:"safety_stock"`
	Policy      entities.ReplenishmentPolicy `json:"policy"`
}

// DeriveLeafPolicy computes safety stock, reorder point and order quantity for a retailer
// from its own demand and service level and its inbound edge's lead time and order cost.
// A positive Node.OrderQuantity is used as-is; otherwise the EOQ is used.
func DeriveLeafPolicy(
	method SafetyStockMethod,
	zMethod ZScoreMethod,
	node entities.Node,
	edge entities.NetworkEdge,
) (LeafPolicy, error) {
	if node.Tier != entities.Retailer {
		return LeafPolicy{}, fmt.Errorf("%w: leaf %s is a %s; only retailers face end demand",
			entities.ErrInvalidNetwork, node.Name, node.Tier)
	}
	if edge.Downstream != node.Name {
		return LeafPolicy{}, fmt.Errorf("%w: edge %s->%s does not supply %s",
			entities.ErrInvalidNetwork, edge.Upstream, edge.Downstream, node.Name)
	}

	ss, err := SafetyStockWith(method, zMethod, node.Demand, edge.LeadTime, node.ServiceLevel)
	if err != nil {
		return LeafPolicy{}, fmt.Errorf("failed to compute safety stock for %s: %w", node.Name, err)
	}

	quantity := node.OrderQuantity
	if quantity <= 0 {
		quantity, err = EconomicOrderQuantity(node.Demand.Annual(), edge.OrderCost, node.Costs.HoldingCostPerUnit)
		if err != nil {
			return LeafPolicy{}, fmt.Errorf("failed to compute order quantity for %s: %w", node.Name, err)
		}
	}

	policy, err := entities.NewReplenishmentPolicy(ReorderPoint(node.Demand.Mean, edge.LeadTime.Mean, ss), quantity)
	if err != nil {
		return LeafPolicy{}, fmt.Errorf("failed to build policy for %s: %w", node.Name, err)
	}

	return LeafPolicy{
		Node:        node.Name,
		Demand:      node.Demand,
		LeadTime:    edge.LeadTime,
		SafetyStock: ss,
		Policy:      policy,
	}, nil
}

// DeriveLeafPolicies derives a policy for every leaf of the graph, in name order.
// The first leaf that cannot be stocked stops the derivation.
func DeriveLeafPolicies(graph *entities.NetworkGraph, method SafetyStockMethod, zMethod ZScoreMethod) ([]LeafPolicy, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: network graph is required", entities.ErrInvalidNetwork)
	}

	leaves := graph.Leaves()
	policies := make([]LeafPolicy, 0, len(leaves))
	for _, name := range leaves {
		node, _ := graph.Node(name)
		edge, ok := graph.InboundEdge(name)
		if !ok {
			return nil, fmt.Errorf("%w: node %s has no inbound edge to supply it", entities.ErrInvalidNetwork, name)
		}
		policy, err := DeriveLeafPolicy(method, zMethod, node, edge)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
