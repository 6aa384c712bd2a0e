package testing

import (
	"math/rand/v2"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// Seeded returns a PCG source seeded with seed for reproducible runs
func Seeded(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// DefaultDemand is the 100/day, sd 20 demand used throughout the walkthroughs
func DefaultDemand() entities.DemandProcess {
	return entities.DemandProcess{Mean: 100, StdDev: 20}
}

// DefaultLeadTime is the 5 day, sd 2 lead time used throughout the walkthroughs
func DefaultLeadTime() entities.LeadTimeProcess {
	return entities.LeadTimeProcess{Mean: 5, StdDev: 2}
}

// DefaultCosts holds h=1, S=50, p=5
func DefaultCosts() entities.CostParameters {
	return entities.CostParameters{HoldingCostPerUnit: 1, OrderCost: 50, StockOutCostPerUnit: 5}
}

// mustCreateNode is a helper for tests - panics on validation error
func mustCreateNode(name string, tier entities.Tier, demand entities.DemandProcess, level entities.ServiceLevel) entities.Node {
	node, err := entities.NewNode(name, tier, demand, DefaultCosts(), level)
	if err != nil {
		panic(err)
	}
	return *node
}

// mustCreateGraph is a helper for tests - panics on validation error
func mustCreateGraph(nodes []entities.Node, edges []entities.NetworkEdge) *entities.NetworkGraph {
	graph, err := entities.NewNetworkGraph(nodes, edges)
	if err != nil {
		panic(err)
	}
	return graph
}

// Edge builds an edge with the default lead time and order cost
func Edge(upstream, downstream string) entities.NetworkEdge {
	return entities.NetworkEdge{
		Upstream:   upstream,
		Downstream: downstream,
		OrderCost:  50,
		LeadTime:   DefaultLeadTime(),
		UnitCost:   1,
	}
}

// BuildTwoRetailerNodes returns supplier -> dc -> {store-a, store-b} as raw records
func BuildTwoRetailerNodes() ([]entities.Node, []entities.NetworkEdge) {
	nodes := []entities.Node{
		{Name: "supplier", Tier: entities.Supplier, Costs: DefaultCosts()},
		{Name: "dc", Tier: entities.Distributor, Costs: DefaultCosts()},
		mustCreateNode("store-a", entities.Retailer, DefaultDemand(), 95),
		mustCreateNode("store-b", entities.Retailer, DefaultDemand(), 95),
	}
	edges := []entities.NetworkEdge{
		Edge("supplier", "dc"),
		Edge("dc", "store-a"),
		Edge("dc", "store-b"),
	}
	return nodes, edges
}

// BuildTwoRetailerNetwork builds supplier -> dc -> {store-a, store-b} with identical default retailers
func BuildTwoRetailerNetwork() *entities.NetworkGraph {
	return mustCreateGraph(BuildTwoRetailerNodes())
}

// BuildThreeTierNetwork builds factory -> {dc-east -> {store-1, store-2}, dc-west -> store-3}
// with unequal retailer demand
func BuildThreeTierNetwork() *entities.NetworkGraph {
	nodes := []entities.Node{
		{Name: "factory", Tier: entities.Supplier, Costs: DefaultCosts()},
		{Name: "dc-east", Tier: entities.Distributor, Costs: DefaultCosts()},
		{Name: "dc-west", Tier: entities.Distributor, Costs: DefaultCosts()},
		mustCreateNode("store-1", entities.Retailer, entities.DemandProcess{Mean: 120, StdDev: 30}, 95),
		mustCreateNode("store-2", entities.Retailer, entities.DemandProcess{Mean: 80, StdDev: 10}, 90),
		mustCreateNode("store-3", entities.Retailer, entities.DemandProcess{Mean: 50, StdDev: 15}, 99),
	}
	edges := []entities.NetworkEdge{
		Edge("factory", "dc-east"),
		Edge("factory", "dc-west"),
		Edge("dc-east", "store-1"),
		Edge("dc-east", "store-2"),
		{Upstream: "dc-west", Downstream: "store-3", OrderCost: 80, LeadTime: entities.LeadTimeProcess{Mean: 3, StdDev: 1}, UnitCost: 2},
	}
	return mustCreateGraph(nodes, edges)
}

// BuildDeterministicNetwork builds dc -> {store-a, store-b} with zero variance everywhere,
// fixed order quantities and a two day lead time
func BuildDeterministicNetwork() *entities.NetworkGraph {
	store := func(name string, mean float64) entities.Node {
		n := mustCreateNode(name, entities.Retailer, entities.DemandProcess{Mean: mean}, 95)
		n.OrderQuantity = 100
		return n
	}
	lane := func(to string) entities.NetworkEdge {
		return entities.NetworkEdge{Upstream: "dc", Downstream: to, OrderCost: 50, LeadTime: entities.LeadTimeProcess{Mean: 2}}
	}
	nodes := []entities.Node{
		{Name: "dc", Tier: entities.Distributor, Costs: DefaultCosts()},
		store("store-a", 10),
		store("store-b", 20),
	}
	return mustCreateGraph(nodes, []entities.NetworkEdge{lane("store-a"), lane("store-b")})
}
