package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Tier represents the echelon a node belongs to
type Tier int

const (
	Supplier Tier = iota
	Distributor
	Retailer
)

// String method for Tier enum
func (t Tier) String() string {
	switch t {
	case Supplier:
		return "Supplier"
	case Distributor:
		return "Distributor"
	case Retailer:
		return "Retailer"
	default:
		return "Unknown"
	}
}

// ParseTier maps a tier name to a Tier. "customer" is accepted as an alias of Retailer.
func ParseTier(name string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "supplier":
		return Supplier, nil
	case "distributor", "warehouse":
		return Distributor, nil
	case "retailer", "customer":
		return Retailer, nil
	default:
		return 0, invalidf("unknown tier %q", name)
	}
}

// Node is a stocking location in the network.
type Node struct {
	Name         string
	Tier         Tier
	Demand       DemandProcess
	Costs        CostParameters
	ServiceLevel ServiceLevel
	// OrderQuantity overrides the EOQ-derived order quantity when positive.
	OrderQuantity float64
	// InitialInventory overrides the starting inventory when positive.
	InitialInventory float64
}

// NewNode creates a validated Node
func NewNode(name string, tier Tier, demand DemandProcess, costs CostParameters, serviceLevel ServiceLevel) (*Node, error) {
	n := &Node{
		Name:         name,
		Tier:         tier,
		Demand:       demand,
		Costs:        costs,
		ServiceLevel: serviceLevel,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the node's identity and parameters
func (n *Node) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return invalidf("node name cannot be empty")
	}
	if err := n.Demand.Validate(); err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	if err := n.Costs.Validate(); err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	if n.Tier == Retailer {
		if err := n.ServiceLevel.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.Name, err)
		}
	}
	if n.OrderQuantity < 0 {
		return invalidf("node %s: order quantity cannot be negative, got %v", n.Name, n.OrderQuantity)
	}
	if n.InitialInventory < 0 {
		return invalidf("node %s: initial inventory cannot be negative, got %v", n.Name, n.InitialInventory)
	}
	return nil
}

// NetworkEdge is a supply relationship from Upstream to Downstream.
type NetworkEdge struct {
	Upstream   string
	Downstream string
	OrderCost  float64
	LeadTime   LeadTimeProcess
	// UnitCost is the per-unit shipment cost along the edge.
	UnitCost float64
}

// Validate checks the edge's own fields; graph-level rules are enforced by NewNetworkGraph
func (e NetworkEdge) Validate() error {
	if e.Upstream == "" || e.Downstream == "" {
		return networkf("edge endpoints cannot be empty (%q -> %q)", e.Upstream, e.Downstream)
	}
	if e.Upstream == e.Downstream {
		return networkf("edge cannot connect %s to itself", e.Upstream)
	}
	if err := checkNonNegative("edge order cost", e.OrderCost); err != nil {
		return fmt.Errorf("edge %s -> %s: %w", e.Upstream, e.Downstream, err)
	}
	if err := checkNonNegative("edge unit cost", e.UnitCost); err != nil {
		return fmt.Errorf("edge %s -> %s: %w", e.Upstream, e.Downstream, err)
	}
	if err := e.LeadTime.Validate(); err != nil {
		return fmt.Errorf("edge %s -> %s: %w", e.Upstream, e.Downstream, err)
	}
	return nil
}

// NetworkGraph is an immutable, validated set of nodes and edges.
// Every non-root node has exactly one inbound edge and the graph is acyclic.
type NetworkGraph struct {
	nodes    map[string]*Node
	inbound  map[string]*NetworkEdge
	children map[string][]string
	names    []string
	order    []string
	edges    []NetworkEdge
}

// NewNetworkGraph validates nodes and edges and builds the lookup indices
func NewNetworkGraph(nodes []Node, edges []NetworkEdge) (*NetworkGraph, error) {
	if len(nodes) == 0 {
		return nil, networkf("network must contain at least one node")
	}

	g := &NetworkGraph{
		nodes:    make(map[string]*Node, len(nodes)),
		inbound:  make(map[string]*NetworkEdge, len(edges)),
		children: make(map[string][]string),
		names:    make([]string, 0, len(nodes)),
		edges:    make([]NetworkEdge, len(edges)),
	}

	for i := range nodes {
		node := nodes[i]
		if err := node.Validate(); err != nil {
			return nil, err
		}
		if _, exists := g.nodes[node.Name]; exists {
			return nil, networkf("duplicate node name %s", node.Name)
		}
		g.nodes[node.Name] = &node
		g.names = append(g.names, node.Name)
	}
	sort.Strings(g.names)

	copy(g.edges, edges)
	for i := range g.edges {
		edge := &g.edges[i]
		if err := edge.Validate(); err != nil {
			return nil, err
		}
		if _, ok := g.nodes[edge.Upstream]; !ok {
			return nil, networkf("edge references unknown upstream node %s", edge.Upstream)
		}
		if _, ok := g.nodes[edge.Downstream]; !ok {
			return nil, networkf("edge references unknown downstream node %s", edge.Downstream)
		}
		if existing, dup := g.inbound[edge.Downstream]; dup {
			return nil, networkf("node %s has more than one inbound edge (from %s and %s)",
				edge.Downstream, existing.Upstream, edge.Upstream)
		}
		g.inbound[edge.Downstream] = edge
		g.children[edge.Upstream] = append(g.children[edge.Upstream], edge.Downstream)
	}
	for parent := range g.children {
		sort.Strings(g.children[parent])
	}

	order, err := g.topologicalSort()
	if err != nil {
		return nil, err
	}
	g.order = order

	return g, nil
}

// topologicalSort orders nodes upstream-first (Kahn's algorithm, ties broken by name)
func (g *NetworkGraph) topologicalSort() ([]string, error) {
	var queue []string
	for _, name := range g.names {
		if _, hasParent := g.inbound[name]; !hasParent {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(g.names))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)
		queue = append(queue, g.children[current]...)
	}

	if len(order) != len(g.names) {
		visited := make(map[string]bool, len(order))
		for _, name := range order {
			visited[name] = true
		}
		var stuck []string
		for _, name := range g.names {
			if !visited[name] {
				stuck = append(stuck, name)
			}
		}
		return nil, networkf("network contains a cycle through %v", stuck)
	}
	return order, nil
}

// Node returns a copy of the node with the given name
func (g *NetworkGraph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// InboundEdge returns a copy of the edge supplying the given node; roots have none
func (g *NetworkGraph) InboundEdge(name string) (NetworkEdge, bool) {
	e, ok := g.inbound[name]
	if !ok {
		return NetworkEdge{}, false
	}
	return *e, true
}

// Children returns the downstream neighbours of a node in name order
func (g *NetworkGraph) Children(name string) []string {
	return append([]string(nil), g.children[name]...)
}

// Names returns all node names in sorted order
func (g *NetworkGraph) Names() []string {
	return append([]string(nil), g.names...)
}

// Edges returns a copy of the edge set
func (g *NetworkGraph) Edges() []NetworkEdge {
	return append([]NetworkEdge(nil), g.edges...)
}

// Leaves returns the nodes with no downstream children, in name order
func (g *NetworkGraph) Leaves() []string {
	var leaves []string
	for _, name := range g.names {
		if len(g.children[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// NodesByTier returns the names of nodes in the given tier, in name order
func (g *NetworkGraph) NodesByTier(tier Tier) []string {
	var out []string
	for _, name := range g.names {
		if g.nodes[name].Tier == tier {
			out = append(out, name)
		}
	}
	return out
}

// TopologicalOrder returns node names ordered so that every edge points forward
func (g *NetworkGraph) TopologicalOrder() []string {
	return append([]string(nil), g.order...)
}
