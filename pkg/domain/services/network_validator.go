package services

import (
	"fmt"
	"sort"

	"github.com/yay4john/Inventory-Optimization/pkg/domain/entities"
)

// NetworkValidator reports structural problems in a node/edge set before a graph is built
type NetworkValidator struct{}

// NewNetworkValidator creates a new network validator
func NewNetworkValidator() *NetworkValidator {
	return &NetworkValidator{}
}

// ValidationResult contains the results of network validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]string
	FanIn          []string
	UnknownNodes   []string
	OrphanedNodes  []string
	TierViolations []entities.NetworkEdge
	Errors         []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateNetwork performs comprehensive validation on a set of nodes and edges
func (v *NetworkValidator) ValidateNetwork(nodes []entities.Node, edges []entities.NetworkEdge) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]string, 0),
		FanIn:          make([]string, 0),
		UnknownNodes:   make([]string, 0),
		OrphanedNodes:  make([]string, 0),
		TierViolations: make([]entities.NetworkEdge, 0),
		Errors:         make([]string, 0),
	}

	tiers := make(map[string]entities.Tier, len(nodes))
	for _, node := range nodes {
		tiers[node.Name] = node.Tier
	}

	// Unknown endpoints and tier ordering
	unknown := make(map[string]bool)
	connected := make(map[string]bool)
	for _, edge := range edges {
		connected[edge.Upstream] = true
		connected[edge.Downstream] = true
		upTier, upOK := tiers[edge.Upstream]
		downTier, downOK := tiers[edge.Downstream]
		if !upOK {
			unknown[edge.Upstream] = true
		}
		if !downOK {
			unknown[edge.Downstream] = true
		}
		if upOK && downOK && upTier >= downTier {
			result.TierViolations = append(result.TierViolations, edge)
		}
	}
	result.UnknownNodes = sortedKeys(unknown)

	// Fan-in: more than one inbound edge
	inbound := make(map[string]int)
	for _, edge := range edges {
		inbound[edge.Downstream]++
	}
	for name, count := range inbound {
		if count > 1 {
			result.FanIn = append(result.FanIn, name)
		}
	}
	sort.Strings(result.FanIn)

	// Orphans only matter once there is more than one node
	if len(nodes) > 1 {
		for _, node := range nodes {
			if !connected[node.Name] {
				result.OrphanedNodes = append(result.OrphanedNodes, node.Name)
			}
		}
	}

	cycles := v.detectCycles(v.buildAdjacencyMap(edges))
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	// Add validation errors
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("network cycle detected: %v", cycle))
	}
	for _, name := range result.FanIn {
		result.Errors = append(result.Errors, fmt.Sprintf("node %s has %d inbound edges, expected exactly one", name, inbound[name]))
	}
	for _, name := range result.UnknownNodes {
		result.Errors = append(result.Errors, fmt.Sprintf("edge references unknown node %s", name))
	}
	for _, edge := range result.TierViolations {
		result.Errors = append(result.Errors, fmt.Sprintf("edge %s -> %s does not flow downstream (%s -> %s)",
			edge.Upstream, edge.Downstream, tiers[edge.Upstream], tiers[edge.Downstream]))
	}
	if len(result.OrphanedNodes) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d nodes without edges: %v",
			len(result.OrphanedNodes), result.OrphanedNodes))
	}

	return result
}

// buildAdjacencyMap creates a map of upstream -> downstream relationships
func (v *NetworkValidator) buildAdjacencyMap(edges []entities.NetworkEdge) map[string][]string {
	adjacencyMap := make(map[string][]string)

	for _, edge := range edges {
		children := adjacencyMap[edge.Upstream]

		found := false
		for _, child := range children {
			if child == edge.Downstream {
				found = true
				break
			}
		}

		if !found {
			adjacencyMap[edge.Upstream] = append(children, edge.Downstream)
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles, visiting start nodes in name order
func (v *NetworkValidator) detectCycles(adjacencyMap map[string][]string) [][]string {
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)
	cycles := make([][]string, 0)

	starts := make([]string, 0, len(adjacencyMap))
	for name := range adjacencyMap {
		starts = append(starts, name)
	}
	sort.Strings(starts)

	for _, start := range starts {
		if !visited[start] {
			v.dfsDetectCycle(start, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *NetworkValidator) dfsDetectCycle(
	current string,
	adjacencyMap map[string][]string,
	visited map[string]bool,
	recursionStack map[string]bool,
	path []string,
	cycles *[][]string,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		// Found a cycle - extract the cycle path
		for i, name := range path {
			if name == child {
				cycle := make([]string, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
