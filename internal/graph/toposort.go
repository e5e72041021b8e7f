package graph

// TopoResult holds the result of topological sorting.
type TopoResult struct {
	// Order is the topological order (parents before dependents).
	Order []string
	// HasCycle is true if the graph contains a cycle.
	HasCycle bool
	// CycleNodes lists nodes involved in cycles (if any).
	CycleNodes []string
}

// TopoSort performs Kahn's algorithm over the given nodes, where
// parents maps a node to the nodes it depends on. Nodes are returned in
// dependency order: parents first, then dependents. Ties are broken by
// position in nodes, so the order is deterministic.
func TopoSort(nodes []string, parents map[string][]string) TopoResult {
	nodeSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	// In-degree = number of parent edges within the node set.
	inDegree := make(map[string]int, len(nodes))
	children := make(map[string][]string)
	for _, n := range nodes {
		for _, p := range parents[n] {
			if !nodeSet[p] {
				continue
			}
			children[p] = append(children[p], n)
			inDegree[n]++
		}
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, child := range children[node] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	result := TopoResult{Order: order}

	if len(order) < len(nodes) {
		result.HasCycle = true
		for _, n := range nodes {
			if inDegree[n] > 0 {
				result.CycleNodes = append(result.CycleNodes, n)
			}
		}
	}

	return result
}
