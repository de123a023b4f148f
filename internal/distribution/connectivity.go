package distribution

import "github.com/mrwong99/worldforge/internal/graph"

// computeClusters builds an undirected adjacency from relationships whose
// strength is >= threshold and finds connected components via DFS (spec
// §4.E "only narratively strong ties form clusters"). Inter-cluster density
// is measured against every relationship (not just strong ties), since a
// weak tie crossing two strong-tie clusters is exactly what the metric is
// meant to surface.
func computeClusters(view graph.View, threshold float64) ConnectivitySnapshot {
	ids := view.EntityIDs()
	strongAdj := make(map[string]map[string]bool, len(ids))
	for _, id := range ids {
		strongAdj[id] = make(map[string]bool)
	}
	minStrength := threshold
	for _, r := range view.FindRelationships(graph.RelationshipCriteria{MinStrength: &minStrength}) {
		if strongAdj[r.Src] == nil || strongAdj[r.Dst] == nil {
			continue
		}
		strongAdj[r.Src][r.Dst] = true
		strongAdj[r.Dst][r.Src] = true
	}

	visited := make(map[string]bool, len(ids))
	clusterOf := make(map[string]int, len(ids))
	var clusters [][]string
	var isolated []string
	for _, id := range ids {
		if visited[id] {
			continue
		}
		component := dfs(id, strongAdj, visited)
		if len(component) == 1 {
			isolated = append(isolated, component[0])
		}
		for _, member := range component {
			clusterOf[member] = len(clusters)
		}
		clusters = append(clusters, component)
	}

	crossEdges := 0
	for _, r := range view.Relationships() {
		if clusterOf[r.Src] != clusterOf[r.Dst] {
			crossEdges++
		}
	}

	snapshot := ConnectivitySnapshot{
		Clusters:            clusters,
		IsolatedNodes:        isolated,
		IntraClusterDensity:  intraClusterDensity(clusters, strongAdj),
		InterClusterDensity:  interClusterDensity(len(clusters), len(ids), crossEdges),
	}
	if len(clusters) > 0 {
		snapshot.AvgClusterSize = float64(len(ids)) / float64(len(clusters))
	}
	if len(ids) > 0 {
		snapshot.IsolatedNodeRatio = float64(len(isolated)) / float64(len(ids))
	}
	return snapshot
}

func dfs(start string, adj map[string]map[string]bool, visited map[string]bool) []string {
	stack := []string{start}
	var component []string
	for len(stack) > 0 {
		n := len(stack) - 1
		id := stack[n]
		stack = stack[:n]
		if visited[id] {
			continue
		}
		visited[id] = true
		component = append(component, id)
		for neighbor := range adj[id] {
			if !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}
	return component
}

// intraClusterDensity averages, across clusters of size > 1, the ratio of
// actual strong-tie edges to the maximum possible edges within that
// cluster.
func intraClusterDensity(clusters [][]string, adj map[string]map[string]bool) float64 {
	var total float64
	var counted int
	for _, cluster := range clusters {
		n := len(cluster)
		if n <= 1 {
			continue
		}
		maxEdges := float64(n*(n-1)) / 2
		edges := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if adj[cluster[i]][cluster[j]] {
					edges++
				}
			}
		}
		total += edges / maxEdges
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// interClusterDensity divides edges crossing distinct clusters by the
// number of node pairs among totalNodes, n(n-1)/2 (an upper bound on the
// possible cross-cluster edges, since per-cluster sizes are not used).
func interClusterDensity(clusterCount, totalNodes, crossEdges int) float64 {
	if clusterCount < 2 || totalNodes < 2 {
		return 0
	}
	maxPossible := float64(totalNodes*(totalNodes-1)) / 2
	if maxPossible <= 0 {
		return 0
	}
	return float64(crossEdges) / maxPossible
}
