// Package dag computes deterministic execution orders for workflow graphs.
package dag

import (
	"fmt"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// Graph is the result of building a definition's dependency graph: the
// topological execution order plus a predecessor index for the dispatcher's
// satisfaction checks.
type Graph struct {
	Order        []string            // node ids in execution order
	Predecessors map[string][]string // target node id -> source node ids
}

// Build runs Kahn's algorithm over the nodes and edges. In-degrees are
// counted per node, the ready queue is seeded with zero-in-degree nodes in
// discovery order, and successors are enqueued FIFO as their in-degree
// reaches zero. An order shorter than the node count means a cycle; that is
// a hard error before any node runs.
func Build(nodes []*models.Node, edges []*models.Edge) (*Graph, error) {
	inDegree := make(map[string]int, len(nodes))
	adjacency := make(map[string][]string, len(nodes))
	predecessors := make(map[string][]string)

	for _, node := range nodes {
		if _, exists := inDegree[node.ID]; exists {
			return nil, fmt.Errorf("duplicate node id '%s'", node.ID)
		}

		inDegree[node.ID] = 0
	}

	for _, edge := range edges {
		if _, ok := inDegree[edge.Source]; !ok {
			return nil, fmt.Errorf("edge %s -> %s: source: %w", edge.Source, edge.Target, models.ErrMalformedEdge)
		}

		if _, ok := inDegree[edge.Target]; !ok {
			return nil, fmt.Errorf("edge %s -> %s: target: %w", edge.Source, edge.Target, models.ErrMalformedEdge)
		}

		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		predecessors[edge.Target] = append(predecessors[edge.Target], edge.Source)
		inDegree[edge.Target]++
	}

	queue := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if inDegree[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	order := make([]string, 0, len(nodes))

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		order = append(order, id)

		for _, successor := range adjacency[id] {
			inDegree[successor]--
			if inDegree[successor] == 0 {
				queue = append(queue, successor)
			}
		}
	}

	if len(order) < len(nodes) {
		return nil, fmt.Errorf("%d of %d nodes unreachable: %w", len(nodes)-len(order), len(nodes), models.ErrCycleDetected)
	}

	return &Graph{
		Order:        order,
		Predecessors: predecessors,
	}, nil
}
