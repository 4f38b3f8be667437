// Package loop iterates over an array held in the execution context.
//
// Per-iteration sub-node dispatch is a known limitation: a subNodeId in the
// config is accepted and ignored, and iterations only collect {index, value}
// pairs.
package loop

import (
	"context"
	"fmt"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

const (
	DefaultMaxIterations = 100
	DefaultVariable      = "item"
)

// LoopNode collects {index, value} pairs from a context array, binding the
// loop variable and its index into the context per iteration.
type LoopNode struct{}

// NewLoopNode creates a new loop node handler.
func NewLoopNode() *LoopNode {
	return &LoopNode{}
}

// Execute reads the array named by config.items from the context and
// iterates it, bounded by config.maxIterations.
func (n *LoopNode) Execute(_ context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	itemsKey, ok := node.ConfigString("items")
	if !ok {
		itemsKey = "items"
	}

	items, ok := execution.Context[itemsKey].([]any)
	if !ok {
		return nil, fmt.Errorf("context key '%s' is not an array", itemsKey)
	}

	maxIterations := node.ConfigInt("maxIterations", DefaultMaxIterations)
	if len(items) > maxIterations {
		return nil, fmt.Errorf("array length %d exceeds maximum iterations %d", len(items), maxIterations)
	}

	variable, ok := node.ConfigString("variable")
	if !ok {
		variable = DefaultVariable
	}

	results := make([]map[string]any, 0, len(items))

	for index, value := range items {
		execution.Context[variable] = value
		execution.Context[variable+"Index"] = index

		results = append(results, map[string]any{
			"index": index,
			"value": value,
		})
	}

	return map[string]any{
		"iterations": len(items),
		"results":    results,
	}, nil
}
