// Package end provides the terminal node that collects run outputs.
package end

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// EndNode copies every other node's recorded result into the execution
// outputs.
type EndNode struct{}

// NewEndNode creates a new end node handler.
func NewEndNode() *EndNode {
	return &EndNode{}
}

// Execute collects node results into execution.Outputs, excluding the end
// node itself, and returns the collected count.
func (n *EndNode) Execute(_ context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	if execution.Outputs == nil {
		execution.Outputs = make(map[string]any)
	}

	collected := 0

	for nodeID, result := range execution.NodeResults {
		if nodeID == node.ID {
			continue
		}

		execution.Outputs[nodeID] = result
		collected++
	}

	return map[string]any{
		"status":    "completed",
		"collected": collected,
	}, nil
}
