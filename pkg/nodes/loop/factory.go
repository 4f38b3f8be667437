package loop

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// LoopNodeFactory creates LoopNode instances.
type LoopNodeFactory struct{}

// NewLoopNodeFactory creates a new factory instance.
func NewLoopNodeFactory() protocol.NodeFactory {
	return &LoopNodeFactory{}
}

// Create creates a new LoopNode instance.
func (f *LoopNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewLoopNode(), nil
}

// ID returns the node type this factory serves.
func (f *LoopNodeFactory) ID() string {
	return models.NodeTypeLoop
}

// Name returns the factory name.
func (f *LoopNodeFactory) Name() string {
	return "Loop"
}

// Description returns the factory description.
func (f *LoopNodeFactory) Description() string {
	return "Iterates over a context array, bounded by a maximum iteration count"
}

// Schema returns the JSON schema for loop node configuration.
func (f *LoopNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type":        "string",
				"description": "Context key holding the array to iterate",
				"default":     "items",
			},
			"variable": map[string]any{
				"type":        "string",
				"description": "Context key bound to the current element; '<variable>Index' is bound to its index",
				"default":     DefaultVariable,
			},
			"maxIterations": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"default": DefaultMaxIterations,
			},
			"subNodeId": map[string]any{
				"type":        "string",
				"description": "Accepted but not executed per iteration",
			},
		},
	}
}
