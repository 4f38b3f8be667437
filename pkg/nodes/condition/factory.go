package condition

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// ConditionNodeFactory creates ConditionNode instances.
type ConditionNodeFactory struct{}

// NewConditionNodeFactory creates a new factory instance.
func NewConditionNodeFactory() protocol.NodeFactory {
	return &ConditionNodeFactory{}
}

// Create creates a new ConditionNode instance.
func (f *ConditionNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewConditionNode(), nil
}

// ID returns the node type this factory serves.
func (f *ConditionNodeFactory) ID() string {
	return models.NodeTypeCondition
}

// Name returns the factory name.
func (f *ConditionNodeFactory) Name() string {
	return "Condition"
}

// Description returns the factory description.
func (f *ConditionNodeFactory) Description() string {
	return "Evaluates a comparison expression against the execution context"
}

// Schema returns the JSON schema for condition node configuration.
func (f *ConditionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Comparison of the form 'variable OP literal' with OP in ==, !=, >, <, >=, <=",
				"examples":    []string{"score >= 50", "status == 'active'", "{count} != 0"},
			},
		},
		"required": []string{"expression"},
	}
}
