package operation

import (
	"context"
	"sort"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// OperationNodeFactory creates OperationNode instances sharing the
// integration collaborators.
type OperationNodeFactory struct {
	integrator protocol.SoftwareIntegrator
	scripts    protocol.ScriptRunner
}

// NewOperationNodeFactory creates a new factory around the collaborators.
func NewOperationNodeFactory(integrator protocol.SoftwareIntegrator, scripts protocol.ScriptRunner) protocol.NodeFactory {
	return &OperationNodeFactory{
		integrator: integrator,
		scripts:    scripts,
	}
}

// Create creates a new OperationNode instance.
func (f *OperationNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewOperationNode(f.integrator, f.scripts), nil
}

// ID returns the node type this factory serves.
func (f *OperationNodeFactory) ID() string {
	return models.NodeTypeOperation
}

// Name returns the factory name.
func (f *OperationNodeFactory) Name() string {
	return "Operation"
}

// Description returns the factory description.
func (f *OperationNodeFactory) Description() string {
	return "Delegates to software integration, script execution or a built-in action"
}

// Schema returns the JSON schema for operation node configuration.
func (f *OperationNodeFactory) Schema() map[string]any {
	names := make([]string, 0, len(builtinActions))
	for name := range builtinActions {
		names = append(names, name)
	}

	sort.Strings(names)

	actions := make([]any, 0, len(names))
	for _, name := range names {
		actions = append(actions, name)
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        actions,
				"description": "Built-in action, used when neither software_id nor script_id is set",
			},
		},
	}
}
