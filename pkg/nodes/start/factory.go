package start

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// StartNodeFactory creates StartNode instances.
type StartNodeFactory struct{}

// NewStartNodeFactory creates a new factory instance.
func NewStartNodeFactory() protocol.NodeFactory {
	return &StartNodeFactory{}
}

// Create creates a new StartNode instance.
func (f *StartNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewStartNode(), nil
}

// ID returns the node type this factory serves.
func (f *StartNodeFactory) ID() string {
	return models.NodeTypeStart
}

// Name returns the factory name.
func (f *StartNodeFactory) Name() string {
	return "Start"
}

// Description returns the factory description.
func (f *StartNodeFactory) Description() string {
	return "Marks the entry point of a workflow"
}

// Schema returns the JSON schema for start node configuration.
func (f *StartNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
