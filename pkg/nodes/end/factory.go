package end

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// EndNodeFactory creates EndNode instances.
type EndNodeFactory struct{}

// NewEndNodeFactory creates a new factory instance.
func NewEndNodeFactory() protocol.NodeFactory {
	return &EndNodeFactory{}
}

// Create creates a new EndNode instance.
func (f *EndNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewEndNode(), nil
}

// ID returns the node type this factory serves.
func (f *EndNodeFactory) ID() string {
	return models.NodeTypeEnd
}

// Name returns the factory name.
func (f *EndNodeFactory) Name() string {
	return "End"
}

// Description returns the factory description.
func (f *EndNodeFactory) Description() string {
	return "Collects all node results into the workflow outputs"
}

// Schema returns the JSON schema for end node configuration.
func (f *EndNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
