package delay

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// DelayNodeFactory creates DelayNode instances.
type DelayNodeFactory struct{}

// NewDelayNodeFactory creates a new factory instance.
func NewDelayNodeFactory() protocol.NodeFactory {
	return &DelayNodeFactory{}
}

// Create creates a new DelayNode instance.
func (f *DelayNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewDelayNode(), nil
}

// ID returns the node type this factory serves.
func (f *DelayNodeFactory) ID() string {
	return models.NodeTypeDelay
}

// Name returns the factory name.
func (f *DelayNodeFactory) Name() string {
	return "Delay"
}

// Description returns the factory description.
func (f *DelayNodeFactory) Description() string {
	return "Suspends the run for a configured number of milliseconds"
}

// Schema returns the JSON schema for delay node configuration.
func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"delay": map[string]any{
				"type":        "integer",
				"description": "Delay in milliseconds",
				"default":     DefaultDelayMs,
				"minimum":     0,
			},
		},
	}
}
