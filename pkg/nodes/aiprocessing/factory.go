package aiprocessing

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// AIProcessingNodeFactory creates AIProcessingNode instances sharing one
// provider.
type AIProcessingNodeFactory struct {
	provider protocol.AIProvider
}

// NewAIProcessingNodeFactory creates a new factory around a provider.
func NewAIProcessingNodeFactory(provider protocol.AIProvider) protocol.NodeFactory {
	return &AIProcessingNodeFactory{provider: provider}
}

// Create creates a new AIProcessingNode instance.
func (f *AIProcessingNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewAIProcessingNode(f.provider), nil
}

// ID returns the node type this factory serves.
func (f *AIProcessingNodeFactory) ID() string {
	return models.NodeTypeAIProcessing
}

// Name returns the factory name.
func (f *AIProcessingNodeFactory) Name() string {
	return "AI Processing"
}

// Description returns the factory description.
func (f *AIProcessingNodeFactory) Description() string {
	return "Runs a prompt against the AI inference provider and records token usage"
}

// Schema returns the JSON schema for ai_processing node configuration.
func (f *AIProcessingNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Prompt template; {var} placeholders resolve against the context",
			},
			"model": map[string]any{
				"type":        "string",
				"description": "Model override; the provider default is used when empty",
			},
			"maxTokens": map[string]any{
				"type":    "integer",
				"default": DefaultMaxTokens,
				"minimum": 1,
			},
			"temperature": map[string]any{
				"type":    "number",
				"default": DefaultTemperature,
				"minimum": 0,
				"maximum": 2,
			},
		},
		"required": []string{"prompt"},
	}
}
