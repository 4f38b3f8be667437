// Package aiprocessing invokes the AI Inference collaborator with a prompt
// resolved against the execution context. The design-family node types
// (ai_design_*) route through this handler as well.
package aiprocessing

import (
	"context"
	"errors"
	"fmt"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// AIProcessingNode calls the AI provider and folds token/cost usage into the
// run metrics.
type AIProcessingNode struct {
	provider protocol.AIProvider
}

// NewAIProcessingNode creates an AI processing handler around a provider.
func NewAIProcessingNode(provider protocol.AIProvider) *AIProcessingNode {
	return &AIProcessingNode{provider: provider}
}

// Execute resolves the prompt template, performs the inference call and
// accumulates tokensUsed/costEstimate on the execution metrics.
func (n *AIProcessingNode) Execute(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	if n.provider == nil {
		return nil, errors.New("ai provider is not configured")
	}

	params := template.ResolveParameters(node.Parameters, execution.Context)

	prompt, _ := params["prompt"].(string)
	if prompt == "" {
		return nil, errors.New("ai_processing node requires a 'prompt' parameter")
	}

	model, _ := node.ConfigString("model")

	request := protocol.AIRequest{
		Prompt:      prompt,
		Model:       model,
		MaxTokens:   node.ConfigInt("maxTokens", DefaultMaxTokens),
		Temperature: node.ConfigFloat("temperature", DefaultTemperature),
	}

	result, err := n.provider.Chat(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("ai inference failed: %w", err)
	}

	execution.Metrics.TokensUsed += result.TokensUsed
	execution.Metrics.CostEstimate += result.Cost

	return map[string]any{
		"response":   result.Message,
		"tokensUsed": result.TokensUsed,
		"cost":       result.Cost,
		"model":      result.Model,
	}, nil
}
