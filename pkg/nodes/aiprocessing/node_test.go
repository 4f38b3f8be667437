package aiprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

type stubProvider struct {
	lastRequest protocol.AIRequest
	result      *protocol.AIResult
	err         error
}

func (s *stubProvider) Chat(_ context.Context, req protocol.AIRequest) (*protocol.AIResult, error) {
	s.lastRequest = req

	if s.err != nil {
		return nil, s.err
	}

	return s.result, nil
}

func TestAIProcessingNode_Execute(t *testing.T) {
	provider := &stubProvider{
		result: &protocol.AIResult{Message: "hi", Model: "gpt-4o-mini", TokensUsed: 10, Cost: 0.01},
	}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.Context["topic"] = "workflows"

	node := &models.Node{
		ID:         "ai",
		Type:       models.NodeTypeAIProcessing,
		Parameters: map[string]any{"prompt": "write about {topic}"},
		Config:     map[string]any{"maxTokens": float64(256), "temperature": 0.2},
	}

	result, err := NewAIProcessingNode(provider).Execute(context.Background(), execution, node)
	require.NoError(t, err)

	assert.Equal(t, "write about workflows", provider.lastRequest.Prompt)
	assert.Equal(t, 256, provider.lastRequest.MaxTokens)
	assert.InDelta(t, 0.2, provider.lastRequest.Temperature, 0.001)

	assert.Equal(t, "hi", result["response"])
	assert.Equal(t, 10, result["tokensUsed"])
	assert.Equal(t, 10, execution.Metrics.TokensUsed)
	assert.InDelta(t, 0.01, execution.Metrics.CostEstimate, 0.0001)
}

func TestAIProcessingNode_Execute_AccumulatesUsage(t *testing.T) {
	provider := &stubProvider{
		result: &protocol.AIResult{Message: "ok", TokensUsed: 5, Cost: 0.002},
	}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{
		ID:         "ai",
		Type:       models.NodeTypeAIProcessing,
		Parameters: map[string]any{"prompt": "hello"},
	}

	handler := NewAIProcessingNode(provider)

	for range 3 {
		_, err := handler.Execute(context.Background(), execution, node)
		require.NoError(t, err)
	}

	assert.Equal(t, 15, execution.Metrics.TokensUsed)
	assert.InDelta(t, 0.006, execution.Metrics.CostEstimate, 0.0001)
}

func TestAIProcessingNode_Execute_ProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{
		ID:         "ai",
		Type:       models.NodeTypeAIProcessing,
		Parameters: map[string]any{"prompt": "hello"},
	}

	_, err := NewAIProcessingNode(provider).Execute(context.Background(), execution, node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Zero(t, execution.Metrics.TokensUsed)
}

func TestAIProcessingNode_Execute_MissingPrompt(t *testing.T) {
	provider := &stubProvider{result: &protocol.AIResult{}}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{ID: "ai", Type: models.NodeTypeAIProcessing}

	_, err := NewAIProcessingNode(provider).Execute(context.Background(), execution, node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt")
}
