package loop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func executeLoop(t *testing.T, config map[string]any, items []any) (*models.Execution, map[string]any, error) {
	t.Helper()

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.Context["items"] = items

	node := &models.Node{
		ID:     "iterate",
		Type:   models.NodeTypeLoop,
		Config: config,
	}

	result, err := NewLoopNode().Execute(context.Background(), execution, node)

	return execution, result, err
}

func TestLoopNode_Execute_CollectsPairs(t *testing.T) {
	_, result, err := executeLoop(t, map[string]any{"maxIterations": float64(10)}, []any{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result["iterations"])

	pairs, ok := result["results"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, pairs, 3)
	assert.Equal(t, 0, pairs[0]["index"])
	assert.Equal(t, 1, pairs[0]["value"])
	assert.Equal(t, 2, pairs[2]["index"])
	assert.Equal(t, 3, pairs[2]["value"])
}

func TestLoopNode_Execute_ExceedsMaxIterations(t *testing.T) {
	_, _, err := executeLoop(t, map[string]any{"maxIterations": float64(2)}, []any{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestLoopNode_Execute_BindsLoopVariable(t *testing.T) {
	execution, _, err := executeLoop(t, map[string]any{"variable": "current"}, []any{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "b", execution.Context["current"])
	assert.Equal(t, 1, execution.Context["currentIndex"])
}

func TestLoopNode_Execute_MissingArray(t *testing.T) {
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{ID: "iterate", Type: models.NodeTypeLoop, Config: map[string]any{"items": "records"}}

	_, err := NewLoopNode().Execute(context.Background(), execution, node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records")
}
