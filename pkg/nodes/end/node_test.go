package end

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func TestEndNode_Execute_CollectsResults(t *testing.T) {
	node := NewEndNode()
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.NodeResults["fetch"] = map[string]any{"status": "ok"}
	execution.NodeResults["transform"] = map[string]any{"value": 42}
	execution.NodeResults["finish"] = map[string]any{"status": "completed"}

	result, err := node.Execute(context.Background(), execution, &models.Node{ID: "finish", Type: models.NodeTypeEnd})
	require.NoError(t, err)

	assert.Equal(t, 2, result["collected"])
	assert.Contains(t, execution.Outputs, "fetch")
	assert.Contains(t, execution.Outputs, "transform")
	assert.NotContains(t, execution.Outputs, "finish")
}

func TestEndNode_Execute_EmptyRun(t *testing.T) {
	node := NewEndNode()
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)

	result, err := node.Execute(context.Background(), execution, &models.Node{ID: "finish", Type: models.NodeTypeEnd})
	require.NoError(t, err)

	assert.Equal(t, 0, result["collected"])
	assert.Empty(t, execution.Outputs)
}
