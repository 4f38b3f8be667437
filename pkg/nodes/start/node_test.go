package start

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func TestStartNode_Execute(t *testing.T) {
	node := NewStartNode()
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)

	result, err := node.Execute(context.Background(), execution, &models.Node{ID: "start", Type: models.NodeTypeStart})
	require.NoError(t, err)

	assert.Equal(t, "started", result["status"])
	assert.NotEmpty(t, result["timestamp"])
}
