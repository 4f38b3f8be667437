package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecution(t *testing.T) {
	exec := NewExecution("wf-1", 3, "user-1", ExecutionModeManual, map[string]any{"a": 1})

	assert.True(t, strings.HasPrefix(exec.ID, "exec-"))
	assert.Len(t, exec.ID, len("exec-")+8)
	assert.Equal(t, "wf-1", exec.WorkflowID)
	assert.Equal(t, 3, exec.WorkflowVersion)
	assert.Equal(t, "user-1", exec.UserID)
	assert.Equal(t, ExecutionStatusPending, exec.Status)
	assert.Equal(t, ExecutionModeManual, exec.Mode)
	assert.Empty(t, exec.CompletedNodes)
	assert.Empty(t, exec.FailedNodes)
	assert.NotNil(t, exec.NodeResults)
	assert.NotNil(t, exec.Context)
}

func TestExecution_SeedContext(t *testing.T) {
	definition := &WorkflowDefinition{
		ID:       "wf-1",
		Name:     "Render pipeline",
		Category: "design",
		Variables: map[string]any{
			"quality": "high",
			"size":    1024,
		},
		Nodes: []*Node{
			{ID: "a", Type: NodeTypeStart},
			{ID: "b", Type: NodeTypeEnd},
		},
	}

	exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, map[string]any{
		"size":   2048,
		"format": "png",
	})
	exec.SeedContext(definition)

	assert.Equal(t, "high", exec.Context["quality"])
	assert.Equal(t, 2048, exec.Context["size"], "caller inputs override workflow variables")
	assert.Equal(t, "png", exec.Context["format"])
	assert.Equal(t, 2, exec.TotalNodes)

	wf, ok := exec.Context["workflow"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "wf-1", wf["id"])
	assert.Equal(t, "Render pipeline", wf["name"])
	assert.Equal(t, "design", wf["category"])

	ts, ok := exec.Context["timestamp"].(string)
	require.True(t, ok)

	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestExecution_RecordNodeExecution(t *testing.T) {
	exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, nil)

	exec.RecordNodeExecution(100 * time.Millisecond)
	exec.RecordNodeExecution(300 * time.Millisecond)

	assert.Equal(t, 2, exec.Metrics.NodeExecutions)
	assert.InDelta(t, 200.0, exec.Metrics.AverageNodeTime, 0.001)
}

func TestExecution_Progress(t *testing.T) {
	exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, nil)

	assert.InDelta(t, 0.0, exec.Progress(), 0.001, "zero slots must not divide by zero")

	exec.TotalNodes = 4
	exec.CompletedNodes = []string{"a", "b"}

	assert.InDelta(t, 0.5, exec.Progress(), 0.001)
}

func TestExecution_Finalize(t *testing.T) {
	t.Run("no failed nodes completes", func(t *testing.T) {
		exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, nil)
		exec.Status = ExecutionStatusRunning
		exec.CurrentNode = "b"

		exec.Finalize()

		assert.Equal(t, ExecutionStatusCompleted, exec.Status)
		require.NotNil(t, exec.EndTime)
		assert.Empty(t, exec.CurrentNode)
		assert.GreaterOrEqual(t, exec.Metrics.TotalDuration, int64(0))
	})

	t.Run("any failed node fails the run", func(t *testing.T) {
		exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, nil)
		exec.Status = ExecutionStatusRunning
		exec.FailedNodes = []string{"b"}
		exec.CompletedNodes = []string{"a", "c"}

		exec.Finalize()

		assert.Equal(t, ExecutionStatusFailed, exec.Status)
	})
}

func TestExecution_Logs(t *testing.T) {
	exec := NewExecution("wf-1", 1, "user-1", ExecutionModeManual, nil)

	exec.AppendLog(LogLevelInfo, "starting")
	exec.AppendNodeLog(LogLevelError, "boom", "node-1")

	require.Len(t, exec.Logs, 2)
	assert.Equal(t, LogLevelInfo, exec.Logs[0].Level)
	assert.Empty(t, exec.Logs[0].NodeID)
	assert.Equal(t, "node-1", exec.Logs[1].NodeID)
	assert.Equal(t, "boom", exec.Logs[1].Message)
}

func TestIsKnownNodeType(t *testing.T) {
	for _, nodeType := range []string{
		"start", "end", "webhook", "http_request", "schedule", "operation",
		"validation", "ai_processing", "condition", "loop", "transform",
		"merge", "split", "delay", "email", "webhook_response",
		"code_execution", "database_query", "file_operation", "api_call",
		"ai_design_concept", "ai_design_layout", "ai_design_color",
		"ai_design_typography", "ai_design_mockup", "ai_design_enhance",
	} {
		assert.True(t, IsKnownNodeType(nodeType), nodeType)
	}

	assert.False(t, IsKnownNodeType("foo"))
	assert.Len(t, KnownNodeTypes(), 26)
}

func TestNode_ConfigHelpers(t *testing.T) {
	node := &Node{
		ID:   "n1",
		Type: NodeTypeLoop,
		Config: map[string]any{
			"variable":      "item",
			"maxIterations": float64(50),
			"temperature":   0.2,
		},
	}

	v, ok := node.ConfigString("variable")
	assert.True(t, ok)
	assert.Equal(t, "item", v)

	_, ok = node.ConfigString("missing")
	assert.False(t, ok)

	assert.Equal(t, 50, node.ConfigInt("maxIterations", 100))
	assert.Equal(t, 100, node.ConfigInt("missing", 100))
	assert.InDelta(t, 0.2, node.ConfigFloat("temperature", 0.7), 0.001)
	assert.InDelta(t, 0.7, node.ConfigFloat("missing", 0.7), 0.001)
}

func TestWorkflowDefinition_Helpers(t *testing.T) {
	definition := &WorkflowDefinition{
		ID:     "wf-1",
		Status: WorkflowStatusActive,
		Nodes: []*Node{
			{ID: "a", Type: NodeTypeStart},
		},
		Settings: &WorkflowSettings{Schedule: "*/5 * * * *"},
	}

	assert.NotNil(t, definition.NodeByID("a"))
	assert.Nil(t, definition.NodeByID("zz"))
	assert.True(t, definition.IsExecutable())
	assert.True(t, definition.HasSchedule())

	definition.Status = WorkflowStatusDraft
	assert.False(t, definition.IsExecutable())
}
