package condition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func executeCondition(t *testing.T, expression string, contextValues map[string]any) (map[string]any, error) {
	t.Helper()

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	for k, v := range contextValues {
		execution.Context[k] = v
	}

	node := &models.Node{
		ID:         "check",
		Type:       models.NodeTypeCondition,
		Parameters: map[string]any{"expression": expression},
	}

	return NewConditionNode().Execute(context.Background(), execution, node)
}

func TestConditionNode_Execute(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		context    map[string]any
		expected   bool
	}{
		{
			name:       "numeric greater or equal true",
			expression: "score >= 50",
			context:    map[string]any{"score": float64(75)},
			expected:   true,
		},
		{
			name:       "numeric greater or equal false",
			expression: "score >= 50",
			context:    map[string]any{"score": float64(40)},
			expected:   false,
		},
		{
			name:       "string equality",
			expression: "status == 'active'",
			context:    map[string]any{"status": "active"},
			expected:   true,
		},
		{
			name:       "string inequality",
			expression: "status != 'active'",
			context:    map[string]any{"status": "draft"},
			expected:   true,
		},
		{
			name:       "placeholder substitution",
			expression: "{count} > 3",
			context:    map[string]any{"count": 5},
			expected:   true,
		},
		{
			name:       "numeric coercion from string",
			expression: "score < 100",
			context:    map[string]any{"score": "75"},
			expected:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := executeCondition(t, tc.expression, tc.context)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, result["result"])
			assert.Equal(t, tc.expression, result["expression"])
		})
	}
}

func TestConditionNode_Execute_Malformed(t *testing.T) {
	_, err := executeCondition(t, "score is high", map[string]any{"score": 75})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no comparison operator")
}

func TestConditionNode_Execute_NonNumericOrdering(t *testing.T) {
	_, err := executeCondition(t, "status > 'active'", map[string]any{"status": "draft"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric operands")
}

func TestConditionNode_Execute_MissingExpression(t *testing.T) {
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{ID: "check", Type: models.NodeTypeCondition}

	_, err := NewConditionNode().Execute(context.Background(), execution, node)
	require.Error(t, err)
}
