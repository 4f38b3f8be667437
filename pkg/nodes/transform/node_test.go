package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func TestTransformNode_Execute_Assignment(t *testing.T) {
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.Context["name"] = "aiflow"

	node := &models.Node{
		ID:         "rename",
		Type:       models.NodeTypeTransform,
		Parameters: map[string]any{"expression": "greeting = hello {name}"},
	}

	result, err := NewTransformNode(nil).Execute(context.Background(), execution, node)
	require.NoError(t, err)

	assert.Equal(t, "greeting", result["target"])
	assert.Equal(t, "hello aiflow", result["value"])
	assert.Equal(t, "hello aiflow", execution.Context["greeting"])
}

func TestTransformNode_Execute_SinglePlaceholderKeepsType(t *testing.T) {
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.Context["price"] = float64(9.5)

	node := &models.Node{
		ID:         "copy",
		Type:       models.NodeTypeTransform,
		Parameters: map[string]any{"expression": "total = {price}"},
	}

	_, err := NewTransformNode(nil).Execute(context.Background(), execution, node)
	require.NoError(t, err)

	assert.Equal(t, float64(9.5), execution.Context["total"])
}

func TestTransformNode_Execute_InjectedFunction(t *testing.T) {
	funcs := map[string]TransformFunc{
		"double": func(ctx map[string]any) (any, error) {
			value, _ := ctx["count"].(float64)

			return value * 2, nil
		},
	}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	execution.Context["count"] = float64(21)

	node := &models.Node{
		ID:     "compute",
		Type:   models.NodeTypeTransform,
		Config: map[string]any{"function": "double", "target": "result"},
	}

	result, err := NewTransformNode(funcs).Execute(context.Background(), execution, node)
	require.NoError(t, err)

	assert.Equal(t, float64(42), result["value"])
	assert.Equal(t, float64(42), execution.Context["result"])
}

func TestTransformNode_Execute_FunctionError(t *testing.T) {
	funcs := map[string]TransformFunc{
		"boom": func(map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	}

	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)
	node := &models.Node{
		ID:     "compute",
		Type:   models.NodeTypeTransform,
		Config: map[string]any{"function": "boom"},
	}

	_, err := NewTransformNode(funcs).Execute(context.Background(), execution, node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTransformNode_Execute_Malformed(t *testing.T) {
	execution := models.NewExecution("wf-1", 1, "user-1", models.ExecutionModeManual, nil)

	tests := []struct {
		name       string
		parameters map[string]any
	}{
		{name: "missing expression", parameters: nil},
		{name: "no assignment", parameters: map[string]any{"expression": "just a value"}},
		{name: "empty target", parameters: map[string]any{"expression": "= {name}"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node := &models.Node{ID: "bad", Type: models.NodeTypeTransform, Parameters: tc.parameters}

			_, err := NewTransformNode(nil).Execute(context.Background(), execution, node)
			require.Error(t, err)
		})
	}
}
