package transform

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// TransformNodeFactory creates TransformNode instances. Injected functions
// are registered at construction time; JSON definitions reference them by
// name through config.function.
type TransformNodeFactory struct {
	funcs map[string]TransformFunc
}

// NewTransformNodeFactory creates a factory without injected functions.
func NewTransformNodeFactory() protocol.NodeFactory {
	return &TransformNodeFactory{funcs: make(map[string]TransformFunc)}
}

// NewTransformNodeFactoryWithFuncs creates a factory exposing the given
// named functions.
func NewTransformNodeFactoryWithFuncs(funcs map[string]TransformFunc) protocol.NodeFactory {
	if funcs == nil {
		funcs = make(map[string]TransformFunc)
	}

	return &TransformNodeFactory{funcs: funcs}
}

// Create creates a new TransformNode instance.
func (f *TransformNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewTransformNode(f.funcs), nil
}

// ID returns the node type this factory serves.
func (f *TransformNodeFactory) ID() string {
	return models.NodeTypeTransform
}

// Name returns the factory name.
func (f *TransformNodeFactory) Name() string {
	return "Transform"
}

// Description returns the factory description.
func (f *TransformNodeFactory) Description() string {
	return "Assigns a derived value to an execution context key"
}

// Schema returns the JSON schema for transform node configuration.
func (f *TransformNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Assignment of the form 'target = expression'; {var} placeholders resolve against the context",
				"examples":    []string{"greeting = hello {name}", "total = {price}"},
			},
			"function": map[string]any{
				"type":        "string",
				"description": "Name of an injected transform function registered on the factory",
			},
			"target": map[string]any{
				"type":        "string",
				"description": "Context key assigned by an injected function (defaults to the function name)",
			},
		},
	}
}
