package validation

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// ValidationNodeFactory creates ValidationNode instances.
type ValidationNodeFactory struct{}

// NewValidationNodeFactory creates a new factory instance.
func NewValidationNodeFactory() protocol.NodeFactory {
	return &ValidationNodeFactory{}
}

// Create creates a new ValidationNode instance.
func (f *ValidationNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewValidationNode(), nil
}

// ID returns the node type this factory serves.
func (f *ValidationNodeFactory) ID() string {
	return models.NodeTypeValidation
}

// Name returns the factory name.
func (f *ValidationNodeFactory) Name() string {
	return "Validation"
}

// Description returns the factory description.
func (f *ValidationNodeFactory) Description() string {
	return "Validates execution context fields against declarative rules"
}

// Schema returns the JSON schema for validation node configuration.
func (f *ValidationNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rules": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"field"},
					"properties": map[string]any{
						"field":    map[string]any{"type": "string"},
						"required": map[string]any{"type": "boolean"},
						"type":     map[string]any{"type": "string", "enum": []any{"string", "number"}},
						"min":      map[string]any{"type": "number"},
						"max":      map[string]any{"type": "number"},
						"options":  map[string]any{"type": "array"},
					},
				},
			},
		},
		"required": []string{"rules"},
	}
}
