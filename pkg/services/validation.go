package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/dag"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// WorkflowValidator checks definitions on three levels: struct tags, the
// definition JSON schema, and graph structure (unique ids, resolvable edge
// references, acyclicity).
type WorkflowValidator struct {
	validate *validator.Validate
	schema   *gojsonschema.Schema
}

// NewWorkflowValidator compiles the definition schema once.
func NewWorkflowValidator() (*WorkflowValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(models.DefinitionSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile definition schema: %w", err)
	}

	return &WorkflowValidator{
		validate: validator.New(),
		schema:   schema,
	}, nil
}

// Validate collects every violation rather than stopping at the first. A
// non-nil error wraps ErrWorkflowInvalid and carries the violation list.
func (v *WorkflowValidator) Validate(definition *models.WorkflowDefinition) error {
	if definition == nil {
		return NewValidationError("Validate", "WORKFLOW_NIL", "workflow cannot be nil", ErrWorkflowNil)
	}

	violations := make([]string, 0)
	violations = append(violations, v.structViolations(definition)...)
	violations = append(violations, v.schemaViolations(definition)...)
	violations = append(violations, graphViolations(definition)...)

	if len(violations) == 0 {
		return nil
	}

	return &ServiceError{
		Op:         "Validate",
		Code:       "WORKFLOW_INVALID",
		Message:    fmt.Sprintf("workflow definition has %d violation(s)", len(violations)),
		Violations: violations,
		Err:        ErrWorkflowInvalid,
	}
}

func (v *WorkflowValidator) structViolations(definition *models.WorkflowDefinition) []string {
	err := v.validate.Struct(definition)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		violations = append(violations,
			fmt.Sprintf("field '%s' fails rule '%s'", fieldError.Namespace(), fieldError.Tag()))
	}

	return violations
}

func (v *WorkflowValidator) schemaViolations(definition *models.WorkflowDefinition) []string {
	document, err := json.Marshal(definition)
	if err != nil {
		return []string{"definition is not JSON-serializable: " + err.Error()}
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return []string{"schema validation failed: " + err.Error()}
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, schemaError := range result.Errors() {
		violations = append(violations, schemaError.String())
	}

	return violations
}

func graphViolations(definition *models.WorkflowDefinition) []string {
	violations := make([]string, 0)

	seen := make(map[string]struct{}, len(definition.Nodes))

	for _, node := range definition.Nodes {
		if _, dup := seen[node.ID]; dup {
			violations = append(violations, fmt.Sprintf("duplicate node id '%s'", node.ID))
		}

		seen[node.ID] = struct{}{}

		if !models.IsKnownNodeType(node.Type) {
			violations = append(violations, fmt.Sprintf("node '%s' has unknown type '%s'", node.ID, node.Type))
		}
	}

	for _, edge := range definition.Edges {
		if _, ok := seen[edge.Source]; !ok {
			violations = append(violations, fmt.Sprintf("edge '%s' references unknown source '%s'", edge.ID, edge.Source))
		}

		if _, ok := seen[edge.Target]; !ok {
			violations = append(violations, fmt.Sprintf("edge '%s' references unknown target '%s'", edge.ID, edge.Target))
		}
	}

	// Cycle detection only makes sense once every edge resolves.
	if len(violations) == 0 {
		if _, err := dag.Build(definition.Nodes, definition.Edges); err != nil {
			violations = append(violations, err.Error())
		}
	}

	return violations
}
