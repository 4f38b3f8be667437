// Package validation checks execution context fields against declarative
// rules. Every violated rule is collected before failing.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

// ValidationNode validates context fields against a rule list.
type ValidationNode struct{}

// NewValidationNode creates a new validation node handler.
func NewValidationNode() *ValidationNode {
	return &ValidationNode{}
}

// Execute applies every rule and aggregates violations. Supported rule keys:
// field, required, type (string|number), min, max, options.
func (n *ValidationNode) Execute(_ context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	rules, err := rulesOf(node)
	if err != nil {
		return nil, err
	}

	violations := make([]string, 0)
	validated := 0

	for _, rule := range rules {
		field, _ := rule["field"].(string)
		if field == "" {
			violations = append(violations, "rule is missing a field name")

			continue
		}

		before := len(violations)
		value, exists := execution.Context[field]

		if !exists {
			if required, _ := rule["required"].(bool); required {
				violations = append(violations, fmt.Sprintf("field '%s' is required", field))
			}

			continue
		}

		violations = append(violations, checkRule(field, value, rule)...)

		if len(violations) == before {
			validated++
		}
	}

	if len(violations) > 0 {
		return nil, models.NewValidationError(node.ID, violations)
	}

	return map[string]any{
		"validatedFields": validated,
	}, nil
}

func rulesOf(node *models.Node) ([]map[string]any, error) {
	raw, ok := node.Config["rules"].([]any)
	if !ok {
		return nil, errors.New("validation node requires a 'rules' list in config")
	}

	rules := make([]map[string]any, 0, len(raw))

	for _, item := range raw {
		rule, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New("validation rules must be objects")
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func checkRule(field string, value any, rule map[string]any) []string {
	var violations []string

	wantType, _ := rule["type"].(string)
	number, isNumber := toNumber(value)

	switch wantType {
	case "string":
		if _, ok := value.(string); !ok {
			violations = append(violations, fmt.Sprintf("field '%s' must be a string", field))

			return violations
		}
	case "number":
		if !isNumber {
			violations = append(violations, fmt.Sprintf("field '%s' must be a number", field))

			return violations
		}
	}

	if minimum, ok := toNumber(rule["min"]); ok && isNumber && number < minimum {
		violations = append(violations, fmt.Sprintf("field '%s' must be at least %v", field, rule["min"]))
	}

	if maximum, ok := toNumber(rule["max"]); ok && isNumber && number > maximum {
		violations = append(violations, fmt.Sprintf("field '%s' must be at most %v", field, rule["max"]))
	}

	if options, ok := rule["options"].([]any); ok {
		if !contains(options, value) {
			violations = append(violations, fmt.Sprintf("field '%s' must be one of the allowed options", field))
		}
	}

	return violations
}

func contains(options []any, value any) bool {
	rendered := template.Stringify(value)
	for _, option := range options {
		if template.Stringify(option) == rendered {
			return true
		}
	}

	return false
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(v, 64)

		return number, err == nil
	default:
		return 0, false
	}
}
