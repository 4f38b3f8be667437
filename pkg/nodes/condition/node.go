// Package condition evaluates comparison expressions against the execution
// context. The result is informational; the engine does not branch on it.
package condition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

// Two-character operators before their one-character prefixes.
var operators = []string{"==", "!=", ">=", "<=", ">", "<"}

// ConditionNode evaluates a single "variable OP literal" comparison.
type ConditionNode struct{}

// NewConditionNode creates a new condition node handler.
func NewConditionNode() *ConditionNode {
	return &ConditionNode{}
}

// Execute substitutes {var} placeholders, splits the expression on its
// operator and compares the two sides. Ordering operators require both sides
// to be numeric.
func (n *ConditionNode) Execute(_ context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	expression := expressionOf(node)
	if expression == "" {
		return nil, errors.New("condition node requires an 'expression' parameter")
	}

	substituted := template.ResolveString(expression, execution.Context)

	result, err := evaluate(substituted, execution.Context)
	if err != nil {
		return nil, fmt.Errorf("expression '%s': %w", expression, err)
	}

	return map[string]any{
		"result":     result,
		"expression": expression,
	}, nil
}

func expressionOf(node *models.Node) string {
	if expr, ok := node.Parameters["expression"].(string); ok {
		return expr
	}

	expr, _ := node.ConfigString("expression")

	return expr
}

func evaluate(expression string, context map[string]any) (bool, error) {
	for _, op := range operators {
		idx := strings.Index(expression, op)
		if idx < 0 {
			continue
		}

		left := resolveOperand(strings.TrimSpace(expression[:idx]), context)
		right := resolveOperand(strings.TrimSpace(expression[idx+len(op):]), context)

		return compare(left, right, op)
	}

	return false, errors.New("no comparison operator found")
}

// resolveOperand maps an operand to a value: context lookup for bare
// identifiers, then quoted-string / bool / number literals, then the raw text.
func resolveOperand(operand string, context map[string]any) any {
	if value, ok := context[operand]; ok {
		return value
	}

	if len(operand) >= 2 {
		first, last := operand[0], operand[len(operand)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return operand[1 : len(operand)-1]
		}
	}

	if operand == "true" {
		return true
	}

	if operand == "false" {
		return false
	}

	if number, err := strconv.ParseFloat(operand, 64); err == nil {
		return number
	}

	return operand
}

func compare(left, right any, op string) (bool, error) {
	leftNum, leftOK := toNumber(left)
	rightNum, rightOK := toNumber(right)

	switch op {
	case "==":
		if leftOK && rightOK {
			return leftNum == rightNum, nil
		}

		return template.Stringify(left) == template.Stringify(right), nil
	case "!=":
		if leftOK && rightOK {
			return leftNum != rightNum, nil
		}

		return template.Stringify(left) != template.Stringify(right), nil
	}

	if !leftOK || !rightOK {
		return false, fmt.Errorf("operator '%s' requires numeric operands", op)
	}

	switch op {
	case ">":
		return leftNum > rightNum, nil
	case "<":
		return leftNum < rightNum, nil
	case ">=":
		return leftNum >= rightNum, nil
	case "<=":
		return leftNum <= rightNum, nil
	default:
		return false, fmt.Errorf("unknown operator '%s'", op)
	}
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
