// Package transform writes derived values into the execution context,
// either through a "target = expression" assignment or a named injected
// function for programmatic callers.
package transform

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

// TransformFunc is an injected transformation: it reads the live context and
// returns the value to assign.
type TransformFunc func(context map[string]any) (any, error)

// A right-hand side that is exactly one placeholder assigns the context
// value itself, preserving its type.
var singlePlaceholder = regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// TransformNode assigns one context key per execution.
type TransformNode struct {
	funcs map[string]TransformFunc
}

// NewTransformNode creates a transform handler with the given injected
// functions (may be nil).
func NewTransformNode(funcs map[string]TransformFunc) *TransformNode {
	return &TransformNode{funcs: funcs}
}

// Execute runs either the named injected function from config.function or
// the "target = expression" assignment from parameters.expression.
func (n *TransformNode) Execute(_ context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	if name, ok := node.ConfigString("function"); ok && name != "" {
		return n.executeFunction(execution, node, name)
	}

	expression, ok := node.Parameters["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("transform node requires an 'expression' parameter or a 'function' config")
	}

	target, rhs, found := strings.Cut(expression, "=")
	if !found {
		return nil, fmt.Errorf("expression '%s' is not of the form 'target = expression'", expression)
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("expression '%s' has an empty assignment target", expression)
	}

	rhs = strings.TrimSpace(rhs)

	var value any
	if match := singlePlaceholder.FindStringSubmatch(rhs); match != nil {
		if contextValue, exists := execution.Context[match[1]]; exists {
			value = contextValue
		} else {
			value = rhs
		}
	} else {
		value = template.ResolveString(rhs, execution.Context)
	}

	execution.Context[target] = value

	return map[string]any{
		"target": target,
		"value":  value,
	}, nil
}

func (n *TransformNode) executeFunction(execution *models.Execution, node *models.Node, name string) (map[string]any, error) {
	fn, ok := n.funcs[name]
	if !ok {
		return nil, fmt.Errorf("transform function '%s' not registered", name)
	}

	value, err := fn(execution.Context)
	if err != nil {
		return nil, fmt.Errorf("transform function '%s': %w", name, err)
	}

	target, ok := node.ConfigString("target")
	if !ok || target == "" {
		target = name
	}

	execution.Context[target] = value

	return map[string]any{
		"target": target,
		"value":  value,
	}, nil
}
