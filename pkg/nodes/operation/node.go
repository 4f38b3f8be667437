// Package operation is the generic delegation node: software integration,
// sandboxed script execution, or a small table of built-in actions.
package operation

import (
	"context"
	"errors"
	"fmt"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

// builtinAction is one entry in the generic action table.
type builtinAction func(params map[string]any) map[string]any

// Placeholder actions for the design pipeline; real work is delegated
// through softwareId/scriptId.
var builtinActions = map[string]builtinAction{
	"resize": func(params map[string]any) map[string]any {
		return map[string]any{
			"status": "resized",
			"width":  params["width"],
			"height": params["height"],
		}
	},
	"export": func(params map[string]any) map[string]any {
		format, _ := params["format"].(string)
		if format == "" {
			format = "png"
		}

		return map[string]any{
			"status": "exported",
			"format": format,
		}
	},
}

// OperationNode dispatches to the software integrator, the script runner or
// a built-in action, in that precedence order.
type OperationNode struct {
	integrator protocol.SoftwareIntegrator
	scripts    protocol.ScriptRunner
}

// NewOperationNode creates an operation handler around its collaborators
// (either may be nil when the deployment does not provide it).
func NewOperationNode(integrator protocol.SoftwareIntegrator, scripts protocol.ScriptRunner) *OperationNode {
	return &OperationNode{
		integrator: integrator,
		scripts:    scripts,
	}
}

// Execute resolves parameters and delegates based on the node configuration.
func (n *OperationNode) Execute(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	params := template.ResolveParameters(node.Parameters, execution.Context)

	switch {
	case node.SoftwareID != "":
		return n.integrate(ctx, node.SoftwareID)
	case node.ScriptID != "":
		return n.runScript(ctx, node.ScriptID, params)
	}

	action, ok := node.ConfigString("action")
	if !ok || action == "" {
		return nil, errors.New("operation node requires software_id, script_id or a config 'action'")
	}

	builtin, ok := builtinActions[action]
	if !ok {
		return nil, fmt.Errorf("unknown operation action '%s'", action)
	}

	return builtin(params), nil
}

func (n *OperationNode) integrate(ctx context.Context, softwareID string) (map[string]any, error) {
	if n.integrator == nil {
		return nil, errors.New("software integrator is not configured")
	}

	result, err := n.integrator.Integrate(ctx, softwareID)
	if err != nil {
		return nil, fmt.Errorf("software integration '%s' failed: %w", softwareID, err)
	}

	return map[string]any{
		"success":       result.Success,
		"installedPath": result.InstalledPath,
		"version":       result.Version,
		"steps":         result.Steps,
	}, nil
}

func (n *OperationNode) runScript(ctx context.Context, scriptID string, params map[string]any) (map[string]any, error) {
	if n.scripts == nil {
		return nil, errors.New("script runner is not configured")
	}

	result, err := n.scripts.Execute(ctx, scriptID, params)
	if err != nil {
		return nil, fmt.Errorf("script '%s' failed: %w", scriptID, err)
	}

	return map[string]any{
		"success":       result.Success,
		"output":        result.Output,
		"error":         result.Error,
		"exitCode":      result.ExitCode,
		"executionTime": result.ExecutionTime,
	}, nil
}
