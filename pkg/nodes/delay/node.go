// Package delay suspends execution for a configured duration.
package delay

import (
	"context"
	"time"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

const DefaultDelayMs = 1000

// DelayNode sleeps for parameters.delay milliseconds, honoring context
// cancellation.
type DelayNode struct{}

// NewDelayNode creates a new delay node handler.
func NewDelayNode() *DelayNode {
	return &DelayNode{}
}

// Execute waits for the configured delay or until the context is done.
func (n *DelayNode) Execute(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	params := template.ResolveParameters(node.Parameters, execution.Context)

	delayMs := DefaultDelayMs

	switch v := params["delay"].(type) {
	case float64:
		delayMs = int(v)
	case int:
		delayMs = v
	case string:
		if parsed, err := time.ParseDuration(v + "ms"); err == nil {
			delayMs = int(parsed.Milliseconds())
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Duration(delayMs) * time.Millisecond):
	}

	return map[string]any{
		"status":  "completed",
		"delayMs": delayMs,
	}, nil
}
