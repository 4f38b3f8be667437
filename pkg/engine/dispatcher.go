package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/dag"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/events"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// runNodes walks the topological order once, dispatching each node to its
// typed handler. A failure on a node without continueOnFail aborts the walk;
// an absorbed failure is recorded and the walk proceeds.
func (e *Engine) runNodes(ctx context.Context, definition *models.WorkflowDefinition, graph *dag.Graph, execution *models.Execution) error {
	logger := e.logger.With("workflow_id", definition.ID, "execution_id", execution.ID)

	for _, nodeID := range graph.Order {
		node := definition.NodeByID(nodeID)
		if node == nil {
			return models.NewDefinitionError(definition.ID,
				fmt.Sprintf("node '%s' from the execution order is missing", nodeID), nil)
		}

		if execution.HasCompleted(nodeID) {
			continue
		}

		// The topological order already guarantees predecessors ran;
		// this guard only matters for records resumed mid-flight.
		if !e.predecessorsSatisfied(graph, execution, nodeID) {
			logger.DebugContext(ctx, "skipping node with unsatisfied predecessors", "node_id", nodeID)

			continue
		}

		execution.CurrentNode = nodeID
		execution.AppendNodeLog(models.LogLevelInfo, fmt.Sprintf("node '%s' (%s) started", nodeID, node.Type), nodeID)
		logger.InfoContext(ctx, "executing node", "node_id", nodeID, "node_type", node.Type)

		started := time.Now()
		result, err := e.executeNode(ctx, execution, node)
		elapsed := time.Since(started)

		execution.RecordNodeExecution(elapsed)

		if err != nil {
			execution.FailedNodes = append(execution.FailedNodes, nodeID)
			execution.Error = err.Error()
			execution.AppendNodeLog(models.LogLevelError, fmt.Sprintf("node '%s' failed: %v", nodeID, err), nodeID)
			logger.ErrorContext(ctx, "node execution failed", "node_id", nodeID, "error", err)

			e.publish(ctx, definition.ID, events.NodeFailed{
				BaseEvent:      e.baseEvent(events.NodeFailedEvent, definition.ID),
				ExecutionID:    execution.ID,
				NodeID:         nodeID,
				NodeType:       node.Type,
				Error:          err.Error(),
				ContinueOnFail: node.ContinueOnFail,
				DurationMs:     elapsed.Milliseconds(),
			})
			e.persistProgress(ctx, execution)

			// Definition errors are fatal regardless of the node policy.
			if models.IsDefinitionError(err) || !node.ContinueOnFail {
				return err
			}

			continue
		}

		execution.NodeResults[nodeID] = result
		execution.Context[nodeID] = result
		execution.CompletedNodes = append(execution.CompletedNodes, nodeID)
		execution.CurrentNode = ""
		execution.AppendNodeLog(models.LogLevelInfo,
			fmt.Sprintf("node '%s' completed in %dms", nodeID, elapsed.Milliseconds()), nodeID)

		e.publish(ctx, definition.ID, events.NodeFinished{
			BaseEvent:   e.baseEvent(events.NodeFinishedEvent, definition.ID),
			ExecutionID: execution.ID,
			NodeID:      nodeID,
			NodeType:    node.Type,
			Result:      result,
			DurationMs:  elapsed.Milliseconds(),
		})
		e.persistProgress(ctx, execution)
	}

	return nil
}

// executeNode resolves the handler for the node type and invokes it,
// normalizing untyped handler errors into NodeExecutionError.
func (e *Engine) executeNode(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	handler, err := e.registry.CreateNode(ctx, node.Type)
	if err != nil {
		return nil, err
	}

	result, err := handler.Execute(ctx, execution, node)
	if err != nil {
		if models.IsDefinitionError(err) || models.IsValidationError(err) || models.IsNodeExecutionError(err) {
			return nil, err
		}

		return nil, models.NewNodeExecutionError(node.ID, node.Type, err)
	}

	if result == nil {
		result = map[string]any{}
	}

	return result, nil
}

func (e *Engine) predecessorsSatisfied(graph *dag.Graph, execution *models.Execution, nodeID string) bool {
	for _, predecessor := range graph.Predecessors[nodeID] {
		if !execution.HasCompleted(predecessor) {
			return false
		}
	}

	return true
}
