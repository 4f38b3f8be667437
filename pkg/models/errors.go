package models

import (
	"errors"
	"fmt"
	"strings"
)

// Standard engine error conditions, wrapped by the typed errors below.
var (
	// ErrCycleDetected indicates the definition's graph is not a DAG.
	ErrCycleDetected = errors.New("workflow graph contains a cycle")

	// ErrMalformedEdge indicates an edge references a node id that does not exist.
	ErrMalformedEdge = errors.New("edge references an unknown node")

	// ErrUnsupportedNodeType indicates the dispatcher reached a node type
	// without a registered handler.
	ErrUnsupportedNodeType = errors.New("unsupported node type")
)

// DefinitionError is fatal to a run: workflow not found, cycle detected,
// malformed edge reference, or an unsupported node type reached mid-run.
type DefinitionError struct {
	WorkflowID string // Workflow ID if applicable
	Reason     string // Human-readable reason
	Err        error  // Underlying error
}

func (e *DefinitionError) Error() string {
	if e.WorkflowID != "" {
		return fmt.Sprintf("workflow definition %s: %s", e.WorkflowID, e.Reason)
	}

	return "workflow definition: " + e.Reason
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func (e *DefinitionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDefinitionError creates a definition error with context.
func NewDefinitionError(workflowID, reason string, err error) *DefinitionError {
	return &DefinitionError{
		WorkflowID: workflowID,
		Reason:     reason,
		Err:        err,
	}
}

// ValidationError is raised by the validation handler and carries every
// violated rule, not only the first one.
type ValidationError struct {
	NodeID     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError creates a validation error from collected violations.
func NewValidationError(nodeID string, violations []string) *ValidationError {
	return &ValidationError{
		NodeID:     nodeID,
		Violations: violations,
	}
}

// NodeExecutionError wraps any other handler failure: collaborator errors,
// malformed expressions, exceeded loop bounds.
type NodeExecutionError struct {
	NodeID   string
	NodeType string
	Err      error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s (%s) failed: %v", e.NodeID, e.NodeType, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

func (e *NodeExecutionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewNodeExecutionError creates a node execution error with context.
func NewNodeExecutionError(nodeID, nodeType string, err error) *NodeExecutionError {
	return &NodeExecutionError{
		NodeID:   nodeID,
		NodeType: nodeType,
		Err:      err,
	}
}

// PersistenceError wraps recorder failures. The dispatcher logs these and
// never lets them abort a run.
type PersistenceError struct {
	Op          string // Operation being performed (e.g., "create", "update")
	ExecutionID string
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed for execution %s: %v", e.Op, e.ExecutionID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPersistenceError creates a persistence error with context.
func NewPersistenceError(op, executionID string, err error) *PersistenceError {
	return &PersistenceError{
		Op:          op,
		ExecutionID: executionID,
		Err:         err,
	}
}

// IsDefinitionError checks if an error is fatal to the whole run.
func IsDefinitionError(err error) bool {
	var e *DefinitionError

	return errors.As(err, &e)
}

// IsValidationError checks if an error came from the validation handler.
func IsValidationError(err error) bool {
	var e *ValidationError

	return errors.As(err, &e)
}

// IsNodeExecutionError checks if an error is a generic handler failure.
func IsNodeExecutionError(err error) bool {
	var e *NodeExecutionError

	return errors.As(err, &e)
}

// IsPersistenceError checks if an error came from the execution recorder.
func IsPersistenceError(err error) bool {
	var e *PersistenceError

	return errors.As(err, &e)
}
