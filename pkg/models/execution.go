package models

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus defines the lifecycle states of a workflow run.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "PENDING"
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusCompleted ExecutionStatus = "COMPLETED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
	ExecutionStatusCancelled ExecutionStatus = "CANCELLED"
	ExecutionStatusTimeout   ExecutionStatus = "TIMEOUT"
)

// ExecutionMode records what initiated a run.
type ExecutionMode string

const (
	ExecutionModeManual    ExecutionMode = "manual"
	ExecutionModeTrigger   ExecutionMode = "trigger"
	ExecutionModeRetry     ExecutionMode = "retry"
	ExecutionModeScheduled ExecutionMode = "scheduled"
)

// Execution log levels.
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ExecutionLog is one timestamped, leveled entry in a run's log sequence.
type ExecutionLog struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	NodeID    string    `json:"node_id,omitempty"`
}

// ExecutionMetrics aggregates per-run counters. Durations are milliseconds.
type ExecutionMetrics struct {
	NodeExecutions  int     `json:"node_executions"`
	AverageNodeTime float64 `json:"average_node_time"`
	TotalDuration   int64   `json:"total_duration"`
	TokensUsed      int     `json:"tokens_used"`
	CostEstimate    float64 `json:"cost_estimate"`
}

// Execution is the auditable record of one workflow run. It is mutated in
// place by the dispatcher and snapshotted to the recorder after every node.
type Execution struct {
	ID              string                    `json:"id"`
	WorkflowID      string                    `json:"workflow_id"`
	WorkflowVersion int                       `json:"workflow_version"`
	UserID          string                    `json:"user_id"`
	Status          ExecutionStatus           `json:"status"`
	Mode            ExecutionMode             `json:"mode"`
	StartTime       time.Time                 `json:"start_time"`
	EndTime         *time.Time                `json:"end_time,omitempty"`
	Inputs          map[string]any            `json:"inputs,omitempty"`
	Outputs         map[string]any            `json:"outputs,omitempty"`
	Context         map[string]any            `json:"context"`
	NodeResults     map[string]map[string]any `json:"node_results"`
	CompletedNodes  []string                  `json:"completed_nodes"`
	FailedNodes     []string                  `json:"failed_nodes"`
	CurrentNode     string                    `json:"current_node,omitempty"`
	Error           string                    `json:"error,omitempty"`
	TotalNodes      int                       `json:"total_nodes"`
	Logs            []ExecutionLog            `json:"logs"`
	Metrics         ExecutionMetrics          `json:"metrics"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// NewExecution creates a pending execution record for a workflow run.
func NewExecution(workflowID string, version int, userID string, mode ExecutionMode, inputs map[string]any) *Execution {
	now := time.Now().UTC()

	return &Execution{
		ID:              "exec-" + uuid.New().String()[:8],
		WorkflowID:      workflowID,
		WorkflowVersion: version,
		UserID:          userID,
		Status:          ExecutionStatusPending,
		Mode:            mode,
		StartTime:       now,
		Inputs:          inputs,
		Outputs:         make(map[string]any),
		Context:         make(map[string]any),
		NodeResults:     make(map[string]map[string]any),
		CompletedNodes:  make([]string, 0),
		FailedNodes:     make([]string, 0),
		Logs:            make([]ExecutionLog, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SeedContext initializes the mutable context from the definition's variables
// and the caller inputs, plus the workflow identity and the start timestamp.
// Caller inputs override colliding variable keys.
func (e *Execution) SeedContext(definition *WorkflowDefinition) {
	for k, v := range definition.Variables {
		e.Context[k] = v
	}

	for k, v := range e.Inputs {
		e.Context[k] = v
	}

	e.Context["workflow"] = map[string]any{
		"id":       definition.ID,
		"name":     definition.Name,
		"category": definition.Category,
	}
	e.Context["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	e.TotalNodes = len(definition.Nodes)
}

// AppendLog appends a run-level log entry.
func (e *Execution) AppendLog(level, message string) {
	e.Logs = append(e.Logs, ExecutionLog{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	})
}

// AppendNodeLog appends a log entry tagged with a node id.
func (e *Execution) AppendNodeLog(level, message, nodeID string) {
	e.Logs = append(e.Logs, ExecutionLog{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		NodeID:    nodeID,
	})
}

// HasCompleted reports whether a node already finished in this run.
func (e *Execution) HasCompleted(nodeID string) bool {
	for _, id := range e.CompletedNodes {
		if id == nodeID {
			return true
		}
	}

	return false
}

// RecordNodeExecution folds one node's elapsed time into the run metrics.
func (e *Execution) RecordNodeExecution(elapsed time.Duration) {
	e.Metrics.NodeExecutions++

	elapsedMs := float64(elapsed.Milliseconds())
	n := float64(e.Metrics.NodeExecutions)
	e.Metrics.AverageNodeTime = (e.Metrics.AverageNodeTime*(n-1) + elapsedMs) / n
}

// Progress returns the completed fraction of the run's node result slots.
func (e *Execution) Progress() float64 {
	total := e.TotalNodes
	if total < 1 {
		total = 1
	}

	return float64(len(e.CompletedNodes)) / float64(total)
}

// Finalize stamps the terminal status, end time and total duration. A run
// with any failed node is FAILED even when later nodes succeeded.
func (e *Execution) Finalize() {
	now := time.Now().UTC()
	e.EndTime = &now
	e.Metrics.TotalDuration = now.Sub(e.StartTime).Milliseconds()
	e.CurrentNode = ""
	e.UpdatedAt = now

	if len(e.FailedNodes) > 0 {
		e.Status = ExecutionStatusFailed
	} else {
		e.Status = ExecutionStatusCompleted
	}
}

// IsTerminal reports whether the execution reached a final status.
func (e *Execution) IsTerminal() bool {
	switch e.Status {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled, ExecutionStatusTimeout:
		return true
	default:
		return false
	}
}
