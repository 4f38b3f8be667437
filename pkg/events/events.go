// Package events defines the lifecycle notifications emitted around workflow
// executions.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every aiflow event; consumers filter on the event_type
// metadata.
const Topic = "aiflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Intake.
	ExecutionRequestedEvent EventType = "execution.requested"

	// Run lifecycle.
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"

	// Per-node progress.
	NodeFinishedEvent EventType = "node.finished"
	NodeFailedEvent   EventType = "node.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	WorkerID   string         `json:"worker_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps identity and UTC time for an event envelope.
func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// ExecutionRequested asks a worker to run a workflow.
type ExecutionRequested struct {
	BaseEvent

	UserID string         `json:"user_id"`
	Mode   string         `json:"mode"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

func (e ExecutionRequested) GetType() EventType {
	return ExecutionRequestedEvent
}

// ExecutionStarted marks the transition to RUNNING.
type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	UserID      string `json:"user_id"`
	Mode        string `json:"mode"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// NodeFinished reports one successfully executed node.
type NodeFinished struct {
	BaseEvent

	ExecutionID string         `json:"execution_id"`
	NodeID      string         `json:"node_id"`
	NodeType    string         `json:"node_type"`
	Result      map[string]any `json:"result,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
}

func (e NodeFinished) GetType() EventType {
	return NodeFinishedEvent
}

// NodeFailed reports one failed node, absorbed or fatal.
type NodeFailed struct {
	BaseEvent

	ExecutionID    string `json:"execution_id"`
	NodeID         string `json:"node_id"`
	NodeType       string `json:"node_type"`
	Error          string `json:"error"`
	ContinueOnFail bool   `json:"continue_on_fail"`
	DurationMs     int64  `json:"duration_ms"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}

// ExecutionCompleted marks a terminal COMPLETED run.
type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string         `json:"execution_id"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// ExecutionFailed marks a terminal FAILED run.
type ExecutionFailed struct {
	BaseEvent

	ExecutionID string   `json:"execution_id"`
	Error       string   `json:"error"`
	FailedNodes []string `json:"failed_nodes,omitempty"`
	DurationMs  int64    `json:"duration_ms"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}
