// Package models defines the core domain models for DAG workflow execution.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusDraft      WorkflowStatus = "draft"      // Editable, not scheduled
	WorkflowStatusActive     WorkflowStatus = "active"     // Executable and schedulable
	WorkflowStatusArchived   WorkflowStatus = "archived"   // Read-only
	WorkflowStatusDeprecated WorkflowStatus = "deprecated" // Superseded by a newer definition
)

// WorkflowSettings carries execution tuning for a definition.
// ParallelExecution and BatchSize are accepted configuration surface only;
// the engine executes nodes strictly sequentially.
type WorkflowSettings struct {
	ExecutionTimeout  int    `json:"execution_timeout,omitempty"` // seconds
	RetryOnFail       bool   `json:"retry_on_fail,omitempty"`
	MaxTries          int    `json:"max_tries,omitempty"`
	WaitBetweenTries  int    `json:"wait_between_tries,omitempty"` // milliseconds
	ParallelExecution bool   `json:"parallel_execution,omitempty"`
	BatchSize         int    `json:"batch_size,omitempty"`
	Schedule          string `json:"schedule,omitempty"` // cron expression for scheduled runs
}

// WorkflowDefinition is the declarative graph a run executes: typed nodes,
// directed edges, an initial variables seed, and settings.
type WorkflowDefinition struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"        validate:"required,min=3"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Version     int               `json:"version"`
	Status      WorkflowStatus    `json:"status"      validate:"required"`
	Nodes       []*Node           `json:"nodes"`
	Edges       []*Edge           `json:"edges"`
	Variables   map[string]any    `json:"variables,omitempty"`
	Settings    *WorkflowSettings `json:"settings,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (w *WorkflowDefinition) NodeByID(id string) *Node {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// IsExecutable reports whether the definition may be picked up by the
// scheduler or the trigger queue. Manual runs are allowed in any state.
func (w *WorkflowDefinition) IsExecutable() bool {
	return w.Status == WorkflowStatusActive && w.DeletedAt == nil
}

// HasSchedule reports whether the definition carries a cron schedule.
func (w *WorkflowDefinition) HasSchedule() bool {
	return w.Settings != nil && w.Settings.Schedule != ""
}
