// Package web provides the REST API handlers for workflow management and
// execution queries.
package web

import "github.com/zixiu905-prog/ai-platform-sub005/pkg/models"

// CreateWorkflowRequest is the request body for creating a workflow.
type CreateWorkflowRequest struct {
	Name        string                   `json:"name"        validate:"required,min=3"`
	Description string                   `json:"description"`
	Category    string                   `json:"category"`
	Status      models.WorkflowStatus    `json:"status,omitempty"`
	Nodes       []*models.Node           `json:"nodes"`
	Edges       []*models.Edge           `json:"edges"`
	Variables   map[string]any           `json:"variables,omitempty"`
	Settings    *models.WorkflowSettings `json:"settings,omitempty"`
	Owner       string                   `json:"owner,omitempty"`
}

// Definition converts the request into a definition model.
func (r *CreateWorkflowRequest) Definition() *models.WorkflowDefinition {
	nodes := r.Nodes
	if nodes == nil {
		nodes = []*models.Node{}
	}

	edges := r.Edges
	if edges == nil {
		edges = []*models.Edge{}
	}

	return &models.WorkflowDefinition{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Status:      r.Status,
		Nodes:       nodes,
		Edges:       edges,
		Variables:   r.Variables,
		Settings:    r.Settings,
		Owner:       r.Owner,
	}
}

// UpdateWorkflowRequest is the request body for updating a workflow. Scalar
// fields are optional pointers for partial updates; a non-nil Nodes or Edges
// replaces the whole graph.
type UpdateWorkflowRequest struct {
	Name        *string                  `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                  `json:"description,omitempty"`
	Category    *string                  `json:"category,omitempty"`
	Status      *models.WorkflowStatus   `json:"status,omitempty"`
	Nodes       []*models.Node           `json:"nodes,omitempty"`
	Edges       []*models.Edge           `json:"edges,omitempty"`
	Variables   map[string]any           `json:"variables,omitempty"`
	Settings    *models.WorkflowSettings `json:"settings,omitempty"`
}

// ApplyTo merges the partial update onto an existing definition.
func (r *UpdateWorkflowRequest) ApplyTo(definition *models.WorkflowDefinition) {
	if r.Name != nil {
		definition.Name = *r.Name
	}

	if r.Description != nil {
		definition.Description = *r.Description
	}

	if r.Category != nil {
		definition.Category = *r.Category
	}

	if r.Status != nil {
		definition.Status = *r.Status
	}

	if r.Nodes != nil {
		definition.Nodes = r.Nodes
	}

	if r.Edges != nil {
		definition.Edges = r.Edges
	}

	if r.Variables != nil {
		definition.Variables = r.Variables
	}

	if r.Settings != nil {
		definition.Settings = r.Settings
	}
}

// ExecuteWorkflowRequest is the request body for starting a run.
type ExecuteWorkflowRequest struct {
	UserID string         `json:"user_id,omitempty"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

// ValidationResponse reports the outcome of a validation-only request.
type ValidationResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}
