// Package testutil provides test data builders shared by package tests.
package testutil

import (
	"github.com/google/uuid"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

// CreateTestWorkflow creates an active definition with default values that
// can be overridden.
func CreateTestWorkflow(overrides ...func(*models.WorkflowDefinition)) *models.WorkflowDefinition {
	definition := &models.WorkflowDefinition{
		ID:       uuid.New().String(),
		Name:     "Test Workflow",
		Category: "test",
		Version:  1,
		Status:   models.WorkflowStatusActive,
		Nodes:    []*models.Node{},
		Edges:    []*models.Edge{},
	}

	for _, override := range overrides {
		override(definition)
	}

	return definition
}

// WithID sets the definition id.
func WithID(id string) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.ID = id
	}
}

// WithStatus sets the lifecycle status.
func WithStatus(status models.WorkflowStatus) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.Status = status
	}
}

// WithVariables sets the initial context seed.
func WithVariables(variables map[string]any) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.Variables = variables
	}
}

// WithSettings sets the definition settings.
func WithSettings(settings *models.WorkflowSettings) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.Settings = settings
	}
}

// WithNodes sets the node list.
func WithNodes(nodes ...*models.Node) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.Nodes = nodes
	}
}

// WithEdges sets the edge list.
func WithEdges(edges ...*models.Edge) func(*models.WorkflowDefinition) {
	return func(w *models.WorkflowDefinition) {
		w.Edges = edges
	}
}

// CreateTestNode creates a node with the given id and type.
func CreateTestNode(id, nodeType string, overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:   id,
		Type: nodeType,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithParameters sets the node parameters.
func WithParameters(parameters map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Parameters = parameters
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Config = config
	}
}

// WithContinueOnFail marks the node as absorbing its own failure.
func WithContinueOnFail() func(*models.Node) {
	return func(n *models.Node) {
		n.ContinueOnFail = true
	}
}

// Edge creates a directed dependency between two node ids.
func Edge(source, target string) *models.Edge {
	return &models.Edge{
		ID:     source + "->" + target,
		Source: source,
		Target: target,
	}
}

// LinearWorkflow creates a start -> middle... -> end chain from the given
// nodes, wiring edges in order.
func LinearWorkflow(nodes ...*models.Node) *models.WorkflowDefinition {
	edges := make([]*models.Edge, 0, len(nodes))
	for i := 1; i < len(nodes); i++ {
		edges = append(edges, Edge(nodes[i-1].ID, nodes[i].ID))
	}

	return CreateTestWorkflow(WithNodes(nodes...), WithEdges(edges...))
}
