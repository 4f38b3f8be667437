// Package registry maps node type tags to their handler factories.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// Registry is the compile-time node-type table consulted by the dispatcher.
// The node-type set is closed; there is no runtime plugin loading.
type Registry struct {
	logger        *slog.Logger
	nodeFactories map[string]protocol.NodeFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        logger,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode registers a factory under its own type id.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.nodeFactories[factory.ID()] = factory
}

// RegisterNodeAs registers a factory under an alias type, used to route the
// ai_design_* family through the ai_processing handler.
func (r *Registry) RegisterNodeAs(nodeType string, factory protocol.NodeFactory) {
	r.nodeFactories[nodeType] = factory
}

// CreateNode returns a handler for the node type. An unregistered type is a
// definition error: the type system accepts the full closed set, but only a
// subset has executable behavior.
func (r *Registry) CreateNode(ctx context.Context, nodeType string) (protocol.NodeHandler, error) {
	factory, ok := r.nodeFactories[nodeType]
	if !ok {
		return nil, models.NewDefinitionError("",
			fmt.Sprintf("unsupported node type '%s'", nodeType), models.ErrUnsupportedNodeType)
	}

	return factory.Create(ctx)
}

// IsNodeRegistered reports whether a type has an executable handler.
func (r *Registry) IsNodeRegistered(nodeType string) bool {
	_, ok := r.nodeFactories[nodeType]

	return ok
}

// GetAvailableNodes returns the registered factories.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	return factories
}

// Components returns registry metadata for the node-types API, sorted by
// registered type.
func (r *Registry) Components() []*models.RegisteredComponent {
	types := make([]string, 0, len(r.nodeFactories))
	for nodeType := range r.nodeFactories {
		types = append(types, nodeType)
	}

	sort.Strings(types)

	components := make([]*models.RegisteredComponent, 0, len(types))

	for _, nodeType := range types {
		factory := r.nodeFactories[nodeType]
		components = append(components, &models.RegisteredComponent{
			Type:        nodeType,
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return components
}
