package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
)

func TestRegisterDefaultNodes(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultNodes(Collaborators{})

	expectedNodes := []string{
		models.NodeTypeStart,
		models.NodeTypeEnd,
		models.NodeTypeOperation,
		models.NodeTypeValidation,
		models.NodeTypeAIProcessing,
		models.NodeTypeCondition,
		models.NodeTypeLoop,
		models.NodeTypeDelay,
		models.NodeTypeTransform,
		models.NodeTypeFileOperation,
		models.NodeTypeAIDesignConcept,
		models.NodeTypeAIDesignLayout,
		models.NodeTypeAIDesignColor,
		models.NodeTypeAIDesignTypography,
		models.NodeTypeAIDesignMockup,
		models.NodeTypeAIDesignEnhance,
	}

	for _, nodeType := range expectedNodes {
		assert.True(t, registry.IsNodeRegistered(nodeType), "expected node type '%s' registered", nodeType)
	}
}

func TestRegistry_CreateNode_UnsupportedType(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultNodes(Collaborators{})

	unhandled := []string{
		models.NodeTypeWebhook,
		models.NodeTypeHTTPRequest,
		models.NodeTypeMerge,
		models.NodeTypeSplit,
		models.NodeTypeEmail,
		models.NodeTypeCodeExecution,
		models.NodeTypeDatabaseQuery,
		models.NodeTypeAPICall,
		"foo",
	}

	for _, nodeType := range unhandled {
		_, err := registry.CreateNode(context.Background(), nodeType)
		require.Error(t, err, "node type '%s'", nodeType)
		assert.Contains(t, err.Error(), "unsupported node type")
		assert.True(t, models.IsDefinitionError(err))
	}
}

func TestRegistry_CreateNode(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultNodes(Collaborators{})

	handler, err := registry.CreateNode(context.Background(), models.NodeTypeStart)
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestRegistry_Components(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultNodes(Collaborators{})

	components := registry.Components()
	require.NotEmpty(t, components)

	byType := make(map[string]bool, len(components))

	for i, component := range components {
		assert.NotEmpty(t, component.Name)

		if i > 0 {
			assert.Less(t, components[i-1].Type, component.Type, "components sorted by type")
		}

		byType[component.Type] = true
	}

	assert.True(t, byType[models.NodeTypeAIProcessing])
	assert.True(t, byType[models.NodeTypeAIDesignMockup])
}
