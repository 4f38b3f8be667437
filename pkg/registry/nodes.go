package registry

import (
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/aiprocessing"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/condition"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/delay"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/end"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/fileoperation"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/loop"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/operation"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/start"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/transform"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/nodes/validation"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// Collaborators are the external services node handlers delegate to. Any of
// them may be nil; the affected handlers then fail with a configuration
// error when reached.
type Collaborators struct {
	AI             protocol.AIProvider
	Scripts        protocol.ScriptRunner
	Software       protocol.SoftwareIntegrator
	Files          protocol.FileManager
	TransformFuncs map[string]transform.TransformFunc
}

// RegisterDefaultNodes registers every built-in node factory. The ai_design_*
// family shares the ai_processing factory.
func (r *Registry) RegisterDefaultNodes(c Collaborators) {
	r.RegisterNode(start.NewStartNodeFactory())
	r.RegisterNode(end.NewEndNodeFactory())
	r.RegisterNode(operation.NewOperationNodeFactory(c.Software, c.Scripts))
	r.RegisterNode(validation.NewValidationNodeFactory())
	r.RegisterNode(condition.NewConditionNodeFactory())
	r.RegisterNode(loop.NewLoopNodeFactory())
	r.RegisterNode(delay.NewDelayNodeFactory())
	r.RegisterNode(transform.NewTransformNodeFactoryWithFuncs(c.TransformFuncs))
	r.RegisterNode(fileoperation.NewFileOperationNodeFactory(c.Files))

	aiFactory := aiprocessing.NewAIProcessingNodeFactory(c.AI)
	r.RegisterNode(aiFactory)

	for _, designType := range models.AIDesignNodeTypes {
		r.RegisterNodeAs(designType, aiFactory)
	}
}
