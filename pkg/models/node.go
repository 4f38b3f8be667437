package models

import "sort"

// Node type tags. This is the closed set accepted in definitions; only a
// subset has a registered handler, the rest fail with an unsupported-type
// error when the dispatcher reaches them.
const (
	NodeTypeStart           = "start"
	NodeTypeEnd             = "end"
	NodeTypeWebhook         = "webhook"
	NodeTypeHTTPRequest     = "http_request"
	NodeTypeSchedule        = "schedule"
	NodeTypeOperation       = "operation"
	NodeTypeValidation      = "validation"
	NodeTypeAIProcessing    = "ai_processing"
	NodeTypeCondition       = "condition"
	NodeTypeLoop            = "loop"
	NodeTypeTransform       = "transform"
	NodeTypeMerge           = "merge"
	NodeTypeSplit           = "split"
	NodeTypeDelay           = "delay"
	NodeTypeEmail           = "email"
	NodeTypeWebhookResponse = "webhook_response"
	NodeTypeCodeExecution   = "code_execution"
	NodeTypeDatabaseQuery   = "database_query"
	NodeTypeFileOperation   = "file_operation"
	NodeTypeAPICall         = "api_call"
)

// AI design node types, routed through the ai_processing handler.
const (
	NodeTypeAIDesignConcept    = "ai_design_concept"
	NodeTypeAIDesignLayout     = "ai_design_layout"
	NodeTypeAIDesignColor      = "ai_design_color"
	NodeTypeAIDesignTypography = "ai_design_typography"
	NodeTypeAIDesignMockup     = "ai_design_mockup"
	NodeTypeAIDesignEnhance    = "ai_design_enhance"
)

// AIDesignNodeTypes lists the design family in registration order.
var AIDesignNodeTypes = []string{
	NodeTypeAIDesignConcept,
	NodeTypeAIDesignLayout,
	NodeTypeAIDesignColor,
	NodeTypeAIDesignTypography,
	NodeTypeAIDesignMockup,
	NodeTypeAIDesignEnhance,
}

var knownNodeTypes = map[string]struct{}{
	NodeTypeStart:              {},
	NodeTypeEnd:                {},
	NodeTypeWebhook:            {},
	NodeTypeHTTPRequest:        {},
	NodeTypeSchedule:           {},
	NodeTypeOperation:          {},
	NodeTypeValidation:         {},
	NodeTypeAIProcessing:       {},
	NodeTypeCondition:          {},
	NodeTypeLoop:               {},
	NodeTypeTransform:          {},
	NodeTypeMerge:              {},
	NodeTypeSplit:              {},
	NodeTypeDelay:              {},
	NodeTypeEmail:              {},
	NodeTypeWebhookResponse:    {},
	NodeTypeCodeExecution:      {},
	NodeTypeDatabaseQuery:      {},
	NodeTypeFileOperation:      {},
	NodeTypeAPICall:            {},
	NodeTypeAIDesignConcept:    {},
	NodeTypeAIDesignLayout:     {},
	NodeTypeAIDesignColor:      {},
	NodeTypeAIDesignTypography: {},
	NodeTypeAIDesignMockup:     {},
	NodeTypeAIDesignEnhance:    {},
}

// IsKnownNodeType reports whether t belongs to the closed node-type set.
func IsKnownNodeType(t string) bool {
	_, ok := knownNodeTypes[t]

	return ok
}

// KnownNodeTypes returns the closed node-type set, sorted, for schema enums.
func KnownNodeTypes() []string {
	types := make([]string, 0, len(knownNodeTypes))
	for t := range knownNodeTypes {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// Node is a typed unit of work inside a definition. Parameters are resolved
// against the execution context on every invocation; Config is static handler
// configuration. RetryOnFail, MaxTries and WaitBetweenTries are modeled but
// the dispatcher honors only ContinueOnFail.
type Node struct {
	ID             string         `json:"id"   validate:"required"`
	Type           string         `json:"type" validate:"required"`
	Name           string         `json:"name,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	Config         map[string]any `json:"config,omitempty"`
	SoftwareID     string         `json:"software_id,omitempty"`
	ScriptID       string         `json:"script_id,omitempty"`
	ContinueOnFail bool           `json:"continue_on_fail,omitempty"`

	RetryOnFail      bool `json:"retry_on_fail,omitempty"`
	MaxTries         int  `json:"max_tries,omitempty"`
	WaitBetweenTries int  `json:"wait_between_tries,omitempty"` // milliseconds
}

// Edge is a directed dependency between two nodes. Condition is an advisory
// label; edges carry no predicates.
type Edge struct {
	ID        string `json:"id"`
	Source    string `json:"source" validate:"required"`
	Target    string `json:"target" validate:"required"`
	Condition string `json:"condition,omitempty"`
}

// ConfigString returns a string config value.
func (n *Node) ConfigString(key string) (string, bool) {
	v, ok := n.Config[key].(string)

	return v, ok
}

// ConfigInt returns an int config value, accepting JSON numbers, or fallback.
func (n *Node) ConfigInt(key string, fallback int) int {
	switch v := n.Config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// ConfigFloat returns a float config value, accepting JSON numbers, or fallback.
func (n *Node) ConfigFloat(key string, fallback float64) float64 {
	switch v := n.Config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
