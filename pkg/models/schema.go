package models

// RegisteredComponent describes a node type exposed by the registry:
// metadata plus the JSON schema of its configuration.
type RegisteredComponent struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// DefinitionSchema returns the JSON schema every stored workflow definition
// must satisfy. The node type enum is the closed set from node.go.
func DefinitionSchema() map[string]any {
	nodeTypes := KnownNodeTypes()
	typeEnum := make([]any, 0, len(nodeTypes))

	for _, t := range nodeTypes {
		typeEnum = append(typeEnum, t)
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"name", "nodes"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"name":        map[string]any{"type": "string", "minLength": 3},
			"description": map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"version":     map[string]any{"type": "integer", "minimum": 0},
			"status": map[string]any{
				"type": "string",
				"enum": []any{"draft", "active", "archived", "deprecated"},
			},
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "type"},
					"properties": map[string]any{
						"id":                 map[string]any{"type": "string", "minLength": 1},
						"type":               map[string]any{"type": "string", "enum": typeEnum},
						"name":               map[string]any{"type": "string"},
						"parameters":         map[string]any{"type": "object"},
						"config":             map[string]any{"type": "object"},
						"software_id":        map[string]any{"type": "string"},
						"script_id":          map[string]any{"type": "string"},
						"continue_on_fail":   map[string]any{"type": "boolean"},
						"retry_on_fail":      map[string]any{"type": "boolean"},
						"max_tries":          map[string]any{"type": "integer", "minimum": 0},
						"wait_between_tries": map[string]any{"type": "integer", "minimum": 0},
					},
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"source", "target"},
					"properties": map[string]any{
						"id":        map[string]any{"type": "string"},
						"source":    map[string]any{"type": "string", "minLength": 1},
						"target":    map[string]any{"type": "string", "minLength": 1},
						"condition": map[string]any{"type": "string"},
					},
				},
			},
			"variables": map[string]any{"type": "object"},
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"execution_timeout":  map[string]any{"type": "integer", "minimum": 0},
					"retry_on_fail":      map[string]any{"type": "boolean"},
					"max_tries":          map[string]any{"type": "integer", "minimum": 0},
					"wait_between_tries": map[string]any{"type": "integer", "minimum": 0},
					"parallel_execution": map[string]any{"type": "boolean"},
					"batch_size":         map[string]any{"type": "integer", "minimum": 0},
					"schedule":           map[string]any{"type": "string"},
				},
			},
		},
	}
}
