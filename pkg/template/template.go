// Package template resolves {identifier} placeholders in node parameters
// against the execution context.
package template

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveString substitutes every {identifier} whose key exists in the
// context with the stringified context value. Unmatched placeholders are
// left verbatim.
func ResolveString(s string, context map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[1 : len(match)-1]

		value, ok := context[key]
		if !ok {
			return match
		}

		return Stringify(value)
	})
}

// Resolve applies placeholder substitution to a value: strings are scanned,
// slices element-wise, maps recursively, everything else passes through.
// The context is never mutated.
func Resolve(value any, context map[string]any) any {
	switch v := value.(type) {
	case string:
		return ResolveString(v, context)
	case []any:
		resolved := make([]any, len(v))
		for i, item := range v {
			resolved[i] = Resolve(item, context)
		}

		return resolved
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for key, item := range v {
			resolved[key] = Resolve(item, context)
		}

		return resolved
	default:
		return value
	}
}

// ResolveParameters resolves a node's parameters map into a new map.
// Resolution is re-derived per invocation because earlier nodes may have
// added context keys.
func ResolveParameters(parameters map[string]any, context map[string]any) map[string]any {
	if parameters == nil {
		return map[string]any{}
	}

	resolved := make(map[string]any, len(parameters))
	for key, value := range parameters {
		resolved[key] = Resolve(value, context)
	}

	return resolved
}

// Stringify renders a context value the way placeholder substitution does.
func Stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
