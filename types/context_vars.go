// Package types provides core type definitions shared across the warden engine.
package types

import "github.com/goccy/go-json"

// ContextVars is a key-value store of context variables. The delegator merges
// engine-level variables with per-call variables and hands the result to
// specialist runners; specialists may also reference them in instruction
// templates.
//
// Example usage:
//
//	vars := types.ContextVars{
//	    "workspace": "/srv/project",
//	    "user":      "alice",
//	}
//
//	sp := specialist.New(
//	    specialist.Instructions("Operate only inside {{.workspace}}."),
//	)
//
// ContextVars is a map type and is not safe for concurrent modification;
// callers that mutate it during execution must synchronize themselves.
type ContextVars map[string]any

// Merge returns a new ContextVars containing cv overlaid with other.
// Keys in other win. Neither input is modified.
func (cv ContextVars) Merge(other ContextVars) ContextVars {
	if cv == nil && other == nil {
		return nil
	}
	merged := make(ContextVars, len(cv)+len(other))
	for k, v := range cv {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// String returns a JSON representation of the variables, or the empty
// string when marshaling fails.
func (cv ContextVars) String() string {
	data, err := json.Marshal(cv)
	if err != nil {
		return ""
	}
	return string(data)
}
