// Package jsonx contains small JSON helpers shared across the engine.
package jsonx

import "github.com/goccy/go-json"

// ToDynamicMap decodes a raw JSON object into a map[string]any. It returns
// an error when the input is not a JSON object.
func ToDynamicMap(raw []byte) (map[string]any, error) {
	result := make(map[string]any)
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ToDynamicJSON converts any Go value into its dynamic JSON representation
// by round-tripping it through the JSON codec.
func ToDynamicJSON(val any) (map[string]any, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	return ToDynamicMap(b)
}
