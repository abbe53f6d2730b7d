// Package filter applies JMESPath expressions to the JSON tree snapshot.
package filter

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmespath/go-jmespath"
)

// Presets are short names for common snapshot queries
var Presets = map[string]string{
	"keys":    "redBlackTree.keys",
	"points":  "rangeTree.points",
	"sizes":   "{redBlackTree: redBlackTree.size, rangeTree: rangeTree.size}",
	"heights": "{redBlackTree: redBlackTree.height, rangeTree: rangeTree.height}",
	"root":    "redBlackTree.root.label",
}

// Apply applies filter and query expressions to a JSON body
// Filter narrows results (e.g., rangeTree.points[?x > `0`])
// Query transforms/selects fields (e.g., [].y)
func Apply(body string, filter string, query string) (string, error) {
	result := body

	if filter != "" {
		filtered, err := applyJMESPath(result, Resolve(filter))
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query != "" {
		queried, err := applyJMESPath(result, Resolve(query))
		if err != nil {
			return "", fmt.Errorf("failed to apply query: %w", err)
		}
		result = queried
	}

	return result, nil
}

// Resolve expands a preset name, or returns the expression unchanged
func Resolve(expression string) string {
	if preset, ok := Presets[expression]; ok {
		return preset
	}
	return expression
}

// PresetNames returns preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(Resolve(expression))
	return err == nil
}
