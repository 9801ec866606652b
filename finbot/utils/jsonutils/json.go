package jsonutils

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the JSON object out of noisy process output by taking
// the substring between the first '{' and the last '}'. External scripts
// print progress lines around their JSON payload, so the envelope has to be
// located rather than decoded directly.
func ExtractJSON(input string) string {
	input = strings.TrimSpace(input)
	start := strings.Index(input, "{")
	end := strings.LastIndex(input, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return input[start : end+1]
}

// ToJSON serializes a Go value to an indented JSON string. Returns an empty
// string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
