package utils

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSONArray = errors.New("no JSON array found in text")

// ExtractJSONArray locates the first '[' and the last ']' in raw model
// output and returns the enclosed span. LLMs like to wrap JSON in prose or
// markdown fences; slicing the outermost brackets tolerates both.
func ExtractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONArray
	}
	return text[start : end+1], nil
}

// UnmarshalJSONArray extracts the array span and unmarshals it into v.
// v must be a pointer to a slice type.
func UnmarshalJSONArray(text string, v interface{}) error {
	candidate, err := ExtractJSONArray(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(candidate), v)
}
