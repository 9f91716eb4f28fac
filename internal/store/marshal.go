package store

import (
	"encoding/json"
	"fmt"
)

// marshalPaths converts output paths to JSON TEXT for storage.
// A nil slice is stored as "[]".
func marshalPaths(paths []string) (string, error) {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.Marshal(paths)
	if err != nil {
		return "", fmt.Errorf("marshal paths: %w", err)
	}
	return string(data), nil
}

// unmarshalPaths converts JSON TEXT from storage back to output paths.
func unmarshalPaths(s string) ([]string, error) {
	paths := []string{}
	if err := json.Unmarshal([]byte(s), &paths); err != nil {
		return nil, fmt.Errorf("unmarshal paths: %w", err)
	}
	return paths, nil
}
