package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/tidwall/jsonc"
)

// LoadPatterns reads a JSONC array of exclude patterns.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", path, err)
	}

	var patterns []string
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &patterns); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", path, err)
	}

	return patterns, nil
}

// Collect merges patterns given directly with those read from an optional JSONC file.
func Collect(patterns []string, from string) ([]string, error) {
	merged := slices.Clone(patterns)

	if from == "" {
		return merged, nil
	}

	loaded, err := LoadPatterns(from)
	if err != nil {
		return nil, err
	}

	return append(merged, loaded...), nil
}
