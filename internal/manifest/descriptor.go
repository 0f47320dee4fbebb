package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tidwall/jsonc"
)

// DescriptorName is the pack descriptor at the root of every pack.
const DescriptorName = "manifest.json"

// Descriptor is the subset of a pack descriptor needed to build an archive.
type Descriptor struct {
	Header struct {
		Name string `json:"name"`
		UUID string `json:"uuid"`
	} `json:"header"`
}

// ReadIdentifier returns the content identifier declared by the pack at root.
// Comments in the descriptor are tolerated.
func ReadIdentifier(root string) (string, error) {
	path := filepath.Join(root, DescriptorName)

	data, err := os.ReadFile(path) //nolint:gosec // pack root is user supplied
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrManifestUnreadable, err)
	}

	var descriptor Descriptor
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &descriptor); err != nil {
		return "", fmt.Errorf("%w: parsing %q: %w", ErrManifestUnreadable, path, err)
	}

	if descriptor.Header.UUID == "" {
		return "", fmt.Errorf("%w: %q declares no header.uuid", ErrManifestUnreadable, path)
	}

	return descriptor.Header.UUID, nil
}

// IsUUID reports whether id is a well-formed UUID.
func IsUUID(id string) bool {
	return uuid.Validate(id) == nil
}
