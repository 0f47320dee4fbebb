// Package manifest encodes the archive's list of entries and reads pack descriptors.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Version is written into every encoded Content.
const Version = 1

var (
	// ErrMalformedManifest is returned when bytes do not decode into a Content.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrManifestUnreadable marks a manifest that could not be read or decrypted.
	ErrManifestUnreadable = errors.New("manifest unreadable")
)

// Entry records how a single file is stored in the archive.
type Entry struct {
	// Path is relative to the archive root, slash separated.
	Path string `json:"path"`
	// Key is the per-file key, nil for files stored in cleartext.
	Key *string `json:"key"`
}

// Encrypted reports whether the entry carries a key.
func (e Entry) Encrypted() bool {
	return e.Key != nil
}

// NewEntry creates an entry; an empty key yields a cleartext entry.
func NewEntry(path, key string) Entry {
	if key == "" {
		return Entry{Path: path}
	}

	return Entry{Path: path, Key: &key}
}

// Content is the list of entries stored encrypted inside the container.
type Content struct {
	Version int     `json:"version"`
	Content []Entry `json:"content"`
}

// Encode serializes content as compact JSON.
func Encode(content Content) ([]byte, error) {
	if content.Content == nil {
		content.Content = []Entry{}
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	return data, nil
}

// Decode parses data into a Content, returning ErrMalformedManifest if the shape does not match.
func Decode(data []byte) (Content, error) {
	var probe struct {
		Content *json.RawMessage `json:"content"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}

	if probe.Content == nil || !bytes.HasPrefix(bytes.TrimSpace(*probe.Content), []byte("[")) {
		return Content{}, fmt.Errorf("%w: missing content list", ErrMalformedManifest)
	}

	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}

	for i, entry := range content.Content {
		if entry.Path == "" {
			return Content{}, fmt.Errorf("%w: entry %d has no path", ErrMalformedManifest, i)
		}
	}

	return content, nil
}

// Normalize sorts entries by path and drops later entries that repeat a path.
func (c *Content) Normalize() {
	slices.SortStableFunc(c.Content, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	c.Content = slices.CompactFunc(c.Content, func(a, b Entry) bool {
		return a.Path == b.Path
	})
}
