// Package filter decides which pack files stay in cleartext and enumerates pack trees.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/idelchi/packcrypt/pkg/pathmatch"
)

// AlwaysExcluded lists the pack files that are never encrypted.
//
//nolint:gochecknoglobals // fixed by the pack format
var AlwaysExcluded = []string{"manifest.json", "pack_icon.png", "bug_pack_icon.png"}

// Exclusions matches relative paths against the built-in set and user patterns.
type Exclusions struct {
	patterns *pathmatch.Matcher
}

// NewExclusions compiles user patterns. Invalid patterns are rejected.
func NewExclusions(patterns []string) (*Exclusions, error) {
	matcher, err := pathmatch.NewMatcher(NormalizePatterns(patterns))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Exclusions{patterns: matcher}, nil
}

// Excluded reports whether the slash-separated relative path is stored in cleartext.
func (e *Exclusions) Excluded(rel string) bool {
	_, excluded := e.Reason(rel)

	return excluded
}

// Reason returns what caused rel to be excluded: the built-in name or the matching pattern.
func (e *Exclusions) Reason(rel string) (string, bool) {
	if slices.Contains(AlwaysExcluded, rel) {
		return rel, true
	}

	return e.patterns.First(rel)
}

// NormalizePatterns strips a leading "./" so patterns line up with relative paths.
func NormalizePatterns(patterns []string) []string {
	normalized := make([]string, len(patterns))

	for i, p := range patterns {
		normalized[i] = strings.TrimPrefix(p, "./")
	}

	return normalized
}

// File is a regular file found under a root.
type File struct {
	// Path is the host path of the file.
	Path string
	// Rel is the path relative to the root, slash separated.
	Rel string
}

// Walk lists every regular file under root in lexical order.
// Symlinks to regular files are listed under the link's own path; dangling links,
// links to directories and other non-regular entries are skipped.
func Walk(root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		switch {
		case d.Type().IsRegular():
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil //nolint:nilerr // dangling links are not pack files
			}
		default:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path of %q: %w", path, err)
		}

		files = append(files, File{Path: path, Rel: filepath.ToSlash(rel)})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, nil
}
