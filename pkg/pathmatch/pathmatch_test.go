package pathmatch_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/packcrypt/pkg/pathmatch"
)

// golden is one expectation from testdata/*.yml.
type golden struct {
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	Match       bool   `yaml:"match"`
	Description string `yaml:"description,omitempty"`
}

type goldenGroup struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Cases       []golden `yaml:"cases"`
}

// loadGolden reads every group from the testdata directory, keyed by "file/group".
func loadGolden(t *testing.T) map[string][]golden {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("testdata", "*.yml"))
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("no golden files in testdata")
	}

	groups := make(map[string][]golden)

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // fixed testdata location
		if err != nil {
			t.Fatalf("reading %s: %v", file, err)
		}

		var parsed []goldenGroup
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("parsing %s: %v", file, err)
		}

		for _, g := range parsed {
			groups[filepath.Base(file)+"/"+g.Name] = g.Cases
		}
	}

	return groups
}

func runGolden(t *testing.T, check func(t *testing.T, tc golden)) {
	t.Helper()

	for name, cases := range loadGolden(t) {
		for _, tc := range cases {
			t.Run(name+"/"+tc.Description, func(t *testing.T) {
				t.Parallel()
				check(t, tc)
			})
		}
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	runGolden(t, func(t *testing.T, tc golden) {
		t.Helper()

		got, err := pathmatch.Match(tc.Pattern, tc.Path)
		if err != nil {
			t.Fatalf("Match(%q, %q): %v", tc.Pattern, tc.Path, err)
		}

		if got != tc.Match {
			t.Errorf("Match(%q, %q) = %v, want %v", tc.Pattern, tc.Path, got, tc.Match)
		}
	})
}

func TestMatcherFirst(t *testing.T) {
	t.Parallel()

	runGolden(t, func(t *testing.T, tc golden) {
		t.Helper()

		matcher, err := pathmatch.NewMatcher([]string{"does-not-exist/*", tc.Pattern})
		if err != nil {
			t.Fatalf("NewMatcher(%q): %v", tc.Pattern, err)
		}

		got, ok := matcher.First(tc.Path)
		if ok != tc.Match {
			t.Errorf("First(%q) with %q matched = %v, want %v", tc.Path, tc.Pattern, ok, tc.Match)
		}

		if ok && got != tc.Pattern {
			t.Errorf("First(%q) reported pattern %q, want %q", tc.Path, got, tc.Pattern)
		}

		if matcher.MatchAny(tc.Path) != ok {
			t.Errorf("MatchAny(%q) disagrees with First", tc.Path)
		}
	})
}

func TestEmptyMatcher(t *testing.T) {
	t.Parallel()

	matcher, err := pathmatch.NewMatcher(nil)
	if err != nil {
		t.Fatalf("NewMatcher(nil): %v", err)
	}

	if matcher.MatchAny("anything") {
		t.Error("empty matcher matched a path")
	}

	if matcher.Len() != 0 {
		t.Errorf("Len() = %d, want 0", matcher.Len())
	}
}

func TestInvalidPatterns(t *testing.T) {
	t.Parallel()

	tests := map[string]error{
		"end\\":    pathmatch.ErrTrailingEscape,
		"[a\\":     pathmatch.ErrTrailingEscape,
		"[a]\\":    pathmatch.ErrTrailingEscape,
		"a[1/end\\": pathmatch.ErrTrailingEscape,
	}

	for pattern, want := range tests {
		if _, err := pathmatch.NewMatcher([]string{"*.png", pattern}); !errors.Is(err, want) {
			t.Errorf("NewMatcher(%q) error = %v, want %v", pattern, err, want)
		}
	}
}

// TestFindParity materializes each golden path and asks find -path for a second opinion.
func TestFindParity(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("find"); err != nil {
		t.Skip("find not available")
	}

	runGolden(t, func(t *testing.T, tc golden) {
		t.Helper()

		root := t.TempDir()
		full := filepath.Join(root, tc.Path)

		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir for %q: %v", tc.Path, err)
		}

		if err := os.WriteFile(full, nil, 0o600); err != nil {
			t.Fatalf("creating %q: %v", tc.Path, err)
		}

		//nolint:gosec // arguments come from testdata
		cmd := exec.CommandContext(t.Context(), "find", root, "-type", "f", "-path", root+"/"+tc.Pattern)

		out, err := cmd.Output()
		if err != nil {
			t.Fatalf("running find: %v", err)
		}

		found := strings.TrimSpace(string(out)) != ""
		if found != tc.Match {
			t.Errorf("find -path %q on %q = %v, golden says %v", tc.Pattern, tc.Path, found, tc.Match)
		}
	})
}
