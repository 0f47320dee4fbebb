package logic

import (
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/filter"
	"github.com/idelchi/packcrypt/pkg/pathmatch"
)

// RunCheck validates that every exclude pattern matches at least one file under cfg.Input,
// and lists the files that would stay in cleartext.
func RunCheck(cfg *config.Config, w io.Writer) error {
	patterns, err := filter.Collect(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return err
	}

	patterns = filter.NormalizePatterns(patterns)

	if len(patterns) == 0 {
		return errors.New("no exclude patterns to check")
	}

	files, err := filter.Walk(cfg.Input)
	if err != nil {
		return err
	}

	var failures int

	for _, pattern := range patterns {
		compiled, err := pathmatch.Compile(pattern)
		if err != nil {
			fmt.Fprintf(w, "exclude: %s: invalid pattern: %v\n", pattern, err)

			failures++

			continue
		}

		var count int

		for _, file := range files {
			if compiled.Match(file.Rel) {
				count++

				if !cfg.Quiet {
					fmt.Fprintf(w, "  %s\n", file.Rel)
				}
			}
		}

		if count == 0 {
			fmt.Fprintf(w, "exclude: %s: 0 files (ERROR)\n", pattern)

			failures++
		} else {
			fmt.Fprintf(w, "exclude: %s: %d files\n", pattern, count)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}
