package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/packcrypt/internal/container"
	"github.com/idelchi/packcrypt/internal/encryption"
	"github.com/idelchi/packcrypt/internal/fileutil"
	"github.com/idelchi/packcrypt/internal/filter"
	"github.com/idelchi/packcrypt/internal/jsonfmt"
	"github.com/idelchi/packcrypt/internal/keys"
	"github.com/idelchi/packcrypt/internal/manifest"
)

// Encryptor turns a pack directory into an archive.
type Encryptor struct {
	opts       Options
	exclusions *filter.Exclusions
}

// NewEncryptor validates the exclusion patterns and prepares an Encryptor.
func NewEncryptor(opts Options) (*Encryptor, error) {
	exclusions, err := filter.NewExclusions(opts.Exclude)
	if err != nil {
		return nil, err
	}

	return &Encryptor{opts: opts.withDefaults(), exclusions: exclusions}, nil
}

// Run encrypts the pack. A failure aborts the run and leaves whatever was
// already written in place.
//
//nolint:funlen,cyclop
func (e *Encryptor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	opts := e.opts

	identifier, err := manifest.ReadIdentifier(opts.Input)
	if err != nil {
		return Summary{}, err
	}

	if err := container.CheckIdentifier(identifier); err != nil {
		return Summary{}, err
	}

	if !manifest.IsUUID(identifier) {
		fmt.Fprintf(opts.Stderr, "Warning: content identifier %q is not a UUID\n", identifier)
	}

	if len(identifier) > container.IdentifierRoom {
		fmt.Fprintf(opts.Stderr, "Warning: content identifier is %d bytes, only the first %d survive in the header\n",
			len(identifier), container.IdentifierRoom)
	}

	var key keys.Key

	if opts.Key == nil {
		key = opts.Generator.Generate()
	} else {
		key = slices.Clone(opts.Key)
	}
	defer key.Wipe()

	if err := key.Validate(); err != nil {
		return Summary{}, fmt.Errorf("top-level key: %w", err)
	}

	// Enumerate before writing anything, so outputs nested in the input are not picked up.
	files, err := filter.Walk(opts.Input)
	if err != nil {
		return Summary{}, err
	}

	if !opts.Dry {
		if err := fileutil.WriteFile(SidecarPath(opts.Output), key); err != nil {
			return Summary{}, fmt.Errorf("writing key file: %w", err)
		}
	}

	out := startPrinter(opts.Stdout, opts.Stderr, opts.Quiet, len(files), opts.Dry)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Parallel)

	for _, file := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := e.processFile(file)
			if err != nil {
				return fmt.Errorf("processing %q: %w", file.Rel, err)
			}

			out.results <- res

			return nil
		})
	}

	err = group.Wait()

	out.finish()

	summary := out.summary
	summary.Scanned = len(files)

	if err != nil {
		return summary, fmt.Errorf("encrypting files: %w", err)
	}

	content := manifest.Content{Version: manifest.Version, Content: out.entries}
	slices.SortFunc(content.Content, func(a, b manifest.Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	if !opts.Dry {
		if err := writeContainer(opts.Output, identifier, key, content); err != nil {
			return summary, err
		}
	}

	switch {
	case opts.Quiet:
	case opts.Dry:
		fmt.Fprintln(opts.Stdout, "Dry run finished, nothing was written")
	default:
		fmt.Fprintf(opts.Stdout, "Encryption finished, key: %s\n", key)
	}

	summary.Duration = time.Since(start)

	return summary, nil
}

// processFile copies or encrypts a single file and returns its manifest entry.
func (e *Encryptor) processFile(file filter.File) (Result, error) {
	target := outputPath(e.opts.Output, file.Rel)

	if e.exclusions.Excluded(file.Rel) {
		res := Result{Rel: file.Rel, Action: ActionCopied, Entry: manifest.NewEntry(file.Rel, "")}

		if fileutil.SamePath(file.Path, target) {
			res.Action = ActionKept

			return res, nil
		}

		if e.opts.Dry {
			return res, nil
		}

		size, err := copyNormalized(file.Path, target, file.Rel, jsonfmt.Document.Minified)
		res.Size = size

		return res, err
	}

	key := e.opts.Generator.Generate()
	defer key.Wipe()

	res := Result{Rel: file.Rel, Action: ActionEncrypted, Entry: manifest.NewEntry(file.Rel, key.String())}

	if e.opts.Dry {
		return res, nil
	}

	data, err := os.ReadFile(filepath.Clean(file.Path))
	if err != nil {
		return res, fmt.Errorf("reading input file: %w", err)
	}

	if jsonfmt.Applies(file.Rel) {
		data = jsonfmt.Parse(data).Minified()
	}

	if err := encryption.EncryptInPlace(key, data); err != nil {
		return res, err
	}

	if err := fileutil.WriteFile(target, data); err != nil {
		return res, err
	}

	res.Size = int64(len(data))

	return res, nil
}

func writeContainer(root, identifier string, key keys.Key, content manifest.Content) error {
	payload, err := manifest.Encode(content)
	if err != nil {
		return err
	}

	if err := encryption.EncryptInPlace(key, payload); err != nil {
		return fmt.Errorf("encrypting manifest: %w", err)
	}

	if err := container.Write(container.Path(root), identifier, payload); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}

	return nil
}

// copyNormalized copies src to dst, reformatting JSON files with format when they parse.
func copyNormalized(src, dst, rel string, format func(jsonfmt.Document) []byte) (int64, error) {
	if !jsonfmt.Applies(rel) {
		return fileutil.CopyFile(src, dst)
	}

	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return 0, fmt.Errorf("reading input file: %w", err)
	}

	data = format(jsonfmt.Parse(data))

	if err := fileutil.WriteFile(dst, data); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}
