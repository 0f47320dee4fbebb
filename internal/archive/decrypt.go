package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/packcrypt/internal/container"
	"github.com/idelchi/packcrypt/internal/encryption"
	"github.com/idelchi/packcrypt/internal/fileutil"
	"github.com/idelchi/packcrypt/internal/jsonfmt"
	"github.com/idelchi/packcrypt/internal/keys"
	"github.com/idelchi/packcrypt/internal/manifest"
)

// Decryptor reconstructs a pack directory from an archive.
type Decryptor struct {
	opts Options
}

// NewDecryptor prepares a Decryptor.
func NewDecryptor(opts Options) *Decryptor {
	return &Decryptor{opts: opts.withDefaults()}
}

// ResolveKey returns the supplied key, or the contents of the sidecar key file.
func ResolveKey(supplied keys.Key, archiveRoot string) (keys.Key, error) {
	if supplied != nil {
		return slices.Clone(supplied), nil
	}

	data, err := os.ReadFile(SidecarPath(archiveRoot))
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	return keys.Key(data), nil
}

// ReadContent decrypts and decodes the manifest of the archive at root.
// A decode failure is reported as manifest.ErrManifestUnreadable since it usually means a wrong key.
func ReadContent(root string, key keys.Key, verifyHeader bool) (manifest.Content, error) {
	if err := key.Validate(); err != nil {
		return manifest.Content{}, fmt.Errorf("top-level key: %w", err)
	}

	path := container.Path(root)

	if verifyHeader {
		header, err := container.ReadHeader(path)
		if err != nil {
			return manifest.Content{}, err
		}

		if err := header.Verify(); err != nil {
			return manifest.Content{}, fmt.Errorf("%q: %w", path, err)
		}
	}

	payload, err := container.Read(path)
	if err != nil {
		return manifest.Content{}, err
	}

	if err := encryption.DecryptInPlace(key, payload); err != nil {
		return manifest.Content{}, fmt.Errorf("decrypting manifest: %w", err)
	}

	content, err := manifest.Decode(payload)
	if err != nil {
		return manifest.Content{}, fmt.Errorf("%w, key may be wrong: %w", manifest.ErrManifestUnreadable, err)
	}

	return content, nil
}

// Run decrypts the archive. Entries with unusable keys are skipped with a warning;
// entries whose files are absent are skipped silently.
func (d *Decryptor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	opts := d.opts

	key, err := ResolveKey(opts.Key, opts.Input)
	if err != nil {
		return Summary{}, err
	}
	defer key.Wipe()

	content, err := ReadContent(opts.Input, key, opts.VerifyHeader)
	if err != nil {
		return Summary{}, err
	}

	content.Normalize()

	out := startPrinter(opts.Stdout, opts.Stderr, opts.Quiet, len(content.Content), false)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Parallel)

	for _, entry := range content.Content {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := d.processEntry(entry)
			if err != nil {
				return fmt.Errorf("processing %q: %w", entry.Path, err)
			}

			out.results <- res

			return nil
		})
	}

	err = group.Wait()

	out.finish()

	summary := out.summary
	summary.Scanned = len(content.Content)
	summary.Duration = time.Since(start)

	if err != nil {
		return summary, fmt.Errorf("decrypting files: %w", err)
	}

	if !opts.Quiet {
		fmt.Fprintln(opts.Stdout, "Decryption finished")
	}

	return summary, nil
}

func (d *Decryptor) processEntry(entry manifest.Entry) (Result, error) {
	res := Result{Rel: entry.Path, Entry: entry}
	source := outputPath(d.opts.Input, entry.Path)
	target := outputPath(d.opts.Output, entry.Path)

	info, err := os.Stat(source)

	switch {
	case errors.Is(err, os.ErrNotExist), err == nil && !info.Mode().IsRegular():
		res.Action = ActionMissing

		return res, nil
	case err != nil:
		return res, fmt.Errorf("stat input file: %w", err)
	}

	if !entry.Encrypted() {
		res.Action = ActionCopied

		if fileutil.SamePath(source, target) {
			res.Action = ActionKept

			return res, nil
		}

		res.Size, err = copyNormalized(source, target, entry.Path, jsonfmt.Document.Pretty)

		return res, err
	}

	key := keys.Key(*entry.Key)
	if err := key.Validate(); err != nil {
		res.Action = ActionSkipped
		res.Warning = err.Error()

		return res, nil
	}

	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return res, fmt.Errorf("reading input file: %w", err)
	}

	if err := encryption.DecryptInPlace(key, data); err != nil {
		return res, err
	}

	if jsonfmt.Applies(entry.Path) {
		data = jsonfmt.Parse(data).Pretty()
	}

	if err := fileutil.WriteFile(target, data); err != nil {
		return res, err
	}

	res.Action = ActionDecrypted
	res.Size = int64(len(data))

	return res, nil
}
