// Package logic connects the command configuration to the archive pipelines.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/idelchi/packcrypt/internal/archive"
	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/filter"
	"github.com/idelchi/packcrypt/internal/keys"
)

// ErrNoTerminal is returned when --ask is used without an interactive terminal.
var ErrNoTerminal = errors.New("reading key: stdin is not a terminal")

// RunEncrypt encrypts cfg.Input into cfg.Output.
func RunEncrypt(ctx context.Context, cfg *config.Config) error {
	patterns, err := filter.Collect(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return err
	}

	key, err := resolveKey(cfg)
	if err != nil {
		return err
	}

	opts := options(cfg, key)
	opts.Exclude = patterns
	opts.Dry = cfg.Dry

	enc, err := archive.NewEncryptor(opts)
	if err != nil {
		return err
	}

	summary, err := enc.Run(ctx)

	if cfg.Stats {
		printStats(os.Stderr, summary)
	}

	if err != nil {
		return fmt.Errorf("encrypting %q: %w", cfg.Input, err)
	}

	return nil
}

// RunDecrypt decrypts the archive at cfg.Input into cfg.Output.
func RunDecrypt(ctx context.Context, cfg *config.Config) error {
	key, err := resolveKey(cfg)
	if err != nil {
		return err
	}

	opts := options(cfg, key)
	opts.VerifyHeader = cfg.VerifyHeader

	summary, err := archive.NewDecryptor(opts).Run(ctx)

	if cfg.Stats {
		printStats(os.Stderr, summary)
	}

	if err != nil {
		return fmt.Errorf("decrypting %q: %w", cfg.Input, err)
	}

	return nil
}

// Generate writes a fresh key to w.
func Generate(w io.Writer) error {
	key := keys.NewRandom().Generate()
	defer key.Wipe()

	_, err := fmt.Fprintln(w, key)

	return err
}

func options(cfg *config.Config, key keys.Key) archive.Options {
	return archive.Options{
		Input:    cfg.Input,
		Output:   cfg.Output,
		Key:      key,
		Parallel: cfg.Parallel,
		Quiet:    cfg.Quiet,
	}
}

// resolveKey returns the key given on the command line, in a key file, or typed at a prompt.
// A nil key lets the pipeline fall back to generation or the sidecar file.
func resolveKey(cfg *config.Config) (keys.Key, error) {
	switch {
	case cfg.Key != "":
		return keys.Key(cfg.Key), nil
	case cfg.KeyFile != "":
		data, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		return keys.Key(strings.TrimRight(string(data), "\r\n")), nil
	case cfg.Ask:
		return promptKey()
	default:
		return nil, nil
	}
}

func promptKey() (keys.Key, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, "Key: ")

	data, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	return keys.Key(data), nil
}

func printStats(w io.Writer, s archive.Summary) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", s.Scanned)
	fmt.Fprintf(w, "  Encrypted: %d\n", s.Encrypted)
	fmt.Fprintf(w, "  Decrypted: %d\n", s.Decrypted)
	fmt.Fprintf(w, "  Copied:    %d\n", s.Copied)
	fmt.Fprintf(w, "  Skipped:   %d\n", s.Skipped)
	fmt.Fprintf(w, "  Missing:   %d\n", s.Missing)
	//nolint:gosec // Size is a sum of file sizes
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, s.Size))))
	fmt.Fprintf(w, "  Duration:  %s\n", s.Duration.Round(time.Millisecond))
}
