package logic

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/packcrypt/internal/archive"
	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/container"
)

// RunInspect prints the container header of the archive at cfg.Input and, when a key
// is available, the manifest entries.
func RunInspect(cfg *config.Config, w io.Writer) error {
	path := container.Path(cfg.Input)

	header, err := container.ReadHeader(path)
	if err != nil {
		return err
	}

	size, err := container.PayloadSize(path)
	if err != nil {
		return err
	}

	status := "ok"
	if err := header.Verify(); err != nil {
		status = err.Error()
	}

	fmt.Fprintf(w, "Container:  %s\n", path)
	fmt.Fprintf(w, "Version:    %d\n", header.Version)
	fmt.Fprintf(w, "Magic:      0x%08X (%s)\n", header.Magic, status)
	if header.Truncated() {
		fmt.Fprintf(w, "Identifier: %s (%d of %d bytes, rest overwritten by the payload)\n",
			header.Identifier, len(header.Identifier), header.Length)
	} else {
		fmt.Fprintf(w, "Identifier: %s\n", header.Identifier)
	}
	//nolint:gosec // payload size is never negative for a readable container
	fmt.Fprintf(w, "Payload:    %s\n", humanize.IBytes(uint64(size)))

	supplied, err := resolveKey(cfg)
	if err != nil {
		return err
	}

	if supplied == nil {
		if _, err := os.Stat(archive.SidecarPath(cfg.Input)); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	key, err := archive.ResolveKey(supplied, cfg.Input)
	if err != nil {
		return err
	}
	defer key.Wipe()

	content, err := archive.ReadContent(cfg.Input, key, false)
	if err != nil {
		return err
	}

	content.Normalize()

	fmt.Fprintf(w, "Manifest:   version %d, %d entries\n", content.Version, len(content.Content))

	for _, entry := range content.Content {
		mode := "cleartext"
		if entry.Encrypted() {
			mode = "encrypted"
		}

		fmt.Fprintf(w, "  %-9s  %s\n", mode, entry.Path)
	}

	return nil
}
