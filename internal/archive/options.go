package archive

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/idelchi/packcrypt/internal/keys"
)

// KeySuffix is appended to the archive root to name the sidecar key file.
const KeySuffix = ".key"

// Options configures an Encryptor or Decryptor.
type Options struct {
	// Input is the pack (encrypt) or archive (decrypt) root.
	Input string
	// Output is the root of the mirrored tree to produce.
	Output string
	// Key is the top-level key. When nil, encrypt generates one and decrypt
	// reads the sidecar key file next to Input.
	Key keys.Key
	// Exclude lists glob patterns of files stored in cleartext (encrypt only).
	Exclude []string
	// Parallel limits the number of files processed concurrently.
	Parallel int
	// VerifyHeader rejects containers with a foreign magic or version (decrypt only).
	VerifyHeader bool
	// Dry reports what encrypt would do without writing anything.
	Dry bool
	// Quiet suppresses per-file progress lines.
	Quiet bool
	// Generator produces keys; defaults to keys.NewRandom.
	Generator keys.Generator
	// Stdout receives progress, Stderr warnings. Both default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Parallel < 1 {
		o.Parallel = runtime.NumCPU()
	}

	if o.Generator == nil {
		o.Generator = keys.NewRandom()
	}

	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	return o
}

// SidecarPath returns the location of the key file for an archive root.
func SidecarPath(root string) string {
	return filepath.Clean(root) + KeySuffix
}

// outputPath mirrors a relative pack path under root.
func outputPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
