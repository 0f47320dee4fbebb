package logic

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/packcrypt/internal/archive"
	"github.com/idelchi/packcrypt/internal/config"
)

func TestResolveKey(t *testing.T) {
	t.Parallel()

	keyFile := filepath.Join(t.TempDir(), "pack.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("FileKey0123456789abcdefghijklmno\n"), 0o600))

	key, err := resolveKey(&config.Config{KeyFile: keyFile})
	require.NoError(t, err)
	assert.Equal(t, "FileKey0123456789abcdefghijklmno", key.String())

	key, err = resolveKey(&config.Config{Key: "literal"})
	require.NoError(t, err)
	assert.Equal(t, "literal", key.String())

	key, err = resolveKey(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, key)

	_, err = resolveKey(&config.Config{KeyFile: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestPrintStats(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	printStats(&out, archive.Summary{
		Scanned:   4,
		Encrypted: 3,
		Copied:    1,
		Size:      3 * 1024 * 1024,
		Duration:  1500 * time.Millisecond,
	})

	assert.Contains(t, out.String(), "Encrypted: 3")
	assert.Contains(t, out.String(), "3.0 MiB")
	assert.Contains(t, out.String(), "1.5s")
}

func TestRunCheckInvalidPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o600))

	var out bytes.Buffer

	err := RunCheck(&config.Config{Input: root, Exclude: []string{"a\\", "*.txt", "a[1.txt"}}, &out)
	require.Error(t, err)

	assert.Contains(t, out.String(), "exclude: a\\: invalid pattern")
	assert.Contains(t, out.String(), "exclude: a[1.txt: 0 files (ERROR)")
	assert.Contains(t, out.String(), "exclude: *.txt: 1 files")
}

func TestRunCheckWithoutPatterns(t *testing.T) {
	t.Parallel()

	require.Error(t, RunCheck(&config.Config{Input: t.TempDir()}, &bytes.Buffer{}))
}

func TestRunInspectWithoutKey(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "contents.json"), make([]byte, 0x100), 0o600))

	var out bytes.Buffer

	require.NoError(t, RunInspect(&config.Config{Input: root}, &out))

	assert.Contains(t, out.String(), "Version:    0")
	assert.Contains(t, out.String(), "bad container magic")
	assert.NotContains(t, out.String(), "Manifest:")
}
