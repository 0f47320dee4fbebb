package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/packcrypt/internal/fileutil"
)

func TestWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "a", "b", "c.bin")

	require.NoError(t, fileutil.WriteFile(target, []byte("payload")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, fileutil.WriteFile(target, []byte("new")))

	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	assertNoTemps(t, filepath.Dir(target))
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "out", "dst.png")

	require.NoError(t, os.WriteFile(src, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	size, err := fileutil.CopyFile(src, dst)
	require.NoError(t, err)
	assert.EqualValues(t, 4, size)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	_, err = fileutil.CopyFile(filepath.Join(dir, "missing"), dst)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCleanupOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tc, err := fileutil.NewTempContext(filepath.Join(dir, "never.bin"))
	require.NoError(t, err)

	failed := errors.New("boom")
	tc.CleanupOnError(&failed)

	assertNoTemps(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, "never.bin"))
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	assert.True(t, fileutil.SamePath("pack/a.json", "pack/./a.json"))
	assert.True(t, fileutil.SamePath("pack", "pack/"))
	assert.False(t, fileutil.SamePath("pack/a.json", "out/a.json"))
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
