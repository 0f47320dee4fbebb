package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/packcrypt/internal/config"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("key", "k", "", "")
	cmd.Flags().String("key-file", "", "")
	cmd.Flags().Bool("ask", false, "")
	cmd.Flags().StringSliceP("exclude", "e", nil, "")
	cmd.Flags().IntP("parallel", "j", 4, "")
	cmd.Flags().Bool("verify-header", false, "")

	require.NoError(t, cmd.ParseFlags(args))

	return cmd
}

func TestLoadFlags(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(newCommand(t, "--key", "abc", "-e", "*.png", "-e", "texts/*", "--verify-header"))
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Key)
	assert.Equal(t, []string{"*.png", "texts/*"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Parallel)
	assert.True(t, cfg.VerifyHeader)
	assert.True(t, cfg.HasKey())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PACKCRYPT_KEY_FILE", "/tmp/pack.key")
	t.Setenv("PACKCRYPT_PARALLEL", "2")

	cfg, err := config.Load(newCommand(t))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pack.key", cfg.KeyFile)
	assert.Equal(t, 2, cfg.Parallel)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	keyFile := filepath.Join(t.TempDir(), "pack.key")
	require.NoError(t, os.WriteFile(keyFile, []byte(strings.Repeat("k", 32)), 0o600))

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{name: "minimal", cfg: config.Config{Input: "pack", Parallel: 1}},
		{name: "key", cfg: config.Config{Input: "pack", Parallel: 1, Key: "k"}},
		{name: "key file", cfg: config.Config{Input: "pack", Parallel: 1, KeyFile: keyFile}},
		{name: "missing input", cfg: config.Config{Parallel: 1}, wantErr: "input"},
		{name: "zero workers", cfg: config.Config{Input: "pack"}, wantErr: "parallel"},
		{
			name:    "key and key file",
			cfg:     config.Config{Input: "pack", Parallel: 1, Key: "k", KeyFile: keyFile},
			wantErr: "key is mutually exclusive",
		},
		{
			name:    "ask and key",
			cfg:     config.Config{Input: "pack", Parallel: 1, Key: "k", Ask: true},
			wantErr: "ask cannot be combined",
		},
		{
			name:    "key file missing",
			cfg:     config.Config{Input: "pack", Parallel: 1, KeyFile: keyFile + ".absent"},
			wantErr: "key-file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate(&tc.cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, config.ErrUsage)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDisplayMasksKey(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Input: "pack", Output: "out", Key: "secret", Parallel: 2}

	assert.False(t, cfg.Display())

	out, err := cfg.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "******")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "input: pack")
}
