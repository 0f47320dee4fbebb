package commands

import (
	"fmt"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/config"
)

// preRun returns a PreRunE handler that loads flags and environment into cfg,
// resolves the positional arguments and validates the result.
func preRun(cfg *config.Config, decrypt bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd)
		if err != nil {
			return err
		}

		*cfg = *loaded

		cfg.Input = args[0]
		if len(args) > 1 {
			cfg.Output = args[1]
		}

		cfg.Decrypt = decrypt

		return cobraext.Validate(cfg, cfg)
	}
}

// show prints the configuration and reports whether the command should stop.
func show(cmd *cobra.Command, cfg *config.Config) (bool, error) {
	if !cfg.Show {
		return false, nil
	}

	out, err := cfg.Render()
	if err != nil {
		return true, err
	}

	fmt.Fprint(cmd.OutOrStdout(), out)

	return true, nil
}

func keyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("key", "k", "", "Top-level key (32 bytes)")
	cmd.Flags().StringP("key-file", "f", "", "Path to a file holding the top-level key")
}

func excludeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("exclude", "e", nil, "Path pattern to leave in cleartext, may be repeated")
	cmd.Flags().String("exclude-from", "", "JSON or JSONC file with a list of exclude patterns")
}
