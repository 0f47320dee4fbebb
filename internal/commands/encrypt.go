package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "encrypt [flags] input output",
		Aliases: []string{"enc"},
		Short:   "Encrypt a pack directory",
		Long: `Encrypts every file of the input pack into the output directory and writes the
encrypted manifest to contents.json. Without --key a key is generated and stored
next to the output as <output>.key.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: preRun(cfg, false),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := show(cmd, cfg); done {
				return err
			}

			return logic.RunEncrypt(cmd.Context(), cfg)
		},
	}

	keyFlags(cmd)
	excludeFlags(cmd)
	cmd.Flags().Bool("dry", false, "Show what would be done without writing anything")

	return cmd
}
