package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "decrypt [flags] input output",
		Aliases: []string{"dec"},
		Short:   "Decrypt an archive",
		Long: `Decrypts the archive at input into the output directory. Without --key, --key-file
or --ask the key is read from <input>.key.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: preRun(cfg, true),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := show(cmd, cfg); done {
				return err
			}

			return logic.RunDecrypt(cmd.Context(), cfg)
		},
	}

	keyFlags(cmd)
	cmd.Flags().BoolP("ask", "a", false, "Prompt for the key")
	cmd.Flags().Bool("verify-header", false, "Reject containers with an unknown magic or version")

	return cmd
}
