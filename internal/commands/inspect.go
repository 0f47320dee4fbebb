package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/logic"
)

// NewInspectCommand creates a new cobra command for the inspect subcommand.
func NewInspectCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "inspect [flags] archive",
		Short: "Show the container header and manifest of an archive",
		Long: `Prints the contents.json header. The manifest entries are listed as well when a
key is given or <archive>.key exists.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: preRun(cfg, true),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunInspect(cfg, cmd.OutOrStdout())
		},
	}

	keyFlags(cmd)

	return cmd
}
