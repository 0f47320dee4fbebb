package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/config"
	"github.com/idelchi/packcrypt/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "check [flags] input",
		Short:   "Validate that exclude patterns match files",
		Args:    cobra.ExactArgs(1),
		PreRunE: preRun(cfg, false),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := show(cmd, cfg); done {
				return err
			}

			return logic.RunCheck(cfg, cmd.OutOrStdout())
		},
	}

	excludeFlags(cmd)

	return cmd
}
