package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/packcrypt/internal/logic"
)

// NewGenerateCommand creates a new cobra command that prints a fresh key.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new top-level key",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Generate(cmd.OutOrStdout())
		},
	}
}
