package commands

import (
	"runtime"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command with common configuration.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "packcrypt [flags] command [flags]"
	root.Short = "Resource pack encryption utility"
	root.Long = `Encrypts a resource pack directory into an archive of per-file encrypted entries
plus an encrypted contents.json manifest, and decrypts such archives back.`

	root.PersistentFlags().BoolP("show", "s", false, "Show the configuration and exit")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("stats", false, "Print statistics when done")

	root.AddCommand(
		NewEncryptCommand(),
		NewDecryptCommand(),
		NewCheckCommand(),
		NewInspectCommand(),
		NewGenerateCommand(),
	)

	return root
}
