package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCommand builds the glob-sweep command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "glob-sweep",
		Short: "Glob-driven file and folder deletion engine",
		Long: `glob-sweep removes build artifacts and scratch trees described by
declarative delete operations: a root folder, a glob pattern, and optional
exclusions. Files are deleted before folders with bounded parallelism, and
targets that are already gone never fail a batch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "/etc/glob-sweep/config.yaml", "path to configuration file")
	root.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "resolve and report without deleting")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newDaemonCommand())
	root.AddCommand(newHistoryCommand())
	return root
}
