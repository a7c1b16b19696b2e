package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "archmerge",
	Short: "Merge architecture models from several workspaces into one",
	Long: `archmerge combines software architecture models (people, software systems,
containers, components and their relationships) kept in separate workspace
files into a single model.

Elements tagged "External" in one workspace are placeholders for elements
defined in another workspace; every placeholder must be resolved by some
source or by the destination. Merged workspaces can be written to files or
saved to a SQLite store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to database file (overrides ARCHMERGE_DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides ARCHMERGE_LOG_LEVEL)")
}
