package cli

import (
	"fmt"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm NAME...",
	Short: "Remove stored workspaces",
	Args:  cobra.MinimumNArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runRm),
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(app *appctx.App, cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if err := app.Store.Workspaces.Delete(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
	}
	return nil
}
