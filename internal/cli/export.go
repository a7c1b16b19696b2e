package cli

import (
	"fmt"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export NAME",
	Short: "Export a stored workspace",
	Long: `Export reads the workspace stored under NAME and writes it to --out, or to
stdout in the format given by --format.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runExport),
}

var (
	exportOut    string
	exportFormat string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file (format from extension)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Format for stdout: yaml or json")
}

func runExport(app *appctx.App, cmd *cobra.Command, args []string) error {
	ws, err := app.Store.Workspaces.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if exportOut != "" {
		if err := workspace.SaveFile(exportOut, ws); err != nil {
			return fmt.Errorf("failed to export workspace: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", ws.Name, exportOut)
		return nil
	}

	format := workspace.Format(exportFormat)
	if format != workspace.FormatYAML && format != workspace.FormatJSON {
		return fmt.Errorf("unsupported export format %q (want yaml or json)", exportFormat)
	}
	return workspace.Encode(cmd.OutOrStdout(), ws, format)
}
