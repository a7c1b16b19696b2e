package cli

import (
	"strconv"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/render"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored workspaces",
	Args:    cobra.NoArgs,
	RunE:    appctx.WithApp(appctx.DefaultOptions(), runLs),
}

var lsOutput string

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVarP(&lsOutput, "output", "o", "", "Output format: table, json, yaml, tsv")
}

func runLs(app *appctx.App, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(app, lsOutput)
	if err != nil {
		return err
	}

	infos, err := app.Store.Workspaces.List(cmd.Context())
	if err != nil {
		return err
	}

	headers := []string{"NAME", "ELEMENTS", "RELATIONSHIPS", "UPDATED", "REV"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			strconv.Itoa(info.Elements),
			strconv.Itoa(info.Relationships),
			info.UpdatedAt,
			shortRev(info.Rev),
		})
	}

	return render.NewRenderer(cmd.OutOrStdout(), format).Render(infos, headers, rows)
}

// shortRev trims a sha256 rev to a readable prefix
func shortRev(rev string) string {
	const keep = len("sha256:") + 12
	if len(rev) > keep {
		return rev[:keep]
	}
	return rev
}
