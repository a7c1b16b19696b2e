package cli

import (
	"strconv"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/render"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history NAME",
	Short: "Show the event log of a stored workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runHistory),
}

var historyOutput string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Output format: table, json, yaml, tsv")
}

func runHistory(app *appctx.App, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(app, historyOutput)
	if err != nil {
		return err
	}

	events, err := app.Store.Workspaces.History(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	headers := []string{"ID", "TIMESTAMP", "EVENT", "PAYLOAD"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		payload := ""
		if e.Payload != nil {
			payload = *e.Payload
		}
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Timestamp, e.EventType, payload})
	}

	return render.NewRenderer(cmd.OutOrStdout(), format).Render(events, headers, rows)
}
