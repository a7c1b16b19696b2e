package cli

import (
	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/merge"
	"github.com/lherron/archmerge/internal/model"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check SOURCE...",
	Short: "Check that workspace files merge cleanly",
	Long: `Check performs a dry-run merge of every SOURCE into an empty model and
prints the report. It fails with the merge error when the sources cannot be
merged, for example when a placeholder is not defined by any source.`,
	Args: cobra.MinimumNArgs(1),
	RunE: appctx.WithApp(appctx.Options{}, runCheck),
}

var (
	checkOutput string
	checkJobs   int
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Report format: table, json, yaml, tsv")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", -1, "Files decoded in parallel (0 = one per CPU, default from config)")
}

func runCheck(app *appctx.App, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(app, checkOutput)
	if err != nil {
		return err
	}

	sources, err := loadSources(cmd.Context(), app, args, checkJobs)
	if err != nil {
		return err
	}

	report, err := merge.Merge(sources, model.New(),
		merge.WithLogger(app.Logger),
		merge.WithDryRun(true),
	)
	if err != nil {
		return err
	}

	return renderReport(cmd.OutOrStdout(), format, report)
}
