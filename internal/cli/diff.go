package cli

import (
	"fmt"

	"github.com/lherron/archmerge/internal/changes"
	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/render"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two workspace files",
	Long: `Diff prints a unified diff of the YAML renderings of two workspace files.
The files may use different formats; both are decoded and re-encoded before
comparing, so only content differences show up.

With --summary, elements are matched by canonical name and relationships by
source, destination and description, and the added, updated and removed
ones are listed instead.

Examples:
  archmerge diff landscape.yaml landscape.json
  archmerge diff old.yaml new.yaml --unified 5
  archmerge diff old.yaml new.yaml --summary -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

var (
	diffUnified int
	diffSummary bool
	diffOutput  string
)

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().IntVar(&diffUnified, "unified", 3, "Lines of unified context")
	diffCmd.Flags().BoolVar(&diffSummary, "summary", false, "List changed elements and relationships instead of a text diff")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "Summary format: table, json, yaml, tsv")
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := workspace.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	b, err := workspace.LoadFile(args[1])
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	if diffSummary {
		return renderChanges(cmd, a, b)
	}

	diff, err := unifiedDiff(args[0], args[1], a, b, diffUnified)
	if err != nil {
		return fmt.Errorf("failed to compute diff: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), diff)
	return nil
}

func renderChanges(cmd *cobra.Command, a, b *workspace.Workspace) error {
	app, err := appctx.Bootstrap(cmd, appctx.Options{})
	if err != nil {
		return err
	}
	defer app.Close()

	format, err := outputFormat(app, diffOutput)
	if err != nil {
		return err
	}

	summary, err := changes.Compare(a, b)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(summary.Changes))
	for _, c := range summary.Changes {
		rows = append(rows, []string{c.Op, c.Entity, c.Key})
	}
	if err := render.NewRenderer(cmd.OutOrStdout(), format).Render(summary, []string{"OP", "ENTITY", "KEY"}, rows); err != nil {
		return err
	}
	if format == render.FormatTable {
		if len(rows) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary.Summary)
	}
	return nil
}
