package cli

import (
	"fmt"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/merge"
	"github.com/lherron/archmerge/internal/model"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWorkspaceName = "merged"

var mergeCmd = &cobra.Command{
	Use:   "merge SOURCE...",
	Short: "Merge workspace files into one workspace",
	Long: `Merge reads every SOURCE workspace file (.json, .yaml or .yml) and merges
their models into a destination model. A SOURCE may also be a directory,
searched recursively, or a glob pattern such as 'teams/**/*.yaml'.

The destination starts empty, or from the workspace given with --into. The
merged workspace is written to --out (or back to --into) and, with --save,
stored in the database under --name.

The merge is all-or-nothing: if any source fails validation nothing is
written. Use --dry-run to validate and report without writing, and --diff
to print how the destination would change.

Examples:
  archmerge merge billing.yaml shipping.yaml --out landscape.yaml
  archmerge merge 'teams/**/*.json' --into landscape.json --dry-run --diff
  archmerge merge a.yaml b.yaml --save --name landscape -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

var (
	mergeInto       string
	mergeOut        string
	mergeDryRun     bool
	mergeReportPath string
	mergeSave       bool
	mergeName       string
	mergeOutput     string
	mergeJobs       int
	mergeDiff       bool
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeInto, "into", "", "Existing workspace file to merge into")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "Write the merged workspace to this file (defaults to --into)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Validate and report without writing")
	mergeCmd.Flags().StringVar(&mergeReportPath, "report", "", "Write JSON report to path")
	mergeCmd.Flags().BoolVar(&mergeSave, "save", false, "Save the merged workspace to the database")
	mergeCmd.Flags().StringVar(&mergeName, "name", "", "Name of the merged workspace")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Report format: table, json, yaml, tsv")
	mergeCmd.Flags().IntVar(&mergeJobs, "jobs", -1, "Files decoded in parallel (0 = one per CPU, default from config)")
	mergeCmd.Flags().BoolVar(&mergeDiff, "diff", false, "Print a unified diff of the destination before and after the merge")
}

func runMerge(cmd *cobra.Command, args []string) error {
	outPath := mergeOut
	if outPath == "" {
		outPath = mergeInto
	}
	if !mergeDryRun && outPath == "" && !mergeSave {
		return fmt.Errorf("nothing to write: use --out, --into or --save (or --dry-run)")
	}

	app, err := appctx.Bootstrap(cmd, appctx.Options{NeedsDB: mergeSave && !mergeDryRun, Migrate: true})
	if err != nil {
		return err
	}
	defer app.Close()

	format, err := outputFormat(app, mergeOutput)
	if err != nil {
		return err
	}

	sources, err := loadSources(cmd.Context(), app, args, mergeJobs)
	if err != nil {
		return err
	}

	dest, name, description, err := loadDestination(mergeInto, mergeName)
	if err != nil {
		return err
	}

	merger := merge.NewMerger(
		merge.WithLogger(app.Logger),
		merge.WithDryRun(mergeDryRun),
		merge.WithSourceProperty(app.Config.SourceProperty),
	)

	var report *merge.Report
	if mergeDiff {
		planned, planReport, err := merger.Plan(sources, dest)
		if err != nil {
			return err
		}
		before := workspace.FromModel(name, description, dest)
		after := workspace.FromModel(name, description, planned)
		diff, err := unifiedDiff(destinationLabel(mergeInto), name+" (merged)", before, after, 3)
		if err != nil {
			return fmt.Errorf("failed to compute diff: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		if !mergeDryRun {
			dest = planned
		}
		report = planReport
	} else {
		report, err = merger.Merge(sources, dest)
		if err != nil {
			return err
		}
	}

	if !mergeDryRun {
		ws := workspace.FromModel(name, description, dest)
		if outPath != "" {
			if err := workspace.SaveFile(outPath, ws); err != nil {
				return fmt.Errorf("failed to write merged workspace: %w", err)
			}
			app.Logger.Info("wrote merged workspace", zap.String("path", outPath))
		}
		if mergeSave {
			rev, err := app.Store.Workspaces.Save(cmd.Context(), ws)
			if err != nil {
				return fmt.Errorf("failed to save workspace: %w", err)
			}
			app.Logger.Info("saved merged workspace", zap.String("name", name), zap.String("rev", rev))
		}
	}

	if mergeReportPath != "" {
		if err := writeReportFile(mergeReportPath, report); err != nil {
			return err
		}
	}

	return renderReport(cmd.OutOrStdout(), format, report)
}

// loadDestination returns the model to merge into together with the name and
// description of the resulting workspace
func loadDestination(path, name string) (*model.Model, string, string, error) {
	if path == "" {
		if name == "" {
			name = defaultWorkspaceName
		}
		return model.New(), name, "", nil
	}

	doc, err := workspace.LoadFile(path)
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", path, err)
	}
	m, err := doc.ToModel()
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", path, err)
	}

	if name == "" {
		name = doc.Name
	}
	if name == "" {
		name = defaultWorkspaceName
	}
	return m, name, doc.Description, nil
}

func destinationLabel(into string) string {
	if into == "" {
		return "(empty)"
	}
	return into
}
