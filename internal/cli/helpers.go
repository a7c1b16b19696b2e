package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lherron/archmerge/internal/cli/appctx"
	"github.com/lherron/archmerge/internal/loader"
	"github.com/lherron/archmerge/internal/merge"
	"github.com/lherron/archmerge/internal/render"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/pmezard/go-difflib/difflib"
)

// outputFormat picks the --output flag when given, else the configured default
func outputFormat(app *appctx.App, flagValue string) (render.Format, error) {
	if flagValue == "" {
		flagValue = app.Config.Output
	}
	return render.ParseFormat(flagValue)
}

// loadSources decodes the workspace files, directories and glob patterns
// named on the command line
func loadSources(ctx context.Context, app *appctx.App, args []string, jobs int) ([]merge.Source, error) {
	paths, err := loader.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	if jobs < 0 {
		jobs = app.Config.Jobs
	}
	return loader.LoadFiles(ctx, paths, loader.Options{Jobs: jobs, Logger: app.Logger})
}

// renderReport prints a merge report
func renderReport(w io.Writer, format render.Format, report *merge.Report) error {
	headers := []string{"KIND", "SEEN", "CREATED", "EXTERNAL", "DROPPED"}
	row := func(kind string, c merge.Counts) []string {
		return []string{kind, strconv.Itoa(c.Seen), strconv.Itoa(c.Created), strconv.Itoa(c.External), "0"}
	}
	rels := report.Relationships
	rows := [][]string{
		row("Person", report.People),
		row("SoftwareSystem", report.SoftwareSystems),
		row("Container", report.Containers),
		row("Component", report.Components),
		{"Relationship", strconv.Itoa(rels.Seen), strconv.Itoa(rels.Created), strconv.Itoa(rels.External),
			strconv.Itoa(rels.FromPlaceholder + rels.Duplicate)},
	}

	if err := render.NewRenderer(w, format).Render(report, headers, rows); err != nil {
		return err
	}

	if format == render.FormatTable {
		suffix := ""
		if report.DryRun {
			suffix = " (dry run)"
		}
		fmt.Fprintf(w, "\nDestination: %d elements, %d relationships%s\n",
			report.TotalElements, report.TotalRelationships, suffix)
	}
	return nil
}

// writeReportFile writes the report as indented JSON
func writeReportFile(path string, report *merge.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// unifiedDiff compares the YAML renderings of two workspaces
func unifiedDiff(fromName, toName string, from, to *workspace.Workspace, context int) (string, error) {
	a, err := canonicalYAML(from)
	if err != nil {
		return "", err
	}
	b, err := canonicalYAML(to)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	})
}

func canonicalYAML(ws *workspace.Workspace) (string, error) {
	var buf bytes.Buffer
	if err := workspace.Encode(&buf, ws, workspace.FormatYAML); err != nil {
		return "", err
	}
	return buf.String(), nil
}
