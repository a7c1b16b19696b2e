package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lherron/archmerge/internal/changes"
	"github.com/lherron/archmerge/internal/events"
	"github.com/lherron/archmerge/internal/merge"
	"github.com/lherron/archmerge/internal/store"
	"github.com/lherron/archmerge/internal/testutil"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const billingYAML = `
name: Billing
model:
  elements:
    - id: "1"
      kind: Person
      name: Customer
    - id: "2"
      kind: SoftwareSystem
      name: Billing
      description: Sends invoices
    - id: "3"
      kind: SoftwareSystem
      name: Payments
      tags: [External]
  relationships:
    - id: "4"
      source: "1"
      destination: "2"
      description: Pays invoices with
    - id: "5"
      source: "2"
      destination: "3"
      description: Charges cards via
      technology: HTTPS
`

const paymentsYAML = `
name: Payments
model:
  elements:
    - id: "1"
      kind: SoftwareSystem
      name: Payments
      description: Card processing
    - id: "2"
      kind: Container
      name: API
      technology: Go
      parent: "1"
`

// setupCLI isolates configuration and writes the fixture workspaces
func setupCLI(t *testing.T) (dir, dbPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARCHMERGE_DB_PATH", "")
	t.Setenv("ARCHMERGE_LOG_LEVEL", "error")
	t.Setenv("ARCHMERGE_LOG_FORMAT", "")
	t.Setenv("ARCHMERGE_OUTPUT", "")
	t.Setenv("ARCHMERGE_JOBS", "")
	t.Setenv("ARCHMERGE_SOURCE_PROPERTY", "workspace-name")

	testutil.WriteFile(t, dir, "billing.yaml", billingYAML)
	testutil.WriteFile(t, dir, "payments.yaml", paymentsYAML)
	return dir, filepath.Join(dir, "store", "archmerge.db")
}

// runCLI executes the root command with fresh flag values
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestMergeCommand_WritesWorkspaceAndReport(t *testing.T) {
	dir, _ := setupCLI(t)
	out := filepath.Join(dir, "merged.json")
	reportPath := filepath.Join(dir, "report.json")

	stdout, err := runCLI(t, "merge",
		filepath.Join(dir, "billing.yaml"), filepath.Join(dir, "payments.yaml"),
		"--out", out, "--report", reportPath, "--name", "Landscape", "-o", "json")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var report merge.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stdout)
	}
	if report.SoftwareSystems.Created != 2 || report.SoftwareSystems.External != 1 {
		t.Errorf("unexpected software system counts: %+v", report.SoftwareSystems)
	}
	if report.Relationships.Created != 2 {
		t.Errorf("expected 2 relationships created, got %d", report.Relationships.Created)
	}
	if report.TotalElements != 4 {
		t.Errorf("expected 4 elements, got %d", report.TotalElements)
	}

	if got := testutil.ReadFile(t, reportPath); !strings.Contains(got, `"total_elements": 4`) {
		t.Errorf("report file missing totals:\n%s", got)
	}

	merged, err := workspace.LoadFile(out)
	if err != nil {
		t.Fatalf("failed to load merged workspace: %v", err)
	}
	if merged.Name != "Landscape" {
		t.Errorf("expected name Landscape, got %q", merged.Name)
	}

	want := []string{"Customer", "Billing", "Payments", "API"}
	if len(merged.Model.Elements) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(merged.Model.Elements))
	}
	for i, e := range merged.Model.Elements {
		if e.Name != want[i] {
			t.Errorf("element %d: expected %s, got %s", i, want[i], e.Name)
		}
	}
	if got := merged.Model.Elements[1].Properties["workspace-name"]; got != "Billing" {
		t.Errorf("expected Billing to be stamped with its workspace, got %q", got)
	}
	if got := merged.Model.Elements[2].Properties["workspace-name"]; got != "Payments" {
		t.Errorf("expected Payments to be stamped with its workspace, got %q", got)
	}
	if merged.Model.Elements[2].Description != "Card processing" {
		t.Errorf("expected the definitive Payments description, got %q", merged.Model.Elements[2].Description)
	}
}

func TestMergeCommand_UnresolvedPlaceholder(t *testing.T) {
	dir, _ := setupCLI(t)
	out := filepath.Join(dir, "merged.yaml")

	_, err := runCLI(t, "merge", filepath.Join(dir, "billing.yaml"), "--out", out)
	if !errors.Is(err, merge.ErrUnresolvedExternal) {
		t.Fatalf("expected unresolved external error, got %v", err)
	}
	if !strings.Contains(err.Error(), "SoftwareSystem://Payments") {
		t.Errorf("expected error to name the placeholder, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("expected no output file after a failed merge")
	}
}

func TestMergeCommand_NothingToWrite(t *testing.T) {
	dir, _ := setupCLI(t)

	_, err := runCLI(t, "merge", filepath.Join(dir, "billing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "nothing to write") {
		t.Fatalf("expected nothing to write error, got %v", err)
	}
}

func TestMergeCommand_IntoWithDryRunDiff(t *testing.T) {
	dir, _ := setupCLI(t)
	into := filepath.Join(dir, "payments.yaml")
	before := testutil.ReadFile(t, into)

	stdout, err := runCLI(t, "merge", filepath.Join(dir, "billing.yaml"), "--into", into, "--dry-run", "--diff")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if !strings.Contains(stdout, "--- "+into) {
		t.Errorf("expected diff header naming %s:\n%s", into, stdout)
	}
	if !strings.Contains(stdout, "+      name: Customer") {
		t.Errorf("expected Customer to be added in diff:\n%s", stdout)
	}
	if !strings.Contains(stdout, "(dry run)") {
		t.Errorf("expected dry-run report:\n%s", stdout)
	}
	if after := testutil.ReadFile(t, into); after != before {
		t.Error("dry run must not modify the destination file")
	}
}

func TestMergeCommand_IntoWritesBack(t *testing.T) {
	dir, _ := setupCLI(t)
	into := filepath.Join(dir, "payments.yaml")

	if _, err := runCLI(t, "merge", filepath.Join(dir, "billing.yaml"), "--into", into); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	merged, err := workspace.LoadFile(into)
	if err != nil {
		t.Fatalf("failed to reload destination: %v", err)
	}
	if merged.Name != "Payments" {
		t.Errorf("expected destination name to be kept, got %q", merged.Name)
	}
	if len(merged.Model.Elements) != 4 || len(merged.Model.Relationships) != 2 {
		t.Errorf("expected 4 elements and 2 relationships, got %d and %d",
			len(merged.Model.Elements), len(merged.Model.Relationships))
	}
}

func TestStoreCommands(t *testing.T) {
	dir, dbPath := setupCLI(t)

	_, err := runCLI(t, "merge", "--db", dbPath, "--save", "--name", "landscape",
		filepath.Join(dir, "billing.yaml"), filepath.Join(dir, "payments.yaml"))
	if err != nil {
		t.Fatalf("merge --save failed: %v", err)
	}

	stdout, err := runCLI(t, "ls", "--db", dbPath, "-o", "json")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	var infos []store.Info
	if err := json.Unmarshal([]byte(stdout), &infos); err != nil {
		t.Fatalf("ls output is not JSON: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "landscape" || infos[0].Elements != 4 {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	stdout, err = runCLI(t, "export", "landscape", "--db", dbPath, "--format", "json")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	exported, err := workspace.Decode(strings.NewReader(stdout), workspace.FormatJSON)
	if err != nil {
		t.Fatalf("export output does not decode: %v", err)
	}
	rev, err := workspace.CanonicalRev(exported)
	if err != nil {
		t.Fatal(err)
	}
	if rev != infos[0].Rev {
		t.Errorf("exported rev %s does not match stored rev %s", rev, infos[0].Rev)
	}

	outFile := filepath.Join(dir, "export", "landscape.yaml")
	if _, err := runCLI(t, "export", "landscape", "--db", dbPath, "--out", outFile); err != nil {
		t.Fatalf("export --out failed: %v", err)
	}
	if _, err := workspace.LoadFile(outFile); err != nil {
		t.Errorf("exported file does not load: %v", err)
	}

	stdout, err = runCLI(t, "history", "landscape", "--db", dbPath, "-o", "json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	var history []events.Event
	if err := json.Unmarshal([]byte(stdout), &history); err != nil {
		t.Fatalf("history output is not JSON: %v", err)
	}
	if len(history) != 1 || history[0].EventType != "workspace.saved" {
		t.Errorf("unexpected history: %+v", history)
	}

	stdout, err = runCLI(t, "rm", "landscape", "--db", dbPath)
	if err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if !strings.Contains(stdout, "Removed landscape") {
		t.Errorf("unexpected rm output: %q", stdout)
	}

	stdout, err = runCLI(t, "ls", "--db", dbPath, "-o", "tsv")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	if stdout != "NAME\tELEMENTS\tRELATIONSHIPS\tUPDATED\tREV\n" {
		t.Errorf("expected header only, got %q", stdout)
	}

	_, err = runCLI(t, "export", "landscape", "--db", dbPath)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found after rm, got %v", err)
	}
}

func TestStoreCommands_RequireMigratedDatabase(t *testing.T) {
	_, dbPath := setupCLI(t)

	_, err := runCLI(t, "ls", "--db", dbPath)
	if err == nil || !strings.Contains(err.Error(), "archmerge migrate") {
		t.Fatalf("expected migration hint, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	dir, _ := setupCLI(t)

	stdout, err := runCLI(t, "check", filepath.Join(dir, "billing.yaml"), filepath.Join(dir, "payments.yaml"))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	for _, want := range []string{"KIND", "SoftwareSystem", "Relationship", "Destination: 4 elements, 2 relationships (dry run)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}

	_, err = runCLI(t, "check", filepath.Join(dir, "billing.yaml"))
	if !errors.Is(err, merge.ErrUnresolvedExternal) {
		t.Errorf("expected unresolved external error, got %v", err)
	}

	// A directory expands to the workspace files inside it
	stdout, err = runCLI(t, "check", dir, "-o", "tsv")
	if err != nil {
		t.Fatalf("check on directory failed: %v", err)
	}
	if !strings.Contains(stdout, "SoftwareSystem\t3\t2\t1\t0") {
		t.Errorf("unexpected report:\n%s", stdout)
	}
}

func TestDiffCommand(t *testing.T) {
	dir, _ := setupCLI(t)

	// Same content in another format
	ws, err := workspace.LoadFile(filepath.Join(dir, "payments.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	asJSON := filepath.Join(dir, "payments.json")
	if err := workspace.SaveFile(asJSON, ws); err != nil {
		t.Fatal(err)
	}

	stdout, err := runCLI(t, "diff", filepath.Join(dir, "payments.yaml"), asJSON)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no differences, got:\n%s", stdout)
	}

	stdout, err = runCLI(t, "diff", filepath.Join(dir, "payments.yaml"), filepath.Join(dir, "billing.yaml"))
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(stdout, "-name: Payments") || !strings.Contains(stdout, "+name: Billing") {
		t.Errorf("expected name change in diff:\n%s", stdout)
	}
}

func TestDiffCommand_Summary(t *testing.T) {
	dir, _ := setupCLI(t)
	merged := filepath.Join(dir, "merged.yaml")
	if _, err := runCLI(t, "merge", filepath.Join(dir, "billing.yaml"), "--into", filepath.Join(dir, "payments.yaml"), "--out", merged); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	stdout, err := runCLI(t, "diff", filepath.Join(dir, "payments.yaml"), merged, "--summary", "-o", "json")
	if err != nil {
		t.Fatalf("diff --summary failed: %v", err)
	}

	var summary changes.Summary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, stdout)
	}
	if summary.Counts.Elements.Add != 2 || summary.Counts.Relationships.Add != 2 {
		t.Errorf("unexpected counts: %+v", summary.Counts)
	}
	// Destination elements are kept as they were
	if summary.Counts.Elements.Replace != 0 || summary.Counts.Elements.Remove != 0 {
		t.Errorf("expected destination elements untouched, got %+v", summary.Counts.Elements)
	}

	stdout, err = runCLI(t, "diff", merged, merged, "--summary")
	if err != nil {
		t.Fatalf("diff --summary failed: %v", err)
	}
	if stdout != "No changes.\n" {
		t.Errorf("expected no changes, got %q", stdout)
	}
}

func TestMigrateCommand(t *testing.T) {
	_, dbPath := setupCLI(t)

	stdout, err := runCLI(t, "migrate", "--db", dbPath, "--status")
	if err != nil {
		t.Fatalf("migrate --status failed: %v", err)
	}
	if !strings.Contains(stdout, "Pending migrations:") {
		t.Errorf("expected pending migrations, got:\n%s", stdout)
	}

	stdout, err = runCLI(t, "migrate", "--db", dbPath)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(stdout, "Applied migration: 000001_baseline.sql") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	stdout, err = runCLI(t, "migrate", "--db", dbPath, "--dry-run")
	if err != nil {
		t.Fatalf("migrate --dry-run failed: %v", err)
	}
	if !strings.Contains(stdout, "Database is up to date") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t)

	stdout, err := runCLI(t, "version", "--json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var info map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("version output is not JSON: %v", err)
	}
	if info["version"] != Version {
		t.Errorf("expected version %s, got %v", Version, info["version"])
	}
}
