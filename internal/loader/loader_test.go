package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeWorkspace(t *testing.T, dir, file, name string) string {
	t.Helper()
	content := fmt.Sprintf(`name: %q
model:
  elements:
    - id: "1"
      kind: SoftwareSystem
      name: %q
`, name, name+" system")
	if name == "" {
		content = "model:\n  elements:\n    - {id: \"1\", kind: Person, name: Someone}\n"
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 12; i++ {
		paths = append(paths, writeWorkspace(t, dir, fmt.Sprintf("ws%02d.yaml", i), fmt.Sprintf("W%02d", i)))
	}

	for _, jobs := range []int{0, 1, 4, 32} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			sources, err := LoadFiles(context.Background(), paths, Options{Jobs: jobs})
			if err != nil {
				t.Fatalf("LoadFiles failed: %v", err)
			}
			if len(sources) != len(paths) {
				t.Fatalf("Expected %d sources, got %d", len(paths), len(sources))
			}
			for i, src := range sources {
				want := fmt.Sprintf("W%02d", i)
				if src.Name != want {
					t.Errorf("Order not preserved: expected %s at index %d, got %s", want, i, src.Name)
				}
				if src.Model.ElementWithCanonicalName("SoftwareSystem://"+want+" system") == nil {
					t.Errorf("Source %s is missing its system", want)
				}
			}
		})
	}
}

func TestLoadFilesEmpty(t *testing.T) {
	sources, err := LoadFiles(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sources != nil {
		t.Errorf("Expected no sources, got %d", len(sources))
	}
}

func TestLoadFilesReportsEarliestFailureInParallel(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 16; i++ {
		paths = append(paths, writeWorkspace(t, dir, fmt.Sprintf("ws%02d.yaml", i), fmt.Sprintf("W%02d", i)))
	}
	// An early file that fails slowly behind a later one that fails at once
	early := filepath.Join(dir, "early.yaml")
	var big strings.Builder
	big.WriteString("model:\n  elements:\n")
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&big, "    - {id: \"%d\", kind: Person, name: P%d}\n", i+1, i)
	}
	big.WriteString("    - {id: \"x\", kind: Robot, name: R}\n")
	if err := os.WriteFile(early, []byte(big.String()), 0644); err != nil {
		t.Fatal(err)
	}
	paths = append([]string{early}, paths...)
	paths = append(paths, filepath.Join(dir, "missing.yaml"))

	for round := 0; round < 20; round++ {
		_, err := LoadFiles(context.Background(), paths, Options{Jobs: len(paths)})
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), early+": ") {
			t.Fatalf("round %d: expected error for %s, got: %v", round, early, err)
		}
	}
}

func TestLoadFilesReportsEarliestFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeWorkspace(t, dir, "good.yaml", "Good")
	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("model: {elements: [{id: \"1\", kind: Robot, name: R}]}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.yaml")

	_, err := LoadFiles(context.Background(), []string{good, badPath, missing}, Options{Jobs: 1})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), badPath+": ") {
		t.Errorf("Expected error for %s, got: %v", badPath, err)
	}
	if !strings.Contains(err.Error(), "kind must be one of") {
		t.Errorf("Expected validation message, got: %v", err)
	}
}

func TestLoadFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspace(t, dir, "a.yaml", "A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, []string{path, path}, Options{Jobs: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLoadFileNamesUnnamedWorkspaceAfterFile(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspace(t, dir, "frontline.yaml", "")

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if src.Name != "frontline" {
		t.Errorf("Expected name frontline, got %q", src.Name)
	}
}

func TestLoadFileReportsModelErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.json")
	doc := `{"model": {"elements": [{"id": "1", "kind": "Person", "name": "P"}, {"id": "2", "kind": "Person", "name": "P"}]}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "A top-level element named 'P' already exists.") {
		t.Errorf("Expected duplicate name error, got %v", err)
	}
}
