package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported workspace file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Decode reads and validates a workspace document. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Workspace, error) {
	var ws Workspace
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ws); err != nil {
			return nil, fmt.Errorf("failed to parse workspace JSON: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&ws); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse workspace YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown workspace format %q", format)
	}

	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Encode writes a workspace document. JSON output is indented with two spaces.
func Encode(w io.Writer, ws *Workspace, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ws); err != nil {
			return fmt.Errorf("failed to encode workspace JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ws); err != nil {
			return fmt.Errorf("failed to encode workspace YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown workspace format %q", format)
	}
}

// LoadFile decodes the workspace at path, choosing the format from its extension
func LoadFile(path string) (*Workspace, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	defer f.Close()

	return Decode(f, format)
}

// SaveFile encodes ws to path, creating parent directories as needed
func SaveFile(path string, ws *Workspace) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workspace file: %w", err)
	}
	if err := Encode(f, ws, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	return nil
}
