package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lherron/archmerge/internal/workspace"
)

// ExpandPaths turns command line arguments into workspace file paths.
// Directories are searched recursively for .json, .yaml and .yml files and
// glob patterns (including ** for any number of directories) are matched
// against the files below their fixed prefix. Matches are returned in
// lexical order; a path named twice is kept at its first position.
func ExpandPaths(args []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, arg := range args {
		var (
			matches []string
			err     error
		)
		switch {
		case IsGlobPattern(arg):
			matches, err = expandGlob(arg)
		case isDir(arg):
			matches, err = walkWorkspaceFiles(arg, func(string) bool { return true })
		default:
			add(arg)
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no workspace files match %q", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return result, nil
}

func expandGlob(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	return walkWorkspaceFiles(globRoot(pattern), func(path string) bool {
		return MatchGlob(pattern, filepath.ToSlash(path))
	})
}

// globRoot returns the directory part of pattern before the first wildcard
func globRoot(pattern string) string {
	parts := SplitPath(pattern)
	var fixed []string
	for _, p := range parts {
		if IsGlobPattern(p) {
			break
		}
		fixed = append(fixed, p)
	}
	root := strings.Join(fixed, "/")
	if strings.HasPrefix(pattern, "/") {
		root = "/" + root
	}
	if root == "" {
		return "."
	}
	return filepath.FromSlash(root)
}

func walkWorkspaceFiles(root string, keep func(string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := workspace.FormatFromPath(path); err != nil {
			return nil
		}
		if keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}
	return files, nil
}

// MatchGlob checks if a slash-separated path matches a glob pattern.
// Supports *, ?, [...] and ** patterns
func MatchGlob(pattern, path string) bool {
	if strings.Contains(pattern, "**") {
		return matchParts(SplitPath(pattern), SplitPath(path))
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	return matched
}

func matchParts(patternParts, pathParts []string) bool {
	if len(patternParts) == 0 {
		return len(pathParts) == 0
	}

	if len(pathParts) == 0 {
		// Check if remaining pattern parts are all **
		for _, p := range patternParts {
			if p != "**" {
				return false
			}
		}
		return true
	}

	pattern := patternParts[0]
	if pattern == "**" {
		// ** matches zero or more path segments
		return matchParts(patternParts[1:], pathParts) ||
			matchParts(patternParts, pathParts[1:])
	}

	matched, err := filepath.Match(pattern, pathParts[0])
	if err != nil || !matched {
		return false
	}
	return matchParts(patternParts[1:], pathParts[1:])
}

// IsGlobPattern checks if a string contains glob characters
func IsGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// SplitPath splits a slash-separated path into segments
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
