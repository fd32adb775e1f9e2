package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPatterns resolves file paths and glob patterns relative to baseDir
// and returns the matching files in pattern order, each pattern's matches
// sorted, duplicates removed. Plain paths must exist; patterns must match
// at least one file. ** matches across directories.
func ExpandPatterns(baseDir string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved := ResolvePath(baseDir, pattern)

		var matches []string
		if hasMeta(resolved) {
			var err error
			matches, err = expandGlob(resolved)
			if err != nil {
				return nil, fmt.Errorf("expanding glob pattern %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w %q", ErrNoMatches, pattern)
			}
			sort.Strings(matches)
		} else {
			if _, err := os.Stat(resolved); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, pattern)
			}
			matches = []string{resolved}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// ResolvePath joins a relative path onto baseDir. Absolute paths and an
// empty baseDir leave path unchanged.
func ResolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob uses doublestar for ** support and filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") || strings.Contains(pattern, "{") {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}
	return filepath.Glob(pattern)
}
