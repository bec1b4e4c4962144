package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlobs expands file paths and glob patterns into a deduplicated list
// of files. Patterns are expanded in the order given; the matches of a
// single pattern are sorted. A literal path without glob metacharacters is
// kept even when it does not exist, so the open error names it. A glob
// pattern that matches nothing contributes nothing.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !hasMeta(pattern) {
				add(pattern)
			}
			continue
		}

		sort.Strings(matches)
		for _, match := range matches {
			add(match)
		}
	}

	return result, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}
