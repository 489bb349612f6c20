// Package cli provides shared utilities for CLI commands.
package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/forest6511/hsimp/pkg/strength"
)

// ExpandPattern expands a glob pattern against available ids.
// If the pattern contains glob characters (*?[), it performs glob matching.
// Otherwise, it performs exact matching.
func ExpandPattern(pattern string, availableIDs []string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}

	if !strings.ContainsAny(pattern, "*?[") {
		for _, id := range availableIDs {
			if id == pattern {
				return []string{pattern}, nil
			}
		}
		return nil, fmt.Errorf("check '%s' not found", pattern)
	}

	var matches []string
	for _, id := range availableIDs {
		matched, err := filepath.Match(pattern, id)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, id)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no checks match pattern '%s'", pattern)
	}

	return matches, nil
}

// ExpandPatterns expands multiple glob patterns against available ids.
// Returns unique matching ids preserving order of first match.
func ExpandPatterns(patterns []string, availableIDs []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		matches, err := ExpandPattern(pattern, availableIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range matches {
			if !seen[id] {
				seen[id] = true
				result = append(result, id)
			}
		}
	}

	return result, nil
}

// PatternIDs returns the ids of patterns in configured order.
func PatternIDs(patterns []strength.Pattern) []string {
	ids := make([]string, 0, len(patterns))
	for _, p := range patterns {
		ids = append(ids, p.ID)
	}
	return ids
}

// SkipPatterns returns patterns without those whose id matches any of the
// globs. The order of the remaining patterns is kept.
func SkipPatterns(patterns []strength.Pattern, globs []string) ([]strength.Pattern, error) {
	if len(globs) == 0 {
		return append([]strength.Pattern{}, patterns...), nil
	}
	skip, err := ExpandPatterns(globs, PatternIDs(patterns))
	if err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(skip))
	for _, id := range skip {
		drop[id] = true
	}

	kept := make([]strength.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// SortKeys returns a sorted copy of the keys slice.
func SortKeys(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return sorted
}
