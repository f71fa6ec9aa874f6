package pathutils

import (
	"path/filepath"
	"strings"
)

// UniqueCleanPaths cleans every path and drops blanks and repeats, keeping first occurrences in order.
func UniqueCleanPaths(candidatePaths []string) []string {
	seenPaths := make(map[string]struct{}, len(candidatePaths))
	uniquePaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		if len(strings.TrimSpace(candidatePath)) == 0 {
			continue
		}
		cleanedPath := filepath.Clean(candidatePath)
		if _, seen := seenPaths[cleanedPath]; seen {
			continue
		}
		seenPaths[cleanedPath] = struct{}{}
		uniquePaths = append(uniquePaths, cleanedPath)
	}
	return uniquePaths
}
