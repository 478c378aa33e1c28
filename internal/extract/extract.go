// Package extract turns raw spawn-system source text into typed record
// collections. Extractors are pure text-in/records-out functions: they never
// touch the filesystem.
//
// Tolerance policy: blank lines, comment lines, and trailing whitespace are
// ignored, and a line that superficially matches a record keyword but lacks
// the exact expected field shape is silently skipped (logged at debug level)
// rather than treated as an error. The source files mix declarations of
// different record layouts, so near-miss lines are expected.
package extract

import "strings"

// isCommentLine reports whether the line is a pure comment line (single or
// doubled comment marker). Such lines are skipped before any record matching
// so commented-out declarations are never extracted as data.
func isCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

// stripCommentLines removes pure comment lines from text. Used by the
// block-oriented extractors that match across line boundaries.
func stripCommentLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isCommentLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
