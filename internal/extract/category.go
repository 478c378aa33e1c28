package extract

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/spawn"
)

// categoryBlockRe matches a TStringArray block literal, which may span
// multiple lines. Comment lines are stripped from the text beforehand so a
// commented-out block is never captured.
var categoryBlockRe = regexp.MustCompile(`(?s)ref\s+autoptr\s+TStringArray\s+(\w+)\s*=\s*\{([^}]*)\}\s*;`)

var quotedStringRe = regexp.MustCompile(`"([^"]+)"`)

// Categories extracts the category-name -> creature-classname table from a
// ZombiesCategories source file. A definition named exactly Empty maps to an
// empty list regardless of the literal's contents.
//
// Postcondition: returns a non-nil CategoryTable.
func Categories(text string, logger *zap.Logger) spawn.CategoryTable {
	table := make(spawn.CategoryTable)

	for _, m := range categoryBlockRe.FindAllStringSubmatch(stripCommentLines(text), -1) {
		name := m[1]
		if name == spawn.EmptyCategory {
			// Enforced, not assumed: Empty is always the empty list.
			table[name] = []string{}
			continue
		}
		var creatures []string
		for _, q := range quotedStringRe.FindAllStringSubmatch(m[2], -1) {
			creatures = append(creatures, q[1])
		}
		if _, dup := table[name]; dup {
			logger.Debug("duplicate category definition, keeping last",
				zap.String("category", name),
			)
		}
		table[name] = creatures
	}
	return table
}
