package serialize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dayztools/zonemap/internal/spawn"
)

// staticLineRe mirrors the extractor's static zone grammar with submatch
// indexes exposed so the original line can be spliced rather than rebuilt.
var staticLineRe = regexp.MustCompile(
	`^(\s*ref\s+autoptr\s+TFloatArray\s+data_(HordeStatic\d+)\s*=\s*\{)([^}]*)(\}\s*;\s*//\s*)(.*?)(\s*)$`,
)

// StaticFile patches the original static zone file text with the current
// collection. Every line that is not a static zone declaration for a known
// identifier is copied through byte-for-byte. On matching lines only field 11
// (the config number) and the trailing comment are substituted; the other
// eleven field strings are reproduced character-for-character from the
// source, because static geometry is not editable through this tool and must
// never be perturbed by formatting differences.
//
// Postcondition: re-extracting the output yields records field-identical to
// the input collection.
func StaticFile(original string, zones map[string]spawn.StaticZone) string {
	lines := strings.Split(original, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		m := staticLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		zone, known := zones[m[2]]
		if !known {
			continue
		}
		fields := strings.Split(m[3], ",")
		if len(fields) != spawn.StaticFieldCount {
			continue
		}
		fields[spawn.StaticFieldConfig] = replaceFieldValue(fields[spawn.StaticFieldConfig], strconv.Itoa(zone.Config))
		lines[i] = m[1] + strings.Join(fields, ",") + m[4] + zone.Comment
	}
	return strings.Join(lines, "\n")
}

// replaceFieldValue swaps the value text of a raw field while keeping its
// original leading whitespace, so surrounding alignment survives the edit.
func replaceFieldValue(raw, value string) string {
	trimmed := strings.TrimLeft(raw, " \t")
	return raw[:len(raw)-len(trimmed)] + value
}
