// Package serialize regenerates spawn-system source text from the in-memory
// zone collections. Dynamic zones are fully owned by this tool's model and
// are regenerated wholesale; static zones are patched line by line so that
// geometry the tool cannot edit is never perturbed.
package serialize

import (
	"fmt"
	"strings"

	"github.com/dayztools/zonemap/internal/spawn"
)

// dynamicHeader is written at the top of every regenerated dynamic zone file.
var dynamicHeader = []string{
	"//////////////////////////////////////////////////////////////////////////",
	"// Dynamic spawn zones",
	"//",
	"// Each entry: {config, x upleft, z upleft, x lowerright, z lowerright,",
	"//              spawn ratio, max count}",
	"// Config 0 marks a free slot. Edit through the zone map tool when",
	"// possible; manual edits are picked up on the next load.",
	"//////////////////////////////////////////////////////////////////////////",
	"",
}

// DynamicFile regenerates the complete dynamic zone file: the fixed header
// followed by every slot Zone001..Zone150 in ascending order, active or not.
// Slots absent from the collection are emitted as free slots so the on-disk
// slot space always matches the tool's model.
//
// Postcondition: re-extracting the output yields records field-identical to
// the input collection.
func DynamicFile(zones map[string]spawn.DynamicZone) string {
	var b strings.Builder
	for _, line := range dynamicHeader {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for n := 1; n <= spawn.MaxDynamicSlots; n++ {
		id := spawn.DynamicZoneID(n)
		z, ok := zones[id]
		if !ok {
			z = spawn.DynamicZone{ID: id}
		}
		b.WriteString(FormatDynamicZone(z))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDynamicZone renders one dynamic zone declaration in the canonical
// layout the extractor matches.
func FormatDynamicZone(z spawn.DynamicZone) string {
	return strings.TrimRight(fmt.Sprintf(
		"ref autoptr TIntArray data_%s = {%d, %d, %d, %d, %d, %d, %d}; // %s",
		z.ID, z.Config, z.XUpLeft, z.ZUpLeft, z.XLowerRight, z.ZLowerRight,
		z.SpawnRatio, z.MaxCount, z.Comment,
	), " ")
}
