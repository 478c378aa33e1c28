package extract

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/spawn"
)

// dynamicCandidateRe recognizes lines that declare a dynamic zone array,
// regardless of whether the value list is well formed.
var dynamicCandidateRe = regexp.MustCompile(`^\s*ref\s+autoptr\s+TIntArray\s+data_Zone\d+`)

// dynamicZoneRe matches a complete dynamic zone declaration: exactly seven
// integer fields (config, x upleft, z upleft, x lowerright, z lowerright,
// spawn ratio, max count) followed by a trailing comment.
var dynamicZoneRe = regexp.MustCompile(
	`^\s*ref\s+autoptr\s+TIntArray\s+data_(Zone\d+)\s*=\s*\{\s*` +
		`(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*` +
		`\}\s*;\s*//\s*(.*?)\s*$`,
)

// DynamicZones extracts rectangular zone records from a DynamicSpawnZones
// source file. Near-miss lines (wrong field count) are skipped.
//
// Postcondition: returns a non-nil map keyed by zone identifier.
func DynamicZones(text string, logger *zap.Logger) map[string]spawn.DynamicZone {
	zones := make(map[string]spawn.DynamicZone)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if isCommentLine(line) {
			continue
		}
		m := dynamicZoneRe.FindStringSubmatch(line)
		if m == nil {
			if dynamicCandidateRe.MatchString(line) {
				logger.Debug("skipping malformed dynamic zone line",
					zap.Int("line", lineNo),
				)
			}
			continue
		}

		fields := make([]int, 7)
		ok := true
		for i := range fields {
			n, err := strconv.Atoi(m[i+2])
			if err != nil {
				ok = false
				break
			}
			fields[i] = n
		}
		if !ok {
			logger.Debug("skipping dynamic zone line with non-integer field",
				zap.Int("line", lineNo),
			)
			continue
		}

		id := m[1]
		zones[id] = spawn.DynamicZone{
			ID:          id,
			Config:      fields[0],
			XUpLeft:     fields[1],
			ZUpLeft:     fields[2],
			XLowerRight: fields[3],
			ZLowerRight: fields[4],
			SpawnRatio:  fields[5],
			MaxCount:    fields[6],
			Comment:     m[9],
		}
	}
	return zones
}
