package extract

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/spawn"
)

var staticCandidateRe = regexp.MustCompile(`^\s*ref\s+autoptr\s+TFloatArray\s+data_HordeStatic\d+`)

// staticZoneRe matches a static zone declaration line. The field list is
// captured as a single blob and split afterwards so each field's original
// text survives for character-exact re-serialization.
var staticZoneRe = regexp.MustCompile(
	`^\s*ref\s+autoptr\s+TFloatArray\s+data_(HordeStatic\d+)\s*=\s*\{([^}]*)\}\s*;\s*//\s*(.*?)\s*$`,
)

// StaticZones extracts point zone records from a StaticSpawnDatas source
// file. Only fields 4, 5, 6 (x, y, z) and 11 (config) are interpreted; all
// twelve field strings are preserved byte-for-byte. Lines with any other
// field count are near misses and are skipped.
//
// Postcondition: returns a non-nil map keyed by zone identifier.
func StaticZones(text string, logger *zap.Logger) map[string]spawn.StaticZone {
	zones := make(map[string]spawn.StaticZone)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if isCommentLine(line) {
			continue
		}
		m := staticZoneRe.FindStringSubmatch(line)
		if m == nil {
			if staticCandidateRe.MatchString(line) {
				logger.Debug("skipping malformed static zone line",
					zap.Int("line", lineNo),
				)
			}
			continue
		}

		raw := strings.Split(m[2], ",")
		if len(raw) != spawn.StaticFieldCount {
			logger.Debug("skipping static zone line with unexpected field count",
				zap.Int("line", lineNo),
				zap.Int("fields", len(raw)),
			)
			continue
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(raw[spawn.StaticFieldX]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(raw[spawn.StaticFieldY]), 64)
		z, errZ := strconv.ParseFloat(strings.TrimSpace(raw[spawn.StaticFieldZ]), 64)
		cfg, errC := strconv.Atoi(strings.TrimSpace(raw[spawn.StaticFieldConfig]))
		if errX != nil || errY != nil || errZ != nil || errC != nil {
			logger.Debug("skipping static zone line with unparsable semantic field",
				zap.Int("line", lineNo),
			)
			continue
		}

		zone := spawn.StaticZone{
			ID:      m[1],
			Config:  cfg,
			X:       x,
			Y:       y,
			Z:       z,
			Comment: m[3],
		}
		copy(zone.RawFields[:], raw)
		zones[zone.ID] = zone
	}
	return zones
}
