package extract

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/spawn"
)

var selectorCandidateRe = regexp.MustCompile(`data_Horde_\d+_\w*Categories`)

// selectorRe matches a category selector assignment. The first two Param5
// arguments are not category slots and are ignored; the last three are bare
// identifiers, any of which may be the Empty sentinel.
var selectorRe = regexp.MustCompile(
	`data_Horde_(\d+)_\w+Categories\s*=\s*new\s+Param5[^(]*\(\s*[^,]+,\s*[^,]+,\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*\)`,
)

// Selectors extracts the config-number -> category-slots table from a
// ZombiesChooseCategories source file.
//
// Postcondition: returns a non-nil map keyed by config number.
func Selectors(text string, logger *zap.Logger) map[int]spawn.Selector {
	selectors := make(map[int]spawn.Selector)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if isCommentLine(line) {
			continue
		}
		m := selectorRe.FindStringSubmatch(line)
		if m == nil {
			if selectorCandidateRe.MatchString(line) {
				logger.Debug("skipping malformed category selector line",
					zap.Int("line", lineNo),
				)
			}
			continue
		}

		cfg, err := strconv.Atoi(m[1])
		if err != nil {
			logger.Debug("skipping category selector with unparsable config number",
				zap.Int("line", lineNo),
			)
			continue
		}

		selectors[cfg] = spawn.Selector{
			Config:     cfg,
			Categories: [3]string{m[2], m[3], m[4]},
		}
	}
	return selectors
}
