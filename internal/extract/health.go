package extract

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/spawn"
)

// Health extracts the creature classname -> Day health table from the
// optional health markup document. Creature entries without a usable
// health-points element are skipped individually; a document that cannot be
// tokenized at all degrades to an empty table with a non-fatal warning
// returned to the caller. Only the "Day" attribute is read; other
// time-of-day variants are ignored.
//
// Postcondition: returns a non-nil HealthTable; a non-nil error only signals
// the degraded empty-table mode, never a fatal condition.
func Health(text string, logger *zap.Logger) (spawn.HealthTable, error) {
	table := make(spawn.HealthTable)

	dec := xml.NewDecoder(strings.NewReader(text))
	// Creature element currently open; creature elements never nest.
	current := ""
	currentElem := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(table) > 0 {
				// Salvage what parsed before the malformed tail.
				logger.Warn("health document truncated, keeping entries parsed so far",
					zap.Int("entries", len(table)),
					zap.Error(err),
				)
				return table, nil
			}
			return spawn.HealthTable{}, fmt.Errorf("unparsable health document, danger levels degrade to zero: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if name, ok := attrValue(el, "name"); ok && current == "" {
				current = name
				currentElem = el.Name.Local
				continue
			}
			if current == "" {
				continue
			}
			if day, ok := attrValue(el, "Day"); ok {
				v, perr := strconv.ParseFloat(strings.TrimSpace(day), 64)
				if perr != nil {
					logger.Debug("skipping creature with unparsable Day health",
						zap.String("creature", current),
					)
					continue
				}
				table[current] = v
			}
		case xml.EndElement:
			if el.Name.Local == currentElem {
				current = ""
				currentElem = ""
			}
		}
	}
	return table, nil
}

func attrValue(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
