// Package spawn defines the record types extracted from PvZmoD spawn-system
// source files: dynamic (rectangular) zones, static (point) zones, the
// per-config category selectors, the category definition table, and the
// optional creature health table.
package spawn

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyCategory is the sentinel category name meaning "no category". It is
// never resolved against the definition table and never participates in
// used/unused accounting.
const EmptyCategory = "Empty"

// InactiveConfig is the reserved config number marking an unassigned zone
// slot. Inactive zones exist in storage but are excluded from rendering,
// filtering, and unused-set computation.
const InactiveConfig = 0

// MaxDynamicSlots is the fixed size of the dynamic zone slot space
// (Zone001..Zone150).
const MaxDynamicSlots = 150

// StaticFieldCount is the exact number of array fields in a static zone
// declaration.
const StaticFieldCount = 12

// Indexes of the semantically used fields within a static zone declaration.
// All other fields are preserved verbatim and never interpreted.
const (
	StaticFieldX      = 4
	StaticFieldY      = 5
	StaticFieldZ      = 6
	StaticFieldConfig = 11
)

// DynamicZone is a rectangular spawn area defined by two world-coordinate
// corners. By convention upleft is northwest and lowerright is southeast:
// XUpLeft < XLowerRight and ZUpLeft > ZLowerRight (world Z grows northward).
type DynamicZone struct {
	// ID is the slot identifier, e.g. "Zone001". Identity is never removed;
	// "deleting" a zone resets it to an inactive slot.
	ID          string
	Config      int
	XUpLeft     int
	ZUpLeft     int
	XLowerRight int
	ZLowerRight int
	// SpawnRatio and MaxCount are carried through load and save untouched.
	SpawnRatio int
	MaxCount   int
	Comment    string
}

// Active reports whether the zone occupies its slot (config != 0).
func (z DynamicZone) Active() bool { return z.Config != InactiveConfig }

// StaticZone is a fixed point spawn location. Its geometry is not editable:
// only the config number and comment may change, so the original field text
// is retained for character-exact re-serialization.
type StaticZone struct {
	// ID is the identifier, e.g. "HordeStatic001".
	ID      string
	Config  int
	X       float64
	Y       float64
	Z       float64
	Comment string
	// RawFields holds the 12 field strings exactly as they appeared in the
	// source line, including surrounding whitespace.
	RawFields [StaticFieldCount]string
}

// Active reports whether the zone occupies its slot (config != 0).
func (z StaticZone) Active() bool { return z.Config != InactiveConfig }

// Selector maps a config number to up to three category names. A slot holding
// EmptyCategory counts as "no category".
type Selector struct {
	Config     int
	Categories [3]string
}

// CategoryNames returns the selector's non-Empty category names in slot order.
func (s Selector) CategoryNames() []string {
	var names []string
	for _, c := range s.Categories {
		if c != "" && c != EmptyCategory {
			names = append(names, c)
		}
	}
	return names
}

// CategoryTable maps a category name to its ordered creature classname list.
// The EmptyCategory key, when present, always maps to an empty list.
type CategoryTable map[string][]string

// HealthTable maps a creature classname to its "Day" health value. A nil or
// empty table is the documented degraded mode: every danger level stays zero.
type HealthTable map[string]float64

// MinMax returns the smallest and largest health values in the table, and
// false when the table is empty.
func (h HealthTable) MinMax() (lo, hi float64, ok bool) {
	for _, v := range h {
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// Resolved is the per-zone fusion output: category name -> creature classname
// list, plus the danger level derived from the health table. Order preserves
// the selector slot order.
type Resolved struct {
	// Order lists resolved category names in selector slot order.
	Order []string
	// Categories maps each resolved category name to its creature list. An
	// unresolved reference maps to an empty list.
	Categories map[string][]string
	// DangerLevel is the mean health across every resolved creature present
	// in the health table. Zero is the "no data" sentinel, not a low score.
	DangerLevel float64
}

// Creatures returns every creature classname across all resolved categories,
// in category order, duplicates included.
func (r Resolved) Creatures() []string {
	var out []string
	for _, name := range r.Order {
		out = append(out, r.Categories[name]...)
	}
	return out
}

// DynamicZoneID formats the slot identifier for a slot number.
//
// Precondition: n must be in [1, MaxDynamicSlots].
func DynamicZoneID(n int) string {
	return fmt.Sprintf("Zone%03d", n)
}

// DynamicZoneNumber extracts the slot number from a dynamic zone identifier.
//
// Postcondition: returns an error when id does not have the Zone<number> form.
func DynamicZoneNumber(id string) (int, error) {
	digits, found := strings.CutPrefix(id, "Zone")
	if !found {
		return 0, fmt.Errorf("zone id %q: missing Zone prefix", id)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("zone id %q: %w", id, err)
	}
	return n, nil
}
