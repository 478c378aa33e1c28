// Package combine joins the extracted record collections into a single
// dataset: each zone's config number is resolved through the category
// selector table to its creature roster, and a danger level is derived from
// the optional health table.
package combine

import (
	"sort"

	"github.com/dayztools/zonemap/internal/spawn"
)

// Dataset is the fused in-memory model for one load of the source files.
// Edits mutate the zone maps in place and re-resolve the touched zone.
type Dataset struct {
	Dynamic    map[string]spawn.DynamicZone
	Static     map[string]spawn.StaticZone
	Selectors  map[int]spawn.Selector
	Categories spawn.CategoryTable
	Health     spawn.HealthTable

	// Resolved holds fusion output per zone identifier (both variants; the
	// identifier namespaces cannot collide).
	Resolved map[string]spawn.Resolved
}

// Fuse builds a Dataset and resolves every zone, config 0 included (an
// unassigned config simply resolves to nothing).
//
// Postcondition: Resolved has an entry for every zone in both collections.
func Fuse(
	dynamic map[string]spawn.DynamicZone,
	static map[string]spawn.StaticZone,
	selectors map[int]spawn.Selector,
	categories spawn.CategoryTable,
	health spawn.HealthTable,
) *Dataset {
	ds := &Dataset{
		Dynamic:    dynamic,
		Static:     static,
		Selectors:  selectors,
		Categories: categories,
		Health:     health,
		Resolved:   make(map[string]spawn.Resolved, len(dynamic)+len(static)),
	}
	for id, z := range dynamic {
		ds.Resolved[id] = ds.resolve(z.Config)
	}
	for id, z := range static {
		ds.Resolved[id] = ds.resolve(z.Config)
	}
	return ds
}

// Refresh re-resolves a single zone after its config changed.
func (ds *Dataset) Refresh(zoneID string) {
	if z, ok := ds.Dynamic[zoneID]; ok {
		ds.Resolved[zoneID] = ds.resolve(z.Config)
		return
	}
	if z, ok := ds.Static[zoneID]; ok {
		ds.Resolved[zoneID] = ds.resolve(z.Config)
	}
}

// resolve looks up a config in the selector table and expands its category
// slots. An absent config yields no categories (not an error); an Empty slot
// is skipped; a category missing from the definition table resolves to an
// empty list rather than failing.
func (ds *Dataset) resolve(config int) spawn.Resolved {
	r := spawn.Resolved{Categories: make(map[string][]string)}

	sel, ok := ds.Selectors[config]
	if ok {
		for _, name := range sel.Categories {
			if name == "" || name == spawn.EmptyCategory {
				continue
			}
			if _, seen := r.Categories[name]; seen {
				continue
			}
			list, found := ds.Categories[name]
			if !found {
				list = []string{}
			}
			r.Order = append(r.Order, name)
			r.Categories[name] = list
		}
	}

	r.DangerLevel = DangerLevel(r, ds.Health)
	return r
}

// DangerLevel computes the average health over every creature occurrence in
// the resolved categories (duplicates counted once per occurrence). Creatures
// absent from the health table contribute to neither sum nor count. Zero is
// the "no data" sentinel.
func DangerLevel(r spawn.Resolved, health spawn.HealthTable) float64 {
	if len(health) == 0 {
		return 0
	}
	var sum float64
	var count int
	for _, creature := range r.Creatures() {
		if hp, ok := health[creature]; ok {
			sum += hp
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// DangerRange returns the minimum and maximum nonzero danger level across all
// zones, and false when no zone has danger data.
func (ds *Dataset) DangerRange() (lo, hi float64, ok bool) {
	for _, r := range ds.Resolved {
		if r.DangerLevel == 0 {
			continue
		}
		if !ok {
			lo, hi, ok = r.DangerLevel, r.DangerLevel, true
			continue
		}
		if r.DangerLevel < lo {
			lo = r.DangerLevel
		}
		if r.DangerLevel > hi {
			hi = r.DangerLevel
		}
	}
	return lo, hi, ok
}

// Unused holds the three set differences computed from active zones only.
type Unused struct {
	Configs    []int
	Categories []string
	Creatures  []string
}

// UnusedSets reports defined-but-unreferenced configs, categories, and
// creatures. Only active zones (config != 0) count as references, and the
// Empty sentinel is inert: never defined, used, nor unused.
func (ds *Dataset) UnusedSets() Unused {
	usedConfigs := make(map[int]bool)
	usedCategories := make(map[string]bool)
	usedCreatures := make(map[string]bool)

	mark := func(id string, config int) {
		if config == spawn.InactiveConfig {
			return
		}
		usedConfigs[config] = true
		r := ds.Resolved[id]
		for _, name := range r.Order {
			usedCategories[name] = true
			for _, c := range r.Categories[name] {
				usedCreatures[c] = true
			}
		}
	}
	for id, z := range ds.Dynamic {
		mark(id, z.Config)
	}
	for id, z := range ds.Static {
		mark(id, z.Config)
	}

	var u Unused
	for cfg := range ds.Selectors {
		if !usedConfigs[cfg] {
			u.Configs = append(u.Configs, cfg)
		}
	}
	for name, creatures := range ds.Categories {
		if name == spawn.EmptyCategory {
			continue
		}
		if !usedCategories[name] {
			u.Categories = append(u.Categories, name)
		}
		for _, c := range creatures {
			if !usedCreatures[c] && !contains(u.Creatures, c) {
				u.Creatures = append(u.Creatures, c)
			}
		}
	}

	sort.Ints(u.Configs)
	sort.Strings(u.Categories)
	sort.Strings(u.Creatures)
	return u
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
