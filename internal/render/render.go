// Package render emits the interactive HTML map artifact: a pan-and-zoom SVG
// overlay of every zone on the background image, with the fused dataset
// inlined as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/dayztools/zonemap/internal/colormap"
	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/spawn"
)

// Params carries everything the artifact needs. BackgroundImage is the <img>
// src as the browser will resolve it, normally just the copied image's
// filename next to the artifact.
type Params struct {
	Title           string
	WorldSize       int
	ImageSize       int
	BackgroundImage string
	Dataset         *combine.Dataset
}

// dynamicView is the JSON shape of one rectangle zone. The coordinate key
// names match the zone definition files so the artifact reads like them.
type dynamicView struct {
	ID          string              `json:"id"`
	Config      int                 `json:"num_config"`
	XUpLeft     int                 `json:"coordx_upleft"`
	ZUpLeft     int                 `json:"coordz_upleft"`
	XLowerRight int                 `json:"coordx_lowerright"`
	ZLowerRight int                 `json:"coordz_lowerright"`
	SpawnRatio  int                 `json:"spawn_ratio"`
	MaxCount    int                 `json:"max_count"`
	Comment     string              `json:"comment"`
	Order       []string            `json:"category_order"`
	Categories  map[string][]string `json:"categories"`
	DangerLevel float64             `json:"danger_level"`
	Color       string              `json:"color"`
}

// staticView is the JSON shape of one point zone.
type staticView struct {
	ID          string              `json:"id"`
	Config      int                 `json:"num_config"`
	X           float64             `json:"coordx"`
	Y           float64             `json:"coordy"`
	Z           float64             `json:"coordz"`
	Comment     string              `json:"comment"`
	Order       []string            `json:"category_order"`
	Categories  map[string][]string `json:"categories"`
	DangerLevel float64             `json:"danger_level"`
	Color       string              `json:"color"`
}

type payload struct {
	WorldSize int           `json:"world_size"`
	ImageSize int           `json:"image_size"`
	Dynamic   []dynamicView `json:"dynamic"`
	Static    []staticView  `json:"static"`
}

// WriteArtifact renders the standalone HTML map to w.
//
// Precondition: p.Dataset must be fused (every zone resolved).
// Postcondition: w holds a complete self-contained HTML document, or a
// non-nil error is returned.
func WriteArtifact(w io.Writer, p Params) error {
	if p.WorldSize < 1 || p.ImageSize < 1 {
		return fmt.Errorf("dimensions must be positive, got world=%d image=%d", p.WorldSize, p.ImageSize)
	}
	if p.Title == "" {
		p.Title = "DayZ Zone Map"
	}

	data, err := PayloadJSON(p)
	if err != nil {
		return fmt.Errorf("marshalling zone payload: %w", err)
	}

	return mapTemplate.Execute(w, map[string]any{
		"Title":           p.Title,
		"ImageSize":       p.ImageSize,
		"BackgroundImage": p.BackgroundImage,
		"ZonesJSON":       template.JS(data),
	})
}

// PayloadJSON returns the zone payload exactly as it is inlined in the
// artifact. The editor server serves the same shape from its API.
func PayloadJSON(p Params) ([]byte, error) {
	return json.MarshalIndent(buildPayload(p), "", "  ")
}

func buildPayload(p Params) payload {
	out := payload{
		WorldSize: p.WorldSize,
		ImageSize: p.ImageSize,
		Dynamic:   []dynamicView{},
		Static:    []staticView{},
	}
	scale := scaleFor(p.Dataset)

	for _, z := range p.Dataset.Dynamic {
		if !z.Active() {
			continue
		}
		r := p.Dataset.Resolved[z.ID]
		out.Dynamic = append(out.Dynamic, dynamicView{
			ID:          z.ID,
			Config:      z.Config,
			XUpLeft:     z.XUpLeft,
			ZUpLeft:     z.ZUpLeft,
			XLowerRight: z.XLowerRight,
			ZLowerRight: z.ZLowerRight,
			SpawnRatio:  z.SpawnRatio,
			MaxCount:    z.MaxCount,
			Comment:     z.Comment,
			Order:       viewOrder(r),
			Categories:  viewCategories(r),
			DangerLevel: r.DangerLevel,
			Color:       scale.Hex(r.DangerLevel),
		})
	}
	sort.Slice(out.Dynamic, func(i, j int) bool { return out.Dynamic[i].ID < out.Dynamic[j].ID })

	for _, z := range p.Dataset.Static {
		r := p.Dataset.Resolved[z.ID]
		out.Static = append(out.Static, staticView{
			ID:          z.ID,
			Config:      z.Config,
			X:           z.X,
			Y:           z.Y,
			Z:           z.Z,
			Comment:     z.Comment,
			Order:       viewOrder(r),
			Categories:  viewCategories(r),
			DangerLevel: r.DangerLevel,
			Color:       scale.Hex(r.DangerLevel),
		})
	}
	sort.Slice(out.Static, func(i, j int) bool { return out.Static[i].ID < out.Static[j].ID })

	return out
}

func scaleFor(d *combine.Dataset) colormap.Scale {
	lo, hi, ok := d.DangerRange()
	if !ok {
		return colormap.Scale{}
	}
	return colormap.Scale{Min: lo, Max: hi}
}

func viewOrder(r spawn.Resolved) []string {
	if r.Order == nil {
		return []string{}
	}
	return r.Order
}

func viewCategories(r spawn.Resolved) map[string][]string {
	if r.Categories == nil {
		return map[string][]string{}
	}
	return r.Categories
}
