package render

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/spawn"
)

func testDataset() *combine.Dataset {
	dynamic := map[string]spawn.DynamicZone{
		"Zone001": {
			ID: "Zone001", Config: 5,
			XUpLeft: 1000, ZUpLeft: 9000, XLowerRight: 3000, ZLowerRight: 7000,
			SpawnRatio: 100, MaxCount: 25, Comment: "Cherno docks",
		},
		// Inactive slot, must not appear in the artifact.
		"Zone002": {ID: "Zone002"},
	}
	static := map[string]spawn.StaticZone{
		"HordeStatic001": {
			ID: "HordeStatic001", Config: 5, X: 4500.5, Y: 12, Z: 10200.25,
			Comment: "military camp",
		},
	}
	selectors := map[int]spawn.Selector{
		5: {Config: 5, Categories: [3]string{"CatA", "Empty", "Empty"}},
	}
	categories := spawn.CategoryTable{
		"CatA":  {"Zmb_A", "Zmb_B"},
		"Empty": {},
	}
	health := spawn.HealthTable{"Zmb_A": 100, "Zmb_B": 200}
	return combine.Fuse(dynamic, static, selectors, categories, health)
}

func renderToString(t *testing.T, p Params) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteArtifact(&buf, p))
	return buf.String()
}

func TestWriteArtifactDocument(t *testing.T) {
	out := renderToString(t, Params{
		Title:           "Chernarus Zones",
		WorldSize:       15360,
		ImageSize:       2048,
		BackgroundImage: "chernarus.png",
		Dataset:         testDataset(),
	})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Chernarus Zones</title>")
	assert.Contains(t, out, `src="chernarus.png"`)
	assert.Contains(t, out, "width: 2048px")
	assert.Contains(t, out, "Zone001")
	assert.Contains(t, out, "HordeStatic001")
}

func TestWriteArtifactPayload(t *testing.T) {
	out := renderToString(t, Params{
		WorldSize:       16384,
		ImageSize:       4096,
		BackgroundImage: "map.png",
		Dataset:         testDataset(),
	})

	re := regexp.MustCompile(`const zonesData = ([\s\S]*?);\n`)
	m := re.FindStringSubmatch(out)
	require.NotNil(t, m, "artifact must inline the zone payload")

	var p payload
	require.NoError(t, json.Unmarshal([]byte(m[1]), &p))

	assert.Equal(t, 16384, p.WorldSize)
	assert.Equal(t, 4096, p.ImageSize)

	require.Len(t, p.Dynamic, 1, "inactive slots are excluded")
	z := p.Dynamic[0]
	assert.Equal(t, "Zone001", z.ID)
	assert.Equal(t, 5, z.Config)
	assert.Equal(t, 1000, z.XUpLeft)
	assert.Equal(t, []string{"CatA"}, z.Order)
	assert.Equal(t, []string{"Zmb_A", "Zmb_B"}, z.Categories["CatA"])
	assert.InDelta(t, 150.0, z.DangerLevel, 1e-9)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, z.Color)

	require.Len(t, p.Static, 1)
	s := p.Static[0]
	assert.Equal(t, "HordeStatic001", s.ID)
	assert.InDelta(t, 4500.5, s.X, 1e-9)
	assert.InDelta(t, 10200.25, s.Z, 1e-9)
}

func TestWriteArtifactNoDangerData(t *testing.T) {
	ds := testDataset()
	ds.Health = spawn.HealthTable{}
	for id := range ds.Resolved {
		ds.Refresh(id)
	}

	out := renderToString(t, Params{
		WorldSize:       16384,
		ImageSize:       4096,
		BackgroundImage: "map.png",
		Dataset:         ds,
	})
	assert.Contains(t, out, `"danger_level": 0`)
}

func TestWriteArtifactDefaultTitle(t *testing.T) {
	out := renderToString(t, Params{
		WorldSize:       16384,
		ImageSize:       4096,
		BackgroundImage: "map.png",
		Dataset:         testDataset(),
	})
	assert.Contains(t, out, "<title>DayZ Zone Map</title>")
}

func TestWriteArtifactRejectsBadDimensions(t *testing.T) {
	var buf bytes.Buffer
	err := WriteArtifact(&buf, Params{WorldSize: 0, ImageSize: 4096, Dataset: testDataset()})
	assert.Error(t, err)

	err = WriteArtifact(&buf, Params{WorldSize: 16384, ImageSize: -1, Dataset: testDataset()})
	assert.Error(t, err)
}
