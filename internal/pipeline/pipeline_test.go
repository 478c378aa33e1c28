package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dynamicSource = `// PvZmoD dynamic zones
ref autoptr TIntArray data_Zone001 = {5, 1000, 9000, 3000, 7000, 100, 25}; // Cherno docks
ref autoptr TIntArray data_Zone002 = {0, 0, 0, 0, 0, 0, 0}; //
ref autoptr TIntArray data_Zone003 = {7, 4000, 6000, 5000, 5000, 80, 10}; // airfield
`

const staticSource = `ref autoptr TFloatArray data_HordeStatic001 = {1, 0, 0, 0, 4500.5, 12, 10200.25, 0, 0, 0, 0, 5}; // military camp
`

const selectorSource = `data_Horde_5_ChernoCategories = new Param5<int, int, string, string, string>(1, 2, CatA, Empty, Empty);
data_Horde_7_AirfieldCategories = new Param5<int, int, string, string, string>(1, 2, CatA, CatB, Empty);
`

const categorySource = `ref autoptr TStringArray CatA = {"Zmb_A", "Zmb_B"};
ref autoptr TStringArray CatB = {
    "Zmb_C"
};
ref autoptr TStringArray Empty = {};
`

const healthSource = `<Zombies>
  <Zombie name="Zmb_A"><Health Day="100"/></Zombie>
  <Zombie name="Zmb_B"><Health Day="200"/></Zombie>
  <Zombie name="Zmb_C"><Health Day="300"/></Zombie>
</Zombies>
`

func writeSquarePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testInputs(t *testing.T) Inputs {
	t.Helper()
	dir := t.TempDir()
	background := filepath.Join(dir, "map.png")
	writeSquarePNG(t, background, 64)
	return Inputs{
		DynamicFile:    writeFixture(t, dir, "dynamic.c", dynamicSource),
		StaticFile:     writeFixture(t, dir, "static.c", staticSource),
		CategoriesFile: writeFixture(t, dir, "selectors.c", selectorSource),
		ClassnamesFile: writeFixture(t, dir, "categories.c", categorySource),
		HealthFile:     writeFixture(t, dir, "health.xml", healthSource),
		BackgroundFile: background,
		OutputDir:      filepath.Join(dir, "out"),
		OutputFilename: "zone_map.html",
		WorldSize:      16384,
	}
}

func TestGenerate(t *testing.T) {
	in := testInputs(t)
	progress := make(chan string, 32)

	summary, err := Generate(context.Background(), in, zap.NewNop(), progress)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.DynamicCount, "free slots are not counted")
	assert.Equal(t, 1, summary.StaticCount)
	assert.Equal(t, 3, summary.TotalZones)
	assert.Equal(t, 64, summary.ImageSize)
	assert.Equal(t, filepath.Join(in.OutputDir, "zone_map.html"), summary.ArtifactPath)

	html, err := os.ReadFile(summary.ArtifactPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Zone001")
	assert.Contains(t, string(html), "Zone003")
	assert.NotContains(t, string(html), "Zone002")
	assert.Contains(t, string(html), "HordeStatic001")
	assert.Contains(t, string(html), `src="map.png"`)

	// The background image travels next to the artifact.
	_, err = os.Stat(filepath.Join(in.OutputDir, "map.png"))
	assert.NoError(t, err)

	close(progress)
	var messages []string
	for msg := range progress {
		messages = append(messages, msg)
	}
	assert.NotEmpty(t, messages)
	assert.Equal(t, "Done.", messages[len(messages)-1])
}

func TestGenerateNilProgress(t *testing.T) {
	in := testInputs(t)
	_, err := Generate(context.Background(), in, zap.NewNop(), nil)
	assert.NoError(t, err)
}

func TestGenerateFullProgressDoesNotBlock(t *testing.T) {
	in := testInputs(t)
	progress := make(chan string) // unbuffered, no reader

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Generate(context.Background(), in, zap.NewNop(), progress)
		assert.NoError(t, err)
	}()
	<-done
}

func TestGenerateMissingHealthDegrades(t *testing.T) {
	in := testInputs(t)
	in.HealthFile = filepath.Join(t.TempDir(), "missing.xml")

	summary, err := Generate(context.Background(), in, zap.NewNop(), nil)
	require.NoError(t, err)

	html, err := os.ReadFile(summary.ArtifactPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `"danger_level": 0`)
}

func TestGenerateMissingRequiredFile(t *testing.T) {
	in := testInputs(t)
	in.DynamicFile = filepath.Join(t.TempDir(), "missing.c")
	_, err := Generate(context.Background(), in, zap.NewNop(), nil)
	assert.Error(t, err)

	in = testInputs(t)
	in.CategoriesFile = ""
	_, err = Generate(context.Background(), in, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestGenerateNonSquareImage(t *testing.T) {
	in := testInputs(t)
	rectPath := filepath.Join(t.TempDir(), "rect.png")
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	f, err := os.Create(rectPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	in.BackgroundFile = rectPath

	_, err = Generate(context.Background(), in, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestGenerateCancelledContext(t *testing.T) {
	in := testInputs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, in, zap.NewNop(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDataset(t *testing.T) {
	in := testInputs(t)
	ds, err := LoadDataset(in, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, ds.Static, 1)
	r := ds.Resolved["Zone001"]
	assert.Equal(t, []string{"CatA"}, r.Order)
	assert.InDelta(t, 150.0, r.DangerLevel, 1e-9)
}
