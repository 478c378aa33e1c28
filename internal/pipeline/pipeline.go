// Package pipeline runs the batch map generation: read the source files,
// extract and fuse the zone records, and emit the HTML artifact next to a
// copy of the background image.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/extract"
	"github.com/dayztools/zonemap/internal/geometry"
	"github.com/dayztools/zonemap/internal/render"
	"github.com/dayztools/zonemap/internal/spawn"
)

// Inputs names the source files and output location for one generation run.
// HealthFile is optional; every other file is required.
type Inputs struct {
	DynamicFile    string
	StaticFile     string
	CategoriesFile string
	ClassnamesFile string
	HealthFile     string
	BackgroundFile string

	OutputDir      string
	OutputFilename string

	WorldSize int
	Title     string
}

// Summary reports what a generation run produced.
type Summary struct {
	DynamicCount int
	StaticCount  int
	TotalZones   int
	ImageSize    int
	ArtifactPath string
}

// Generate runs the full pipeline. Progress messages are sent to progress if
// there is room; a nil or full channel never blocks the run. A missing or
// unparsable health file degrades to no danger data instead of failing.
//
// Precondition: in.WorldSize must be positive.
// Postcondition: On success the artifact and the background image copy exist
// under in.OutputDir.
func Generate(ctx context.Context, in Inputs, logger *zap.Logger, progress chan<- string) (Summary, error) {
	report := func(msg string) {
		if progress == nil {
			return
		}
		select {
		case progress <- msg:
		default:
		}
	}

	report("Validating background image...")
	imageSize, err := geometry.ValidateSquareImage(in.BackgroundFile)
	if err != nil {
		return Summary{}, fmt.Errorf("validating background image: %w", err)
	}
	if _, err := geometry.NewTransform(in.WorldSize, imageSize); err != nil {
		return Summary{}, err
	}

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	report("Parsing dynamic zones...")
	dynamicText, err := readSource(in.DynamicFile, "dynamic zone file")
	if err != nil {
		return Summary{}, err
	}
	dynamic := extract.DynamicZones(dynamicText, logger)

	report("Parsing static zones...")
	staticText, err := readSource(in.StaticFile, "static zone file")
	if err != nil {
		return Summary{}, err
	}
	static := extract.StaticZones(staticText, logger)

	report("Parsing category selectors...")
	selectorText, err := readSource(in.CategoriesFile, "category selector file")
	if err != nil {
		return Summary{}, err
	}
	selectors := extract.Selectors(selectorText, logger)

	report("Parsing creature categories...")
	categoryText, err := readSource(in.ClassnamesFile, "creature category file")
	if err != nil {
		return Summary{}, err
	}
	categories := extract.Categories(categoryText, logger)

	report("Parsing creature health...")
	health := loadHealth(in.HealthFile, logger)

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	report("Combining zones with categories...")
	dataset := combine.Fuse(dynamic, static, selectors, categories, health)

	report("Writing map artifact...")
	if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	imageName := filepath.Base(in.BackgroundFile)
	if err := copyFile(in.BackgroundFile, filepath.Join(in.OutputDir, imageName)); err != nil {
		return Summary{}, fmt.Errorf("copying background image: %w", err)
	}

	artifactPath := filepath.Join(in.OutputDir, in.OutputFilename)
	f, err := os.Create(artifactPath)
	if err != nil {
		return Summary{}, fmt.Errorf("creating artifact: %w", err)
	}
	defer f.Close()

	err = render.WriteArtifact(f, render.Params{
		Title:           in.Title,
		WorldSize:       in.WorldSize,
		ImageSize:       imageSize,
		BackgroundImage: imageName,
		Dataset:         dataset,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("rendering artifact: %w", err)
	}
	if err := f.Sync(); err != nil {
		return Summary{}, fmt.Errorf("flushing artifact: %w", err)
	}

	activeDynamic := 0
	for _, z := range dataset.Dynamic {
		if z.Active() {
			activeDynamic++
		}
	}

	summary := Summary{
		DynamicCount: activeDynamic,
		StaticCount:  len(dataset.Static),
		TotalZones:   activeDynamic + len(dataset.Static),
		ImageSize:    imageSize,
		ArtifactPath: artifactPath,
	}
	logger.Info("map artifact generated",
		zap.String("artifact", summary.ArtifactPath),
		zap.Int("dynamic_zones", summary.DynamicCount),
		zap.Int("static_zones", summary.StaticCount))
	report("Done.")
	return summary, nil
}

// LoadDataset reads and fuses the source files without emitting an artifact.
// The zone editor server uses it to build its working dataset.
func LoadDataset(in Inputs, logger *zap.Logger) (*combine.Dataset, error) {
	dynamicText, err := readSource(in.DynamicFile, "dynamic zone file")
	if err != nil {
		return nil, err
	}
	staticText, err := readSource(in.StaticFile, "static zone file")
	if err != nil {
		return nil, err
	}
	selectorText, err := readSource(in.CategoriesFile, "category selector file")
	if err != nil {
		return nil, err
	}
	categoryText, err := readSource(in.ClassnamesFile, "creature category file")
	if err != nil {
		return nil, err
	}

	return combine.Fuse(
		extract.DynamicZones(dynamicText, logger),
		extract.StaticZones(staticText, logger),
		extract.Selectors(selectorText, logger),
		extract.Categories(categoryText, logger),
		loadHealth(in.HealthFile, logger),
	), nil
}

func readSource(path, kind string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s not configured", kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", kind, err)
	}
	return string(data), nil
}

// loadHealth never fails the run: a missing or broken health file just means
// no danger levels.
func loadHealth(path string, logger *zap.Logger) spawn.HealthTable {
	if path == "" {
		return spawn.HealthTable{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("health file unreadable, danger levels disabled",
			zap.String("path", path), zap.Error(err))
		return spawn.HealthTable{}
	}
	health, err := extract.Health(string(data), logger)
	if err != nil {
		logger.Warn("health file unparsable, using what was salvaged",
			zap.String("path", path), zap.Error(err))
	}
	return health
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
