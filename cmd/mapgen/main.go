// Package main provides the batch map generator: it reads the spawn system
// source files and emits the interactive HTML zone map.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/config"
	"github.com/dayztools/zonemap/internal/observability"
	"github.com/dayztools/zonemap/internal/pipeline"
	"github.com/dayztools/zonemap/internal/preset"
)

func main() {
	os.Exit(run())
}

// run carries the whole generation so deferred cleanup (notably the logger
// flush) survives the failure exit path.
func run() int {
	start := time.Now()

	settingsPath := flag.String("settings", "settings.json", "path to the settings file")
	dynamicFile := flag.String("dynamic", "", "dynamic zone file (overrides settings)")
	staticFile := flag.String("static", "", "static zone file (overrides settings)")
	categoriesFile := flag.String("categories", "", "category selector file (overrides settings)")
	classnamesFile := flag.String("classnames", "", "creature category file (overrides settings)")
	healthFile := flag.String("health", "", "optional creature health file (overrides settings)")
	backgroundFile := flag.String("background", "", "square background image (overrides settings)")
	outputDir := flag.String("output", "", "output directory (overrides settings)")
	outputFilename := flag.String("filename", "", "artifact filename (overrides settings)")
	presetName := flag.String("preset", "", "map preset name (overrides settings)")
	worldSize := flag.Int("world-size", 0, "world size for the custom preset (overrides settings)")
	title := flag.String("title", "", "artifact page title")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Printf("loading settings: %v", err)
		return 1
	}
	applyOverride(&cfg.Paths.DynamicFile, *dynamicFile)
	applyOverride(&cfg.Paths.StaticFile, *staticFile)
	applyOverride(&cfg.Paths.CategoriesFile, *categoriesFile)
	applyOverride(&cfg.Paths.ClassnamesFile, *classnamesFile)
	applyOverride(&cfg.Paths.HealthFile, *healthFile)
	applyOverride(&cfg.Paths.BackgroundFile, *backgroundFile)
	applyOverride(&cfg.Paths.OutputDir, *outputDir)
	applyOverride(&cfg.Paths.OutputFilename, *outputFilename)
	applyOverride(&cfg.Map.Preset, *presetName)
	if *worldSize > 0 {
		cfg.Map.WorldSize = *worldSize
	}

	logger, err := observability.NewCLILogger(*verbose)
	if err != nil {
		log.Printf("initializing logger: %v", err)
		return 1
	}
	defer logger.Sync()

	catalog, err := preset.LoadCatalog(cfg.Map.PresetFile)
	if err != nil {
		logger.Error("loading preset catalog", zap.Error(err))
		return 1
	}
	resolvedWorld := catalog.WorldSize(cfg.Map.Preset, cfg.Map.WorldSize)

	logger.Info("generating zone map",
		zap.String("preset", cfg.Map.Preset),
		zap.Int("world_size", resolvedWorld),
		zap.String("output_dir", cfg.Paths.OutputDir),
	)

	progress := make(chan string, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range progress {
			fmt.Println(msg)
		}
	}()

	summary, err := pipeline.Generate(context.Background(), pipeline.Inputs{
		DynamicFile:    cfg.Paths.DynamicFile,
		StaticFile:     cfg.Paths.StaticFile,
		CategoriesFile: cfg.Paths.CategoriesFile,
		ClassnamesFile: cfg.Paths.ClassnamesFile,
		HealthFile:     cfg.Paths.HealthFile,
		BackgroundFile: cfg.Paths.BackgroundFile,
		OutputDir:      cfg.Paths.OutputDir,
		OutputFilename: cfg.Paths.OutputFilename,
		WorldSize:      resolvedWorld,
		Title:          *title,
	}, logger, progress)
	close(progress)
	<-done
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return 1
	}

	cfg.Map.ImageSize = summary.ImageSize
	if err := config.Save(*settingsPath, cfg); err != nil {
		logger.Warn("saving settings", zap.Error(err))
	}

	fmt.Printf("generated %s: %d dynamic + %d static = %d zones in %s\n",
		summary.ArtifactPath, summary.DynamicCount, summary.StaticCount,
		summary.TotalZones, time.Since(start).Round(time.Millisecond))
	return 0
}

func applyOverride(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
