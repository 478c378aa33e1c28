// Package main provides the zone editor server: it loads the spawn system
// source files into one shared edit session and serves the editing API, the
// live map page, and a websocket event feed.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/config"
	"github.com/dayztools/zonemap/internal/geometry"
	"github.com/dayztools/zonemap/internal/observability"
	"github.com/dayztools/zonemap/internal/pipeline"
	"github.com/dayztools/zonemap/internal/preset"
	"github.com/dayztools/zonemap/internal/server"
)

func main() {
	settingsPath := flag.String("settings", "settings.json", "path to the settings file")
	addr := flag.String("addr", "", "listen address (overrides settings)")
	title := flag.String("title", "", "live map page title")
	flag.Parse()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("loading settings: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	imageSize, err := geometry.ValidateSquareImage(cfg.Paths.BackgroundFile)
	if err != nil {
		logger.Fatal("validating background image", zap.Error(err))
	}

	catalog, err := preset.LoadCatalog(cfg.Map.PresetFile)
	if err != nil {
		logger.Fatal("loading preset catalog", zap.Error(err))
	}
	worldSize := catalog.WorldSize(cfg.Map.Preset, cfg.Map.WorldSize)

	transform, err := geometry.NewTransform(worldSize, imageSize)
	if err != nil {
		logger.Fatal("building coordinate transform", zap.Error(err))
	}

	dataset, err := pipeline.LoadDataset(pipeline.Inputs{
		DynamicFile:    cfg.Paths.DynamicFile,
		StaticFile:     cfg.Paths.StaticFile,
		CategoriesFile: cfg.Paths.CategoriesFile,
		ClassnamesFile: cfg.Paths.ClassnamesFile,
		HealthFile:     cfg.Paths.HealthFile,
	}, logger)
	if err != nil {
		logger.Fatal("loading zone dataset", zap.Error(err))
	}

	logger.Info("dataset loaded",
		zap.Int("dynamic_zones", len(dataset.Dynamic)),
		zap.Int("static_zones", len(dataset.Static)),
		zap.String("preset", cfg.Map.Preset),
		zap.Int("world_size", worldSize),
	)

	srv := server.New(server.Options{
		Dataset:   dataset,
		Transform: transform,
		Files: server.Files{
			DynamicFile: cfg.Paths.DynamicFile,
			StaticFile:  cfg.Paths.StaticFile,
		},
		Title:          *title,
		WorldSize:      worldSize,
		BackgroundPath: cfg.Paths.BackgroundFile,
	}, logger)

	listenAddr := cfg.Server.Addr()
	if *addr != "" {
		listenAddr = *addr
	}
	httpSrv := &http.Server{
		Addr:    listenAddr,
		Handler: srv.Handler(),
	}
	if err := server.Run(context.Background(), logger, httpSrv); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
