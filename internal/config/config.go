// Package config provides Viper-based loading and persistence of the toolkit
// settings: input file paths, output location, map dimensions, and the
// zoneserver and logging sections.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PathsConfig holds the input file paths and output location remembered
// between runs.
type PathsConfig struct {
	// DynamicFile is the dynamic zone definition file.
	DynamicFile string `mapstructure:"dynamic_file"`
	// StaticFile is the static zone definition file.
	StaticFile string `mapstructure:"static_file"`
	// CategoriesFile is the selector/category assignment file.
	CategoriesFile string `mapstructure:"categories_file"`
	// ClassnamesFile is the category-to-creature listing file.
	ClassnamesFile string `mapstructure:"classnames_file"`
	// HealthFile is the optional creature health markup file.
	HealthFile string `mapstructure:"health_file"`
	// BackgroundFile is the square map background image.
	BackgroundFile string `mapstructure:"background_file"`
	// OutputDir is the directory the map artifact is written to.
	OutputDir string `mapstructure:"output_dir"`
	// OutputFilename is the name of the HTML artifact.
	OutputFilename string `mapstructure:"output_filename"`
	// LastDir is the directory the most recent file was picked from.
	LastDir string `mapstructure:"last_dir"`
}

// MapConfig holds the coordinate system dimensions.
type MapConfig struct {
	// WorldSize is the map edge length in world units.
	WorldSize int `mapstructure:"world_size"`
	// ImageSize is the background image edge length in pixels.
	ImageSize int `mapstructure:"image_size"`
	// Preset is the selected map preset name ("custom" for manual sizes).
	Preset string `mapstructure:"preset"`
	// PresetFile is an optional YAML catalog of additional presets.
	PresetFile string `mapstructure:"preset_file"`
}

// ServerConfig holds the zoneserver HTTP listener settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Map     MapConfig     `mapstructure:"map"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validatePaths(c.Paths); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMap(c.Map); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	if p.OutputFilename == "" {
		return errors.New("paths.output_filename must not be empty")
	}
	return nil
}

func validateMap(m MapConfig) error {
	var errs []string
	if m.WorldSize < 1 {
		errs = append(errs, fmt.Sprintf("map.world_size must be >= 1, got %d", m.WorldSize))
	}
	if m.ImageSize < 1 {
		errs = append(errs, fmt.Sprintf("map.image_size must be >= 1, got %d", m.ImageSize))
	}
	if m.Preset == "" {
		errs = append(errs, "map.preset must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", s.Port)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads settings from the given JSON file path, applies environment
// variable overrides, and validates the result. A missing settings file is
// not an error: defaults apply, and the file appears after the first
// successful save.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	// Environment variable overrides with ZONEMAP_ prefix
	v.SetEnvPrefix("ZONEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	// A missing or unreadable settings file falls back to defaults rather
	// than aborting a session.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save persists the configuration back to the JSON settings file at path.
//
// Precondition: cfg must pass Validate.
// Postcondition: The file at path holds cfg, or a non-nil error is returned.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("json")

	v.Set("paths.dynamic_file", cfg.Paths.DynamicFile)
	v.Set("paths.static_file", cfg.Paths.StaticFile)
	v.Set("paths.categories_file", cfg.Paths.CategoriesFile)
	v.Set("paths.classnames_file", cfg.Paths.ClassnamesFile)
	v.Set("paths.health_file", cfg.Paths.HealthFile)
	v.Set("paths.background_file", cfg.Paths.BackgroundFile)
	v.Set("paths.output_dir", cfg.Paths.OutputDir)
	v.Set("paths.output_filename", cfg.Paths.OutputFilename)
	v.Set("paths.last_dir", cfg.Paths.LastDir)
	v.Set("map.world_size", cfg.Map.WorldSize)
	v.Set("map.image_size", cfg.Map.ImageSize)
	v.Set("map.preset", cfg.Map.Preset)
	v.Set("map.preset_file", cfg.Map.PresetFile)
	v.Set("server.host", cfg.Server.Host)
	v.Set("server.port", cfg.Server.Port)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.format", cfg.Logging.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing settings to %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.output_filename", "zone_map.html")

	v.SetDefault("map.world_size", 16384)
	v.SetDefault("map.image_size", 4096)
	v.SetDefault("map.preset", "custom")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8714)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
