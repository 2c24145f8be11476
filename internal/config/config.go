// Package config provides YAML-based configuration loading for the editor.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/tui-mapedit/internal/filestore"
)

// Config is the complete editor configuration.
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EditorConfig defines the interactive editor parameters.
type EditorConfig struct {
	FPS          int    `yaml:"fps"`
	MapWidth     int    `yaml:"map_width"`  // Width of newly created maps
	MapHeight    int    `yaml:"map_height"` // Height of newly created maps
	DefaultTool  string `yaml:"default_tool"`
	DefaultLayer string `yaml:"default_layer"` // ground, mask or fringe
}

// AutosaveConfig defines the recovery snapshot schedule.
type AutosaveConfig struct {
	Interval     time.Duration `yaml:"interval"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	StatusTTL    time.Duration `yaml:"status_ttl"`    // How long status messages stay visible
	ScanInterval time.Duration `yaml:"scan_interval"` // Recovery directory scan for the status bar
}

// PathsConfig defines where data lives. Empty paths derive from DataDir.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir"`
	Database    string `yaml:"database"`
	RecoveryDir string `yaml:"recovery_dir"`
	PresetDir   string `yaml:"preset_dir"`
}

// LoggingConfig defines the log output. An empty File logs to stderr.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text, json or logfmt
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Resolve expands ~ in every path and fills empty paths from DataDir.
func (c *Config) Resolve() error {
	dataDir, err := filestore.ExpandHome(c.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Paths.DataDir = dataDir

	derive := func(p *string, name string) error {
		if *p == "" {
			*p = filepath.Join(dataDir, name)
			return nil
		}
		expanded, err := filestore.ExpandHome(*p)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*p = expanded
		return nil
	}

	for _, d := range []struct {
		p    *string
		name string
	}{
		{&c.Paths.Database, "maps.db"},
		{&c.Paths.RecoveryDir, "recovery"},
		{&c.Paths.PresetDir, "presets"},
	} {
		if err := derive(d.p, d.name); err != nil {
			return err
		}
	}

	if c.Logging.File != "" {
		file, err := filestore.ExpandHome(c.Logging.File)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		c.Logging.File = file
	}
	return nil
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if err := validateEditor(c.Editor); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAutosave(c.Autosave); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Paths.DataDir == "" {
		errs = append(errs, "paths.data_dir must not be empty")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEditor(e EditorConfig) error {
	var errs []string
	if e.FPS < 1 || e.FPS > 120 {
		errs = append(errs, fmt.Sprintf("editor.fps must be 1-120, got %d", e.FPS))
	}
	if e.MapWidth < 1 || e.MapWidth > 1024 {
		errs = append(errs, fmt.Sprintf("editor.map_width must be 1-1024, got %d", e.MapWidth))
	}
	if e.MapHeight < 1 || e.MapHeight > 1024 {
		errs = append(errs, fmt.Sprintf("editor.map_height must be 1-1024, got %d", e.MapHeight))
	}
	validLayers := map[string]bool{"ground": true, "mask": true, "fringe": true}
	if !validLayers[e.DefaultLayer] {
		errs = append(errs, fmt.Sprintf("editor.default_layer must be one of [ground, mask, fringe], got %q", e.DefaultLayer))
	}
	if e.DefaultTool == "" {
		errs = append(errs, "editor.default_tool must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateAutosave(a AutosaveConfig) error {
	var errs []string
	if a.Interval < time.Second {
		errs = append(errs, fmt.Sprintf("autosave.interval must be >= 1s, got %s", a.Interval))
	}
	if a.RetryDelay < 0 {
		errs = append(errs, fmt.Sprintf("autosave.retry_delay must be >= 0, got %s", a.RetryDelay))
	}
	if a.StatusTTL <= 0 {
		errs = append(errs, fmt.Sprintf("autosave.status_ttl must be > 0, got %s", a.StatusTTL))
	}
	if a.ScanInterval <= 0 {
		errs = append(errs, fmt.Sprintf("autosave.scan_interval must be > 0, got %s", a.ScanInterval))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true, "logfmt": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [text, json, logfmt], got %q", l.Format))
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		errs = append(errs, "logging rotation limits must be >= 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
