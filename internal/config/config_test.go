package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg := Config{}
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded default differs from Default():\n%+v\n%+v", cfg, Default())
	}
}

func TestDefaultRetriesOnNextFrame(t *testing.T) {
	if got := Default().Autosave.RetryDelay; got != 0 {
		t.Errorf("default RetryDelay = %s, expected 0", got)
	}
}

func TestLoadCustomPathKeepsMissingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := `
editor:
  fps: 60
autosave:
  interval: 90s
paths:
  data_dir: ` + dir + `
logging:
  file: ""
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Editor.FPS != 60 {
		t.Errorf("FPS = %d, want 60", cfg.Editor.FPS)
	}
	if cfg.Autosave.Interval != 90*time.Second {
		t.Errorf("Interval = %s, want 90s", cfg.Autosave.Interval)
	}
	if cfg.Editor.MapWidth != 40 {
		t.Errorf("MapWidth = %d, want default 40", cfg.Editor.MapWidth)
	}
	if cfg.Paths.Database != filepath.Join(dir, "maps.db") {
		t.Errorf("Database = %q", cfg.Paths.Database)
	}
	if cfg.Paths.RecoveryDir != filepath.Join(dir, "recovery") {
		t.Errorf("RecoveryDir = %q", cfg.Paths.RecoveryDir)
	}
	if cfg.Logging.File != "" {
		t.Errorf("Logging.File = %q, want stderr", cfg.Logging.File)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("editor: [1, 2"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestResolveExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Default()
	cfg.Paths.PresetDir = "~/presets"
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(home, ".mapedit") {
		t.Errorf("DataDir = %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.PresetDir != filepath.Join(home, "presets") {
		t.Errorf("PresetDir = %q", cfg.Paths.PresetDir)
	}
	if !strings.HasPrefix(cfg.Logging.File, home) {
		t.Errorf("Logging.File = %q", cfg.Logging.File)
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	cfg := Default()
	cfg.Editor.FPS = 0
	cfg.Editor.DefaultLayer = "sky"
	cfg.Autosave.Interval = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"editor.fps", "editor.default_layer", "autosave.interval", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should be valid: %v", err)
	}
}
