package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mapedit.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			FPS:          30,
			MapWidth:     40,
			MapHeight:    20,
			DefaultTool:  "pencil",
			DefaultLayer: "ground",
		},
		Autosave: AutosaveConfig{
			Interval:     60 * time.Second,
			RetryDelay:   0,
			StatusTTL:    4 * time.Second,
			ScanInterval: 30 * time.Second,
		},
		Paths: PathsConfig{
			DataDir: "~/.mapedit",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       "~/.mapedit/logs/mapedit.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
