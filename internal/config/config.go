package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// Keys of config.yaml.
const (
	KeyAdapter       = "adapter"
	KeyFormat        = "format"
	KeyDataDir       = "data_dir"
	KeyCascadeDelete = "cascade_delete"
	KeyEventBuffer   = "event_buffer"
	KeyLogLevel      = "log_level"
	KeyKeymapFile    = "keymap_file"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# grove configuration

# Storage adapter: fs or sqlite
adapter: fs

# File format of the fs adapter: json, yaml or md
format: json

# Data directory (optional; overridden by --data-dir and GROVE_DATA_DIR)
# data_dir:

# Delete the topics and notes of a category along with it
cascade_delete: false

# Event broker buffer between the store and live lists
event_buffer: 100

# debug, info, warn or error
log_level: info

# TOML file overriding key bindings, relative to the config directory
# keymap_file: keymap.toml
`

// Settings are the values read from config.yaml.
type Settings struct {
	Adapter       string `mapstructure:"adapter"`
	Format        string `mapstructure:"format"`
	DataDir       string `mapstructure:"data_dir"`
	CascadeDelete bool   `mapstructure:"cascade_delete"`
	EventBuffer   int    `mapstructure:"event_buffer"`
	LogLevel      string `mapstructure:"log_level"`
	KeymapFile    string `mapstructure:"keymap_file"`

	// Dir is the directory config.yaml was read from.
	Dir string `mapstructure:"-"`
}

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing file yields the defaults.
func Load(configDir string) (Settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return Settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyAdapter, "fs")
	v.SetDefault(KeyFormat, "json")
	v.SetDefault(KeyCascadeDelete, false)
	v.SetDefault(KeyEventBuffer, 100)
	v.SetDefault(KeyLogLevel, "info")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	s.Dir = configDir
	return s, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Level maps log_level to a slog level. Unknown values mean info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(s.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// KeymapPath resolves keymap_file against the config directory.
// It returns "" when no keymap file is configured.
func (s Settings) KeymapPath() string {
	p := strings.TrimSpace(s.KeymapFile)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}
