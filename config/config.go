package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "clipslots"

type Config struct {
	LogLevel string        `toml:"log_level"`
	Slots    SlotsConfig   `toml:"slots"`
	Web      WebConfig     `toml:"web"`
	Tray     TrayConfig    `toml:"tray"`
	Metrics  MetricsConfig `toml:"metrics"`
	History  HistoryConfig `toml:"history"`

	path string
}

type SlotsConfig struct {
	// File is the slot file; empty means cbsaves.txt in the config directory
	File             string `toml:"file"`
	ClipboardDelayMs int    `toml:"clipboard_delay_ms"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

type MetricsConfig struct {
	IntervalMs int    `toml:"interval_ms"`
	DiskPath   string `toml:"disk_path"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default configuration
func defaultConfig() *Config {
	diskPath := "/"
	if v := os.Getenv("SystemDrive"); v != "" {
		diskPath = v + `\`
	}

	return &Config{
		LogLevel: "info",
		Slots: SlotsConfig{
			File:             "",
			ClipboardDelayMs: 50,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8765,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			IntervalMs: 500,
			DiskPath:   diskPath,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the per-user directory holding the config, slot file and
// history database, creating it if needed
func ConfigDir() (string, error) {
	base := os.Getenv("APPDATA")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		base = dir
	}

	configDir := filepath.Join(base, appName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default TOML file
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path.
// If the file doesn't exist, it creates it with default values
func LoadFrom(configPath string) (*Config, error) {
	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		cfg.path = configPath
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to its TOML file
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(c)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Slots.ClipboardDelayMs < 0 {
		return fmt.Errorf("clipboard_delay_ms must not be negative")
	}
	if c.Web.Enabled && (c.Web.Port < 1 || c.Web.Port > 65535) {
		return fmt.Errorf("web port out of range: %d", c.Web.Port)
	}
	if c.Metrics.IntervalMs < 0 {
		return fmt.Errorf("metrics interval_ms must not be negative")
	}
	return nil
}

// SlotFile returns the slot file path, resolving the default location next
// to the config file
func (c *Config) SlotFile() string {
	if c.Slots.File != "" {
		return c.Slots.File
	}
	return filepath.Join(filepath.Dir(c.path), "cbsaves.txt")
}

// Dir returns the directory of the config file
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// ClipboardDelay returns the wait between Ctrl+C and the clipboard read
func (c *Config) ClipboardDelay() time.Duration {
	return time.Duration(c.Slots.ClipboardDelayMs) * time.Millisecond
}

// MetricsInterval returns the system metrics polling interval
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.Metrics.IntervalMs) * time.Millisecond
}

// ParseLevel parses a log level name like "debug" or "warn"
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
