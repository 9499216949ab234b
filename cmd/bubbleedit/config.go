package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// Config holds persistent editor settings.
type Config struct {
	Renderer string   `toml:"renderer"`  // "native" or "graphviz"
	FileType string   `toml:"file_type"` // "png" or "svg"
	LastDir  string   `toml:"last_dir"`
	LogFile  string   `toml:"log_file"`
	LogLevel string   `toml:"log_level"` // "debug", "info", "warn" or "error"
	Palette  []string `toml:"palette,omitempty"`
	Seed     uint64   `toml:"seed"` // 0 seeds colours from the clock
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		Renderer: "native",
		FileType: "png",
		LastDir:  cwd,
		LogFile:  homePath(".bubbleedit.log"),
		LogLevel: "info",
	}
}

func homePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

// ConfigPath returns the path to the config file. BUBBLEEDIT_CONFIG
// overrides the default of ~/.bubbleedit.toml.
func ConfigPath() string {
	if p := os.Getenv("BUBBLEEDIT_CONFIG"); p != "" {
		return p
	}
	return homePath(".bubbleedit.toml")
}

// LoadConfig reads path over the defaults. A missing file is not an error;
// unknown or invalid values fall back to their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}

	def := DefaultConfig()
	if cfg.Renderer != "native" && cfg.Renderer != "graphviz" {
		cfg.Renderer = def.Renderer
	}
	if cfg.FileType != "png" && cfg.FileType != "svg" {
		cfg.FileType = def.FileType
	}
	if cfg.LastDir == "" {
		cfg.LastDir = def.LastDir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# bubbleedit configuration\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// palette returns the configured palette, or the default one.
func (c Config) palette() (dgraph.Palette, error) {
	if len(c.Palette) == 0 {
		return dgraph.DefaultPalette(), nil
	}
	return dgraph.ParsePalette(c.Palette)
}

func (c Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// openLog opens the log file named in cfg. The terminal belongs to the
// editor, so a log that cannot be opened is discarded rather than printed.
func openLog(cfg Config) (*slog.Logger, io.Closer) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.level()})
	return slog.New(h), f
}
