// Package config loads tada settings from defaults, TOML files, the
// environment, and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/persist"
)

const (
	// AppName is the application directory name.
	AppName = "tada"

	// FileName is the user config file name inside the config directory.
	FileName = "config.toml"

	// ProjectFileName is the per-directory config file.
	ProjectFileName = "tada.toml"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds every tada setting.
type Config struct {
	Backend   string `toml:"backend"`
	DataDir   string `toml:"data_dir"`
	Slot      string `toml:"slot"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Theme     string `toml:"theme"`
}

// Overrides carries values set explicitly on the command line. Empty
// strings mean "not set".
type Overrides struct {
	ConfigFile string
	Backend    string
	DataDir    string
	Slot       string
	LogLevel   string
	LogFormat  string
	Theme      string
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Backend:   BackendJSON,
		DataDir:   DefaultDataDir(),
		Slot:      persist.DefaultSlot,
		LogLevel:  "warn",
		LogFormat: "text",
		Theme:     "classic",
	}
}

// Load builds the configuration:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml), or ov.ConfigFile when set
// 3. Project config file (./tada.toml)
// 4. Environment variables (TADA_*)
// 5. Overrides from flags
func Load(ov Overrides) (*Config, error) {
	cfg := Defaults()

	userFile := ov.ConfigFile
	explicit := userFile != ""
	if !explicit {
		userFile = filepath.Join(DefaultConfigDir(), FileName)
	}
	if err := loadFile(cfg, userFile, explicit); err != nil {
		return nil, err
	}
	if err := loadFile(cfg, ProjectFileName, false); err != nil {
		return nil, err
	}

	loadFromEnv(cfg)
	applyOverrides(cfg, ov)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes path over cfg. A missing file is skipped unless required.
func loadFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Backend, "TADA_BACKEND")
	set(&cfg.DataDir, "TADA_DATA_DIR")
	set(&cfg.Slot, "TADA_SLOT")
	set(&cfg.LogLevel, "TADA_LOG_LEVEL")
	set(&cfg.LogFormat, "TADA_LOG_FORMAT")
	set(&cfg.Theme, "TADA_THEME")
}

func applyOverrides(cfg *Config, ov Overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Backend, ov.Backend)
	set(&cfg.DataDir, ov.DataDir)
	set(&cfg.Slot, ov.Slot)
	set(&cfg.LogLevel, ov.LogLevel)
	set(&cfg.LogFormat, ov.LogFormat)
	set(&cfg.Theme, ov.Theme)
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid backend %q, must be one of: json, sqlite, memory", c.Backend)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("invalid theme %q, must be one of: classic, neon, mono", c.Theme)
	}
	if strings.TrimSpace(c.Slot) == "" || strings.ContainsAny(c.Slot, `/\`) {
		return fmt.Errorf("invalid slot name %q", c.Slot)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/tada, or ~/.config/tada.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns $XDG_DATA_HOME/tada, or ~/.local/share/tada.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}
