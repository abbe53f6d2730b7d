package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/treeplot/internal/types"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// EnvServer overrides the configured service URL
	EnvServer = "TREEPLOT_SERVER"
)

var (
	// ConfigDir is the global configuration directory (~/.treeplot)
	ConfigDir string

	// ConfigFile is the YAML configuration file
	ConfigFile string

	// LogFile receives TUI logs (the terminal is busy drawing)
	LogFile string

	// DatabasePath is the SQLite database used by `treeplot serve`
	DatabasePath string
)

// Config is the contents of config.yaml
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	UI       UIConfig       `yaml:"ui"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Serve    ServeConfig    `yaml:"serve"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig describes the tree service the controller talks to
type ServerConfig struct {
	URL     string           `yaml:"url"`
	Timeout Duration         `yaml:"timeout"`
	TLS     *types.TLSConfig `yaml:"tls,omitempty"`
}

// UIConfig holds TUI preferences
type UIConfig struct {
	InitialMode string `yaml:"initialMode"`
}

// DispatchConfig tunes request/response ordering
type DispatchConfig struct {
	// DropStale ignores image responses older than the last one shown
	DropStale bool `yaml:"dropStale"`
}

// ServeConfig configures the bundled tree service
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database,omitempty"`
}

// LogConfig sets the log level (debug, info, warn, error)
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration written as "30s" in YAML
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: Duration(30 * time.Second),
		},
		UI:    UIConfig{InitialMode: types.ModeRedBlackTree.String()},
		Serve: ServeConfig{Addr: ":8080"},
		Log:   LogConfig{Level: "info"},
	}
}

// Initialize sets up the configuration directory and files
// It creates ~/.treeplot/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".treeplot"))
}

// InitializeAt is Initialize with an explicit directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	LogFile = filepath.Join(ConfigDir, "treeplot.log")
	DatabasePath = filepath.Join(ConfigDir, "trees.db")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default config file if it doesn't exist
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := Save(ConfigFile, Default()); err != nil {
			return err
		}
	}

	return nil
}

// Load reads a YAML config file on top of the defaults. A missing file
// yields the defaults. The TREEPLOT_SERVER variable wins over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvServer); env != "" {
		cfg.Server.URL = env
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks fields that would otherwise fail later
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if _, err := c.InitialMode(); err != nil {
		return fmt.Errorf("ui.initialMode: %w", err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// InitialMode returns the configured starting mode
func (c Config) InitialMode() (types.Mode, error) {
	if c.UI.InitialMode == "" {
		return types.ModeRedBlackTree, nil
	}
	return types.ParseMode(c.UI.InitialMode)
}

// DatabaseFile returns the serve database path, falling back to the global one
func (c Config) DatabaseFile() string {
	if c.Serve.Database != "" {
		return c.Serve.Database
	}
	return DatabasePath
}

// ParseLevel maps a level name onto slog levels
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", name)
	}
	return lvl, nil
}
