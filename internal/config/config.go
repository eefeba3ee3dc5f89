package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/filelock"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no pocketdesk config found (run 'pocketdesk init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the pocketdesk configuration file.
type Config struct {
	Version int           `yaml:"version"`
	Todo    TodoConfig    `yaml:"todo"`
	Calc    CalcConfig    `yaml:"calc"`
	Weather WeatherConfig `yaml:"weather"`
	TUI     TUIConfig     `yaml:"tui,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`

	// Legacy v1 fields, cleared by migrate.
	LegacyCity      string `yaml:"city,omitempty"`
	LegacyAPIKeyEnv string `yaml:"api_key_env,omitempty"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// TodoConfig holds the task list enumerations.
type TodoConfig struct {
	// Priorities are ordered lowest rank first.
	Priorities      []string `yaml:"priorities"`
	Categories      []string `yaml:"categories"`
	DefaultPriority string   `yaml:"default_priority"`
}

// CalcConfig holds calculator settings.
type CalcConfig struct {
	ErrorMarker string `yaml:"error_marker"`
}

// WeatherConfig holds the weather provider settings. The API key itself is
// never stored here; APIKeyEnv names the environment variable to read.
type WeatherConfig struct {
	Endpoint    string `yaml:"endpoint"`
	IconURL     string `yaml:"icon_url"`
	Units       string `yaml:"units"`
	DefaultCity string `yaml:"default_city"`
	APIKeyEnv   string `yaml:"api_key_env"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	Accent string `yaml:"accent,omitempty"`
}

// LogConfig controls the structured logger. An empty File discards logs.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		Todo: TodoConfig{
			Priorities:      append([]string{}, DefaultPriorities...),
			Categories:      append([]string{}, DefaultCategories...),
			DefaultPriority: DefaultPriority,
		},
		Calc: CalcConfig{ErrorMarker: DefaultErrorMarker},
		Weather: WeatherConfig{
			Endpoint:    DefaultWeatherEndpoint,
			IconURL:     DefaultWeatherIconURL,
			Units:       DefaultWeatherUnits,
			DefaultCity: DefaultCity,
			APIKeyEnv:   DefaultAPIKeyEnv,
		},
		TUI: TUIConfig{Accent: DefaultAccent},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if len(c.Todo.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority is required", ErrInvalid)
	}
	if hasDuplicates(c.Todo.Priorities) {
		return fmt.Errorf("%w: priorities contain duplicates", ErrInvalid)
	}
	if hasDuplicates(c.Todo.Categories) {
		return fmt.Errorf("%w: categories contain duplicates", ErrInvalid)
	}
	if !contains(c.Todo.Priorities, c.Todo.DefaultPriority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Todo.DefaultPriority)
	}
	if c.Calc.ErrorMarker == "" {
		return fmt.Errorf("%w: calc.error_marker is required", ErrInvalid)
	}
	if err := c.validateWeather(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validateWeather() error {
	if c.Weather.Endpoint == "" {
		return fmt.Errorf("%w: weather.endpoint is required", ErrInvalid)
	}
	if !strings.Contains(c.Weather.IconURL, "%s") {
		return fmt.Errorf("%w: weather.icon_url must contain %%s", ErrInvalid)
	}
	if c.Weather.APIKeyEnv == "" {
		return fmt.Errorf("%w: weather.api_key_env is required", ErrInvalid)
	}
	return nil
}

// PriorityIndex returns the rank of a priority (0 = lowest), or -1.
func (c *Config) PriorityIndex(priority string) int {
	return IndexOf(c.Todo.Priorities, priority)
}

// CategoryIndex returns the index of a category in the configured order, or -1.
func (c *Config) CategoryIndex(category string) int {
	return IndexOf(c.Todo.Categories, category)
}

// APIKey reads the weather API key from the configured environment variable.
// It is read at call time so rotated keys take effect without a restart.
func (c *Config) APIKey() string {
	return os.Getenv(c.Weather.APIKeyEnv)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	lvl, err := ParseLogLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLogLevel maps a level name to a slog.Level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Init creates the config directory and writes a default config file.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file. The write holds the config
// lock and replaces the file atomically, so a watching TUI never reads a
// partial file.
func (c *Config) Save() error {
	return filelock.With(c.ConfigPath(), c.write)
}

func (c *Config) write() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	tmp := c.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return err
	}
	return os.Rename(tmp, c.ConfigPath())
}

// Update loads the config in dir, applies fn and saves the result, all under
// the config lock so concurrent editors do not lose writes.
func Update(dir string, fn func(*Config) error) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	var cfg *Config
	err = filelock.With(filepath.Join(absDir, ConfigFileName), func() error {
		var err error
		if cfg, _, err = read(absDir); err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return cfg.write()
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads, migrates and validates the config in the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, migrated, err := read(absDir)
	if err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if migrated {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}
	return cfg, nil
}

// read parses, migrates and validates the config file without locking.
func read(absDir string) (*Config, bool, error) {
	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, cfg.Version != oldVersion, nil
}

// DefaultDir returns $POCKETDESK_DIR, or ~/.config/pocketdesk.
func DefaultDir() (string, error) {
	if d := os.Getenv(DirEnv); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultDirName), nil
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
