// Package config provides configuration types, defaults and validation for kcal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/kcal/internal/log"
)

// Storage backend names.
const (
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// DefaultSnapshotKey is the key the item snapshot is stored under.
const DefaultSnapshotKey = "items"

// Config holds all configuration options for kcal.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`

	// Flags toggles optional behavior; see package flags for names.
	Flags map[string]bool `mapstructure:"flags"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	// Backend is one of "sqlite" (default), "memory", "postgres" or "s3".
	Backend string `mapstructure:"backend"`

	// Key is the snapshot key. Default: "items".
	Key string `mapstructure:"key"`

	// CacheTTL wraps the backend in a read-through cache when positive.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	S3       S3Config       `mapstructure:"s3"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	// Path is the database file. Default: ~/.config/kcal/kcal.db
	Path string `mapstructure:"path"`
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// S3Config configures the s3 backend. Credentials come from the standard
// AWS environment and shared config files.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`   // optional, for MinIO
	PathStyle bool   `mapstructure:"path_style"` // required by most MinIO setups
	Prefix    string `mapstructure:"prefix"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// DailyGoal shows progress against a calorie target. 0 disables it.
	DailyGoal int  `mapstructure:"daily_goal"`
	ShowIDs   bool `mapstructure:"show_ids"`
}

// ThemeConfig overrides the TUI palette. Values are hex colors; empty keeps
// the built-in color.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/kcal/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LogConfig tunes the debug log. Logging itself is switched on by --debug.
type LogConfig struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string `mapstructure:"level"`
	// File is the log path. Default: debug.log next to the config file.
	File string `mapstructure:"file"`
}

// DefaultConfigDir returns ~/.config/kcal, or "" when the home directory is
// unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kcal")
}

// DefaultDBPath returns the default sqlite database path.
func DefaultDBPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return "kcal.db"
	}
	return filepath.Join(dir, "kcal.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     DefaultSnapshotKey,
			SQLite: SQLiteConfig{
				Path: DefaultDBPath(),
			},
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		UI: UIConfig{
			DailyGoal: 0,
			ShowIDs:   false,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Level: "debug",
		},
	}
}

// Validate checks the whole config.
func Validate(cfg Config) error {
	if err := ValidateStorage(cfg.Storage); err != nil {
		return err
	}
	if cfg.UI.DailyGoal < 0 {
		return fmt.Errorf("ui.daily_goal must not be negative, got %d", cfg.UI.DailyGoal)
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateStorage checks backend-specific requirements.
func ValidateStorage(s StorageConfig) error {
	if s.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("storage.cache_ttl must not be negative, got %s", s.CacheTTL)
	}
	switch s.Backend {
	case BackendSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required when backend is %q", BackendSQLite)
		}
	case BackendMemory:
	case BackendPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required when backend is %q", BackendPostgres)
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when backend is %q", BackendS3)
		}
	default:
		return fmt.Errorf("storage.backend must be \"sqlite\", \"memory\", \"postgres\", or \"s3\", got %q", s.Backend)
	}
	return nil
}

// ValidateTheme checks that every set color is a #RGB or #RRGGBB hex value.
func ValidateTheme(t ThemeConfig) error {
	colors := []struct {
		key, value string
	}{
		{"theme.highlight", t.Highlight},
		{"theme.subtle", t.Subtle},
		{"theme.error", t.Error},
		{"theme.success", t.Success},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		if !isHexColor(c.value) {
			return fmt.Errorf("%s must be a hex color like \"#FF8787\", got %q", c.key, c.value)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# kcal configuration

# Where the item list is stored
storage:
  backend: sqlite   # sqlite (default), memory, postgres, or s3
  key: items        # snapshot key inside the backend
  # cache_ttl: 5m   # wrap the backend in a read-through cache

  # sqlite:
  #   path: ~/.config/kcal/kcal.db

  # postgres:
  #   dsn: postgres://localhost/kcal?sslmode=disable

  # s3:
  #   bucket: my-kcal-bucket
  #   region: us-east-1
  #   endpoint: http://localhost:9000   # MinIO
  #   path_style: true
  #   prefix: kcal/

# UI settings
ui:
  daily_goal: 0     # calorie target shown next to the total; 0 hides it
  show_ids: false   # show item ids in the list

# Theme colors (hex)
# theme:
#   highlight: "#54A0FF"
#   subtle: "#696969"
#   error: "#FF8787"
#   success: "#73F59F"

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/kcal/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
# flags:
#   mouse: true          # click a row to edit it; off restores text selection
#   progress-bar: true   # bar next to the total when daily_goal is set

# Debug log (written only with --debug)
# log:
#   level: debug
#   file: ~/.config/kcal/debug.log
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
