package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, "items", cfg.Storage.Key)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestValidateStorage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StorageConfig)
		wantErr string
	}{
		{"sqlite default", func(*StorageConfig) {}, ""},
		{"memory", func(s *StorageConfig) { s.Backend = BackendMemory }, ""},
		{"unknown backend", func(s *StorageConfig) { s.Backend = "redis" }, `got "redis"`},
		{"empty key", func(s *StorageConfig) { s.Key = "" }, "storage.key"},
		{"negative ttl", func(s *StorageConfig) { s.CacheTTL = -time.Second }, "cache_ttl"},
		{"sqlite without path", func(s *StorageConfig) { s.SQLite.Path = "" }, "storage.sqlite.path"},
		{"postgres without dsn", func(s *StorageConfig) { s.Backend = BackendPostgres }, "storage.postgres.dsn"},
		{"postgres with dsn", func(s *StorageConfig) {
			s.Backend = BackendPostgres
			s.Postgres.DSN = "postgres://localhost/kcal"
		}, ""},
		{"s3 without bucket", func(s *StorageConfig) { s.Backend = BackendS3 }, "storage.s3.bucket"},
		{"s3 with bucket", func(s *StorageConfig) {
			s.Backend = BackendS3
			s.S3.Bucket = "kcal"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults().Storage
			tt.mutate(&s)
			err := ValidateStorage(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NegativeGoal(t *testing.T) {
	cfg := Defaults()
	cfg.UI.DailyGoal = -1
	require.ErrorContains(t, Validate(cfg), "ui.daily_goal")
}

func TestValidateTheme(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{}))
	require.NoError(t, ValidateTheme(ThemeConfig{Highlight: "#54A0FF", Subtle: "#abc"}))
	require.ErrorContains(t, ValidateTheme(ThemeConfig{Error: "red"}), "theme.error")
	require.ErrorContains(t, ValidateTheme(ThemeConfig{Success: "#GGGGGG"}), "theme.success")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(Defaults().Tracing))

	bad := Defaults().Tracing
	bad.SampleRate = 1.5
	require.ErrorContains(t, ValidateTracing(bad), "sample_rate")

	bad = Defaults().Tracing
	bad.Exporter = "jaeger"
	require.ErrorContains(t, ValidateTracing(bad), "tracing.exporter")

	bad = TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1}
	require.ErrorContains(t, ValidateTracing(bad), "file_path")

	bad = TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1}
	require.ErrorContains(t, ValidateTracing(bad), "otlp_endpoint")

	// Path requirements only apply when enabled.
	require.NoError(t, ValidateTracing(TracingConfig{Exporter: "file"}))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kcal", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

// TestDefaultConfigTemplate_Parses loads the template through viper on top of
// the defaults and checks the result is still valid.
func TestDefaultConfigTemplate_Parses(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	d := Defaults()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.sqlite.path", d.Storage.SQLite.Path)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)

	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, "items", cfg.Storage.Key)
	require.Equal(t, d.Storage.SQLite.Path, cfg.Storage.SQLite.Path)
	require.Equal(t, 0, cfg.UI.DailyGoal)
	require.NoError(t, Validate(cfg))
}

func TestStorageConfig_CacheTTLDecodesDuration(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("storage:\n  cache_ttl: 90s\n")))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, 90*time.Second, cfg.Storage.CacheTTL)
}
