package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/kcal/internal/app"
	"github.com/zjrosen/kcal/internal/config"
	"github.com/zjrosen/kcal/internal/flags"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config and is where a default
// config is written when none exists.
const localConfigPath = ".kcal/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kcal",
	Short: "A terminal calorie tracker",
	Long: `A terminal user interface for logging what you eat and keeping a running
calorie total. Items are saved after every change.

Run without a subcommand to open the interactive tracker.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/kcal/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also KCAL_DEBUG)")
	rootCmd.PersistentFlags().String("storage", "",
		"storage backend: sqlite, memory, postgres, or s3")
	rootCmd.PersistentFlags().String("db", "",
		"sqlite database path")

	// Bind flags to viper
	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("storage"))
	_ = viper.BindPFlag("storage.sqlite.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.key", defaults.Storage.Key)
	viper.SetDefault("storage.cache_ttl", defaults.Storage.CacheTTL)
	viper.SetDefault("storage.sqlite.path", defaults.Storage.SQLite.Path)
	viper.SetDefault("storage.s3.region", defaults.Storage.S3.Region)
	viper.SetDefault("ui.daily_goal", defaults.UI.DailyGoal)
	viper.SetDefault("ui.show_ids", defaults.UI.ShowIDs)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("log.level", defaults.Log.Level)

	viper.SetEnvPrefix("KCAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .kcal/config.yaml (current directory)
		// 2. ~/.config/kcal/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			if dir := config.DefaultConfigDir(); dir != "" {
				viper.AddConfigPath(dir)
			}
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .kcal/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath is where `kcal goal` writes.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

func debugEnabled() bool {
	return debugFlag || os.Getenv("KCAL_DEBUG") != ""
}

// initLogging installs the debug log when --debug or KCAL_DEBUG is set. The
// path is KCAL_LOG, then log.file, then debug.log beside the config file.
func initLogging() (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}

	logPath := os.Getenv("KCAL_LOG")
	if logPath == "" {
		logPath = cfg.Log.File
	}
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(configFilePath()), "debug.log")
	}

	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	log.Info(log.CatConfig, "kcal starting", "version", version, "logPath", logPath)
	return cleanup, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	zone.NewGlobal()
	defer zone.Close()
	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)

	features := flags.New(cfg.Flags)
	model := app.New(ctx, registry.New(), sess.store, app.Options{
		DailyGoal:    cfg.UI.DailyGoal,
		ShowIDs:      cfg.UI.ShowIDs,
		DebugMode:    debugEnabled(),
		HideProgress: !features.Enabled(flags.FlagProgressBar),
	}, sess.coordinatorOptions()...)

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}
	if features.Enabled(flags.FlagMouse) {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, programOpts...)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
