package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/swipe/internal/app"
	"github.com/zjrosen/swipe/internal/config"
	"github.com/zjrosen/swipe/internal/log"
	"github.com/zjrosen/swipe/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const defaultConfigPath = ".swipe/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "swipe",
	Short: "A terminal touchpad that recognizes swipe gestures",
	Long: `A terminal touchpad: drag on the pad with the mouse (or use the arrow keys)
and swipe classifies each touch as slide_left, slide_right, slide_up,
slide_down or single_touch.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return cfg.Validate()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .swipe/config.yaml or ~/.config/swipe/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (or set SWIPE_DEBUG)")
	rootCmd.PersistentFlags().Float64P("threshold", "t", 0,
		"slide threshold in pad units (overrides config)")

	// Bind flags to viper
	_ = viper.BindPFlag("threshold", rootCmd.PersistentFlags().Lookup("threshold"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .swipe/config.yaml (current directory)
		// 2. ~/.config/swipe/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "swipe"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .swipe/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setupLogging enables the file logger when --debug or SWIPE_DEBUG is set.
// SWIPE_LOG_LEVEL raises the minimum level.
// The returned cleanup is never nil.
func setupLogging(prefix string) (func(), error) {
	debug := os.Getenv("SWIPE_DEBUG") != "" || debugFlag || cfg.Debug
	if !debug {
		return func() {}, nil
	}

	logPath := os.Getenv("SWIPE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	if s := os.Getenv("SWIPE_LOG_LEVEL"); s != "" {
		level, err := log.ParseLevel(s)
		if err != nil {
			cleanup()
			return nil, err
		}
		log.SetMinLevel(level)
	}
	log.Info(log.CatConfig, "swipe starting", "debug", true, "logPath", logPath, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// setupTracing creates the trace provider. The returned shutdown flushes
// pending spans and logs failures.
func setupTracing() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	return provider, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	cleanupLog, err := setupLogging("swipe")
	if err != nil {
		return err
	}
	defer cleanupLog()

	provider, shutdown, err := setupTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	// Store the config file path for saving threshold changes
	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		// No config file was loaded, default to .swipe/config.yaml
		configFilePath = defaultConfigPath
	}

	zone.NewGlobal()

	model := app.NewWithConfig(cfg, configFilePath, provider.Tracer())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
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
