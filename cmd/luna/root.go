package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"luna/internal/config"
	"luna/internal/engine"
	"luna/internal/logging"
	"luna/internal/ui"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "luna",
	Short: "Gentle reminders, sleep alerts and notification sounds",
	Long: `luna keeps one-off reminders and daily bedtime and wake-up alerts,
and delivers them with a synthesized tone, a vibration cue and a desktop
notification, honouring quiet hours.

Run without arguments to open the dashboard. Data lives in ~/.luna/ and the
optional config file in $XDG_CONFIG_HOME/luna/config.yaml.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd == cmd.Root())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/luna/config.yaml)")
}

// setup loads configuration and builds the logger. The dashboard owns the
// terminal, so its log goes to a file in the data directory.
func setup(dashboard bool) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := logging.Options{Verbose: verbose}
	if dashboard && cfg.Log.File == "" {
		dir := cfg.GetDataDir()
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		opts.File = filepath.Join(dir, "luna.log")
	}
	logger, err = logging.New(cfg.Log, opts)
	return err
}

// openEngine wires every component from the loaded config.
func openEngine() (*engine.Engine, error) {
	return engine.New(cfg, logger, engine.Deps{})
}

// closeEngine closes e, folding its error into err.
func closeEngine(e *engine.Engine, err *error) {
	if cerr := e.Close(); cerr != nil {
		*err = errors.Join(*err, cerr)
	}
}

// runDashboard runs the schedulers in the background and the dashboard in
// the foreground until the user quits.
func runDashboard(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	uiErr := ui.Run(e, ui.NewStyles(cfg), &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
	})
	cancel()
	return errors.Join(uiErr, <-done)
}
