package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/cleaner"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/config"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/inventory"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// loadRuntime loads configuration and starts logging. The monitor keeps
// the terminal clean, so it logs to file and the in-memory buffer only.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		printError("%v", err)
		return err
	}
	cfg = loaded

	tuiMode := cmd == rootCmd || cmd == monitorCmd
	if err := initLogging(cfg, tuiMode); err != nil {
		// Logging is best effort; commands still run without a log file.
		printError("logging disabled: %v", err)
	}
	if cfg.File != "" {
		printVerbose("config file: %s", cfg.File)
	}
	return nil
}

// initLogging configures the logging system from the loaded config.
func initLogging(c *config.Config, tuiMode bool) error {
	lc := logging.Config{
		Level:      c.Logging.Level,
		Path:       c.Logging.Path,
		Rotation:   parseRotationConfig(c.Logging.Rotation),
		Components: c.Logging.Components,
		TUIMode:    tuiMode,
	}
	if getVerbose() && !tuiMode {
		lc.ConsoleLevel = "debug"
	}
	return logging.Init(lc)
}

// parseRotationConfig converts the config file's rotation settings,
// falling back to the default size when max_size is empty or invalid.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Compress:   rc.Compress,
	}
	if rc.MaxSize != "" {
		if size, err := types.ParseSize(rc.MaxSize); err == nil && size > 0 {
			out.MaxSize = size
		}
	}
	return out
}

// newToolset returns the native platform tools with the configured
// command timeout.
func newToolset(c *config.Config) platform.Toolset {
	return platform.Native(platform.ExecRunner{Timeout: c.CommandTimeout})
}

// newScanner builds an inventory scanner. An empty pattern matches every
// program.
func newScanner(tools platform.Toolset, pattern string) *inventory.Scanner {
	var opts []inventory.Option
	if pattern != "" {
		opts = append(opts, inventory.WithNameFilter(pattern))
	}
	return inventory.New(tools.Catalog, tools.Runner, tools.Commands.Shell, opts...)
}

// newExecutor builds the cleanup and optimization executor.
func newExecutor(c *config.Config, tools platform.Toolset) (*cleaner.Executor, error) {
	e, err := cleaner.New(cleanerConfig(c), tools)
	if err != nil {
		return nil, fmt.Errorf("invalid clean.keep pattern: %w", err)
	}
	return e, nil
}

func cleanerConfig(c *config.Config) cleaner.Config {
	return cleaner.Config{
		TempFolders:  c.Clean.TempFolders,
		Services:     c.Optimize.Services,
		Keep:         c.Clean.Keep,
		ClearAutorun: c.Optimize.ClearAutorun,
	}
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
