package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/config"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage ssdclean configuration settings.

Configuration is loaded from:
  1. --config <file> (must exist)
  2. $XDG_CONFIG_HOME/ssdclean/config.yaml (if set)
  3. ~/.config/ssdclean/config.yaml

Environment variables override config file settings using the SSDCLEAN_
prefix, with dots replaced by underscores:
  SSDCLEAN_INACTIVE_DAYS=90
  SSDCLEAN_LOGGING_LEVEL=debug
  SSDCLEAN_MONITOR_INTERVAL=2s`,
	PersistentPreRunE: skipRuntime,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after files, environment and defaults.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi' ('notepad' on Windows)

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the effective configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		printError("Failed to load configuration: %v", err)
		return err
	}

	if c.File != "" {
		fmt.Printf("Config file: %s\n\n", c.File)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	logPath := c.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("inactive_days:            %d\n", c.InactiveDays)
	fmt.Printf("command_timeout:          %s\n", orNone(c.CommandTimeout.String(), c.CommandTimeout == 0))
	fmt.Printf("clean.temp_folders:       %s\n", strings.Join(c.Clean.TempFolders, ", "))
	fmt.Printf("clean.keep:               %v\n", c.Clean.Keep)
	fmt.Printf("optimize.services:        %s\n", strings.Join(c.Optimize.Services, ", "))
	fmt.Printf("optimize.clear_autorun:   %t\n", c.Optimize.ClearAutorun)
	fmt.Printf("monitor.interval:         %s\n", c.Monitor.Interval)
	fmt.Printf("monitor.history:          %d\n", c.Monitor.History)
	fmt.Printf("monitor.disk:             %s\n", orNone(c.Monitor.Disk, c.Monitor.Disk == ""))
	fmt.Printf("logging.level:            %s\n", c.Logging.Level)
	fmt.Printf("logging.path:             %s\n", logPath)
	fmt.Printf("logging.rotation:         max_size=%s max_age=%d max_backups=%d compress=%t\n",
		c.Logging.Rotation.MaxSize, c.Logging.Rotation.MaxAge, c.Logging.Rotation.MaxBackups, c.Logging.Rotation.Compress)

	components := make([]string, 0, len(c.Logging.Components))
	for name, level := range c.Logging.Components {
		components = append(components, name+"="+level)
	}
	sort.Strings(components)
	fmt.Printf("logging.components:       %s\n", strings.Join(components, " "))

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	var overrides []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			overrides = append(overrides, kv)
		}
	}
	sort.Strings(overrides)
	if len(overrides) == 0 {
		fmt.Println("(none)")
	}
	for _, kv := range overrides {
		fmt.Println(kv)
	}

	return nil
}

// orNone renders "(none)" for unset values.
func orNone(s string, unset bool) string {
	if unset {
		return "(none)"
	}
	return s
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, _, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = defaultEditor()
	}

	printVerbose("Opening %s with %s", path, editor)

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	path, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !created {
		printInfo("Config file already exists: %s", path)
		printInfo("Use 'ssdclean config edit' to modify it.")
		return nil
	}

	printInfo("Created default config file: %s", path)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return err
		}
	}

	fmt.Println(path)

	if _, err := os.Stat(path); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
