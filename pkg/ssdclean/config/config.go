package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// CleanConfig configures temp-file cleanup.
type CleanConfig struct {
	TempFolders []string `mapstructure:"temp_folders"`
	// Keep holds glob patterns of file names that are never deleted.
	Keep []string `mapstructure:"keep"`
}

// OptimizeConfig configures optimization runs.
type OptimizeConfig struct {
	Services     []string `mapstructure:"services"`
	ClearAutorun bool     `mapstructure:"clear_autorun"`
}

// MonitorConfig configures the live utilization monitor.
type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	History  int           `mapstructure:"history"`
	// Disk is the mount whose usage is sampled. Empty means the system drive.
	Disk string `mapstructure:"disk"`
}

// Config represents the application configuration. It is read once at
// startup and treated as immutable afterwards.
type Config struct {
	InactiveDays int `mapstructure:"inactive_days"`
	// CommandTimeout bounds each external tool invocation. Zero lets
	// tools run to completion.
	CommandTimeout time.Duration  `mapstructure:"command_timeout"`
	Clean          CleanConfig    `mapstructure:"clean"`
	Optimize       OptimizeConfig `mapstructure:"optimize"`
	Monitor        MonitorConfig  `mapstructure:"monitor"`
	Logging        LoggingConfig  `mapstructure:"logging"`

	// File is the config file that was read, empty when running on
	// defaults.
	File string `mapstructure:"-"`
}

// EnvPrefix is the prefix for environment overrides, e.g.
// SSDCLEAN_INACTIVE_DAYS or SSDCLEAN_LOGGING_LEVEL.
const EnvPrefix = "SSDCLEAN"

// Load reads configuration from file and environment variables. An
// explicit path must exist; otherwise config.yaml is looked up in
// $XDG_CONFIG_HOME/ssdclean and $HOME/.config/ssdclean and a missing
// file means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "ssdclean"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "ssdclean"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("inactive_days", DefaultInactiveDays)
	v.SetDefault("command_timeout", time.Duration(0))

	v.SetDefault("clean.temp_folders", DefaultTempFolders())
	v.SetDefault("clean.keep", []string{})

	v.SetDefault("optimize.services", DefaultServices)
	v.SetDefault("optimize.clear_autorun", true)

	v.SetDefault("monitor.interval", DefaultSampleInterval)
	v.SetDefault("monitor.history", DefaultHistorySize)
	v.SetDefault("monitor.disk", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.compress", false)
	v.SetDefault("logging.components", map[string]string{
		"inventory": "info",
		"cleaner":   "info",
		"monitor":   "warn",
		"tui":       "info",
	})
}

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

func (c *Config) normalize() error {
	if c.InactiveDays < 0 {
		return fmt.Errorf("%w: inactive_days must not be negative, got %d", ErrInvalidConfig, c.InactiveDays)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("%w: command_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Monitor.History <= 0 {
		c.Monitor.History = DefaultHistorySize
	}
	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = DefaultSampleInterval
	}

	folders := make([]string, 0, len(c.Clean.TempFolders))
	for _, f := range c.Clean.TempFolders {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		expanded, err := ExpandPath(os.ExpandEnv(f))
		if err != nil {
			return err
		}
		folders = append(folders, expanded)
	}
	c.Clean.TempFolders = folders

	if c.Logging.Path != "" {
		expanded, err := ExpandPath(c.Logging.Path)
		if err != nil {
			return err
		}
		c.Logging.Path = expanded
	}
	return nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "ssdclean"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "ssdclean"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// StateDir returns $XDG_STATE_HOME/ssdclean/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "ssdclean")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "ssdclean.log")
}

// WriteDefault writes a commented default config file and returns its
// path. An existing file is left untouched and reported with created=false.
func WriteDefault() (path string, created bool, err error) {
	path, err = ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML()), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}
	return path, true, nil
}

func defaultConfigYAML() string {
	var folders strings.Builder
	for _, f := range DefaultTempFolders() {
		fmt.Fprintf(&folders, "    - %q\n", f)
	}
	var services strings.Builder
	for _, s := range DefaultServices {
		fmt.Fprintf(&services, "    - %s\n", s)
	}

	return fmt.Sprintf(`# ssdclean configuration

# Programs whose install directory has not been accessed for more than
# this many days are reported as inactive.
inactive_days: %d

# Upper bound for each external tool (defrag, sc, uninstallers).
# 0 lets tools run to completion.
command_timeout: 0s

clean:
  # Folders whose contents are deleted by "ssdclean clean".
  # Environment variables are expanded.
  temp_folders:
%s  # File name patterns that are never deleted, e.g. "*.lock".
  keep: []

optimize:
  # Services set to disabled and stopped.
  services:
%s  # Remove every entry from the current user's startup list.
  clear_autorun: true

monitor:
  interval: %s
  history: %d
  # Mount sampled for disk usage (empty means the system drive).
  disk: ""

logging:
  # Log level: debug, info, warn, error
  level: %s
  # Empty means $XDG_STATE_HOME/ssdclean/ssdclean.log
  path: ""
  rotation:
    max_size: %s
    max_age: 30       # days
    max_backups: 5
    compress: false
  components:
    inventory: info
    cleaner: info
    monitor: warn
    tui: info
`, DefaultInactiveDays, folders.String(), services.String(),
		DefaultSampleInterval, DefaultHistorySize, DefaultLogLevel, DefaultLogMaxSize)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}
