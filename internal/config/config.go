package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/security"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths         PathsConfig         `mapstructure:"paths"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Settings      core.Settings       `mapstructure:"settings"`
	Install       InstallConfig       `mapstructure:"install"`
	Check         CheckConfig         `mapstructure:"check"`
	Notifications NotificationsConfig `mapstructure:"notifications"`

	// File is the configuration file settings are persisted to
	File string `mapstructure:"-"`

	v *viper.Viper
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir"`
	DBFile  string `mapstructure:"db_file"`
	LogFile string `mapstructure:"log_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// InstallConfig controls how the interactive install session is launched
type InstallConfig struct {
	Terminal         string   `mapstructure:"terminal"`
	TerminalArgs     []string `mapstructure:"terminal_args"`
	ElevateWith      string   `mapstructure:"elevate_with"`
	CountdownSeconds int      `mapstructure:"countdown_seconds"`
}

// CheckConfig bounds the update check
type CheckConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	FirstCheckDelay time.Duration `mapstructure:"first_check_delay"`
}

// NotificationsConfig selects notification sinks
type NotificationsConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

// DefaultConfigFile returns ~/.config/sysupd/config.toml
func DefaultConfigFile() string {
	return filepath.Join(configHome(), "sysupd", "config.toml")
}

// Load loads configuration from file and environment. An explicit path
// must exist; otherwise the default locations are searched and a missing
// file means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(configHome(), "sysupd"))
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variable overrides
	v.SetEnvPrefix("SYSUPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()
	if cfg.File == "" {
		cfg.File = DefaultConfigFile()
	}
	cfg.v = v

	// Expand paths
	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Settings = cfg.Settings.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects install settings that could not be passed safely to the
// terminal or the apt shell line
func (c *Config) Validate() error {
	if c.Install.Terminal != "" {
		if err := security.ValidateCommandName(c.Install.Terminal); err != nil {
			return fmt.Errorf("install.terminal: %w", err)
		}
	}
	for _, arg := range c.Install.TerminalArgs {
		if err := security.ValidateCommandArg(arg); err != nil {
			return fmt.Errorf("install.terminal_args: %w", err)
		}
	}
	if c.Install.ElevateWith != "" {
		if err := security.ValidateCommandName(c.Install.ElevateWith); err != nil {
			return fmt.Errorf("install.elevate_with: %w", err)
		}
	}
	if c.Install.CountdownSeconds < 0 {
		c.Install.CountdownSeconds = 0
	}
	if c.Check.Timeout < 0 {
		return fmt.Errorf("check.timeout: must not be negative")
	}
	return nil
}

// Store returns the settings store backed by this configuration's file
func (c *Config) Store() *ViperStore {
	file := c.File
	if file == "" {
		file = DefaultConfigFile()
	}
	return NewViperStore(c.v, file)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir := homeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "sysupd")

	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.db_file", filepath.Join(dataDir, "history.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "sysupd.log"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")

	defaults := core.DefaultSettings()
	v.SetDefault(keyAutoCheckEnabled, defaults.AutoCheckEnabled)
	v.SetDefault(keyAutoCheckInterval, defaults.AutoCheckIntervalMinutes)
	v.SetDefault(keyShowUpdates, defaults.NotifyOnUpdates)
	v.SetDefault(keyShowNoUpdates, defaults.NotifyOnNoUpdates)

	v.SetDefault("install.terminal", "konsole")
	v.SetDefault("install.terminal_args", []string{"-e"})
	v.SetDefault("install.elevate_with", "sudo")
	v.SetDefault("install.countdown_seconds", 5)

	v.SetDefault("check.timeout", 10*time.Minute)
	v.SetDefault("check.first_check_delay", time.Second)

	v.SetDefault("notifications.desktop", true)
}

func homeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return homeDir
}

func configHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".config")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}
