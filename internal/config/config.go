package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	DataDir   string         `mapstructure:"data_dir" validate:"required"`
	BackupDir string         `mapstructure:"backup_dir"`
	Database  DatabaseConfig `mapstructure:"database"`
	Watch     WatchConfig    `mapstructure:"watch"`
}

// DatabaseConfig holds the optional remote mirror connection settings.
// The mirror is enabled when a host is configured.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Schema   string `mapstructure:"schema"`
	SSLMode  string `mapstructure:"sslmode"`
}

// WatchConfig holds settings for the watch command
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

// MirrorEnabled reports whether a remote mirror is configured
func (c *Config) MirrorEnabled() bool {
	return c.Database.Host != ""
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, sslMode,
	)
	if d.Schema != "" {
		connStr += "&search_path=" + d.Schema + ",public"
	}
	return connStr
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DataDir: getConfigDir(),
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "require",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.sslmode", defaults.Database.SSLMode)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("FRETLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env cover the local-only case
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Database.Password = os.ExpandEnv(cfg.Database.Password)
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.BackupDir == "" {
		cfg.BackupDir = cfg.DataDir
	}
	cfg.BackupDir = expandPath(cfg.BackupDir)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.MirrorEnabled() {
		if cfg.Database.User == "" || cfg.Database.Database == "" {
			return nil, fmt.Errorf("database host is set but user or database name is missing")
		}
	}

	return cfg, nil
}

// getConfigDir returns the appropriate config directory for the OS
func getConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "fretlog")
		}
		return filepath.Join(os.Getenv("USERPROFILE"), ".config", "fretlog")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "fretlog")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fretlog")
	}
}

// GetConfigDir returns the default config directory without creating it
func GetConfigDir() string {
	return getConfigDir()
}

// EnsureDataDir creates the data directory if needed and returns it
func (c *Config) EnsureDataDir() (string, error) {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return c.DataDir, nil
}

// expandPath expands ~ and environment variables in a path
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path)
}
