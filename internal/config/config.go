// Package config loads server configuration from command-line flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Server   ServerConfig
	Skins    SkinsConfig
	Metadata MetadataConfig
	Progress ProgressConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend  string // badger (default) or sqlite
	DataPath string // directory holding the database files
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// AdvertiseMDNS publishes the server on the local network.
	AdvertiseMDNS bool
}

// SkinsConfig locates the cosmetic catalog. Empty means the built-in catalog.
type SkinsConfig struct {
	CatalogPath string
}

// MetadataConfig configures the book lookup client.
type MetadataConfig struct {
	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	RequestsPerMinute  int
}

// ProgressConfig tunes the reward rules of the transition engine.
type ProgressConfig struct {
	// AwardXPOnRecomplete re-awards XP and the books-read count every time a
	// book reaches the shelf instead of only the first time.
	AwardXPOnRecomplete bool
}

// keys maps viper keys to their flag names. Env vars are the upper-cased keys.
var keys = map[string]string{
	"env":                      "env",
	"log_level":                "log-level",
	"store_backend":            "store-backend",
	"data_path":                "data-path",
	"server_port":              "port",
	"server_read_timeout":      "read-timeout",
	"server_write_timeout":     "write-timeout",
	"server_idle_timeout":      "idle-timeout",
	"cors_allowed_origins":     "cors-origins",
	"mdns_enabled":             "mdns",
	"skin_catalog_path":        "skin-catalog",
	"google_books_api_key":     "google-books-api-key",
	"google_books_base_url":    "google-books-url",
	"metadata_rate_per_minute": "metadata-rate",
	"award_xp_on_recomplete":   "award-xp-on-recomplete",
}

var defaults = map[string]any{
	"env":                      "development",
	"log_level":                "info",
	"store_backend":            BackendBadger,
	"data_path":                "",
	"server_port":              "8080",
	"server_read_timeout":      "15s",
	"server_write_timeout":     "15s",
	"server_idle_timeout":      "60s",
	"cors_allowed_origins":     "*",
	"mdns_enabled":             "false",
	"skin_catalog_path":        "",
	"google_books_api_key":     "",
	"google_books_base_url":    "https://www.googleapis.com/books/v1",
	"metadata_rate_per_minute": "60",
	"award_xp_on_recomplete":   "false",
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file (path from --env-file, default ".env").
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("nightstand", pflag.ContinueOnError)
	for key, name := range keys {
		fs.String(name, "", "overrides "+strings.ToUpper(key))
	}
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	v.AutomaticEnv()

	if err := readEnvFile(v, *envFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		App:    AppConfig{Environment: v.GetString("env")},
		Logger: LoggerConfig{Level: v.GetString("log_level")},
		Storage: StorageConfig{
			Backend:  strings.ToLower(v.GetString("store_backend")),
			DataPath: v.GetString("data_path"),
		},
		Server: ServerConfig{
			Port:           v.GetString("server_port"),
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
			AdvertiseMDNS:  v.GetBool("mdns_enabled"),
		},
		Skins: SkinsConfig{CatalogPath: v.GetString("skin_catalog_path")},
		Metadata: MetadataConfig{
			GoogleBooksAPIKey:  v.GetString("google_books_api_key"),
			GoogleBooksBaseURL: v.GetString("google_books_base_url"),
			RequestsPerMinute:  v.GetInt("metadata_rate_per_minute"),
		},
		Progress: ProgressConfig{AwardXPOnRecomplete: v.GetBool("award_xp_on_recomplete")},
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{"server_read_timeout", &cfg.Server.ReadTimeout},
		{"server_write_timeout", &cfg.Server.WriteTimeout},
		{"server_idle_timeout", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		raw := v.GetString(d.key)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(d.key), raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Skins.CatalogPath != "" {
		p, err := expandPath(cfg.Skins.CatalogPath, "")
		if err != nil {
			return nil, fmt.Errorf("invalid skin catalog path: %w", err)
		}
		cfg.Skins.CatalogPath = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.Backend != BackendBadger && c.Storage.Backend != BackendSQLite {
		return fmt.Errorf("invalid store backend: %s (must be badger or sqlite)", c.Storage.Backend)
	}
	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Metadata.RequestsPerMinute <= 0 {
		return fmt.Errorf("metadata rate must be positive, got %d", c.Metadata.RequestsPerMinute)
	}
	return nil
}

// DatabasePath returns the file or directory the selected backend opens.
func (c *Config) DatabasePath() string {
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(c.Storage.DataPath, "nightstand.db")
	}
	return filepath.Join(c.Storage.DataPath, "db")
}

// BackupDir is where backup archives are written.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Storage.DataPath, "backups")
}

func (c *Config) expandDataPath() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(home, "Nightstand", "data"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandPath expands ~ and makes path absolute; empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = abs
	}
	return filepath.Clean(path), nil
}

// readEnvFile merges a dotenv file into v. A missing file is not an error.
func readEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
