package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds every knob the server needs. The store paths are explicit
// configuration; nothing is derived from the working directory at call time.
type Config struct {
	// Database
	DBPath string `toml:"db_path"`

	// Categories resource
	CategoriesPath string `toml:"categories_path"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// Load builds the configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		DBPath:         getEnv("SPEND_DB_PATH", "./data/expenses.db"),
		CategoriesPath: getEnv("SPEND_CATEGORIES_PATH", "./data/categories.json"),
		LogLevel:       getEnv("SPEND_LOG_LEVEL", "info"),
	}
}

// LoadFile overlays values from a TOML file onto the config. A missing
// file is not an error; explicit env values win over file values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if os.Getenv("SPEND_DB_PATH") == "" && file.DBPath != "" {
		c.DBPath = file.DBPath
	}
	if os.Getenv("SPEND_CATEGORIES_PATH") == "" && file.CategoriesPath != "" {
		c.CategoriesPath = file.CategoriesPath
	}
	if os.Getenv("SPEND_LOG_LEVEL") == "" && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}

	return nil
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	if c.CategoriesPath == "" {
		errors = append(errors, "categories path cannot be empty")
	}

	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
