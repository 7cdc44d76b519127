// Package cli provides common initialization for the spend binary.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"spend/internal/config"
	"spend/internal/storage"
)

// SetupLogger initializes structured logging on stderr and sets it as the
// default logger. Stdout is reserved for the tool protocol.
func SetupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads configuration from env and overlays the optional
// config file. Validation is the caller's job, after any flag overrides.
func LoadConfig(configFile string) (*config.Config, error) {
	cfg := config.Load()
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *slog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
