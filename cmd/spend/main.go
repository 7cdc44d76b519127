package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spend/internal/cli"
	"spend/internal/mcpserver"
	"spend/internal/service"
	"spend/internal/taxonomy"
)

var version = "dev"

var (
	flagConfigFile     string
	flagDBPath         string
	flagCategoriesPath string
)

var rootCmd = &cobra.Command{
	Use:   "spend",
	Short: "Personal expense tracker served over the MCP tool protocol",
	Long: "spend owns a single SQLite expenses table and a categories resource,\n" +
		"and exposes add/get/list/update/delete, aggregation and export as MCP\n" +
		"tool calls on stdin/stdout.",
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&flagCategoriesPath, "categories", "", "Path to the categories JSON file")
	rootCmd.Version = version
}

func runServe(cmd *cobra.Command, args []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig(flagConfigFile)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagCategoriesPath != "" {
		cfg.CategoriesPath = flagCategoriesPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(level)

	repo := cli.InitSQLite(logger, cfg.DBPath)
	expenses := service.NewExpenseService(repo)
	defer expenses.Close()

	categories := taxonomy.NewStore(cfg.CategoriesPath)

	srv := mcpserver.New(version, expenses, categories)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting spend server",
		"version", version,
		"db", cfg.DBPath,
		"categories", cfg.CategoriesPath)

	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
