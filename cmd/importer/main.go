package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/app"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/config"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "importer:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "importer",
		Short:         "Load fixture files into the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCommand(), newValidateCommand())
	return root
}

func newImportCommand() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "import <file> [file...]",
		Short: "Ingest CSV or XLSX files into the configured store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			services, err := app.NewServices(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			return runImport(cmd, services.Ingestion, args, workers, logger)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 2, "files ingested concurrently")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file> [file...]",
		Short: "Run files through the pipeline against a throwaway in-memory store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg.StorageDriver = config.StorageMemory
			cfg.SeedDemoData = false
			cfg.CacheEnabled = false
			repo, closeRepo, err := app.NewFixtureRepository(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeRepo() }()

			return runImport(cmd, app.NewIngestionService(cfg, repo, logger), args, 1, logger)
		},
	}
}

func runImport(cmd *cobra.Command, svc ingester, paths []string, workers int, logger *logging.Logger) error {
	report, err := importFiles(cmd.Context(), svc, paths, workers)
	if err != nil {
		return err
	}
	if err := writeSummaries(cmd.OutOrStdout(), report.Files); err != nil {
		return err
	}

	logger.Info("import finished", "files", len(report.Files), "failed", report.FailedCount)
	if report.FailedCount > 0 {
		return fmt.Errorf("%d of %d files failed", report.FailedCount, len(report.Files))
	}
	return nil
}

// loadConfig keeps stdout for summaries; logs go to stderr.
func loadConfig() (config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", "rugby-fixtures-importer")
	logging.SetDefault(logger)
	return cfg, logger, nil
}
