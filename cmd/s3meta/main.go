package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/s3meta/s3meta/internal/analyzer"
	corecfg "github.com/s3meta/s3meta/internal/core/config"
	"github.com/s3meta/s3meta/internal/core/storage/postgres"
	"github.com/s3meta/s3meta/internal/migrations"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "s3meta",
		Short: "Index object-storage metadata and roll it up into summary tables",
		Long: `s3meta lists a bucket into a raw metadata table and incrementally
aggregates it into per-dimension summary tables.

Commands:
  serve     HTTP API plus the periodic analyzer
  load      list a bucket into the raw table
  analyze   run one analyzer pass
  clean     drop the analyzer watermark and summary tables
  report    print every summary table`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "s3meta.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newCleanCommand())
	rootCmd.AddCommand(newReportCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command shares: the config and both adapters over one pool.
type app struct {
	cfg     *corecfg.Config
	objects *postgres.Adapter
	summary *postgres.SummaryAdapter
}

// openApp loads config, connects to Postgres and applies migrations.
func openApp() (*app, error) {
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slog.Info("Loaded config",
		"config", configPath,
		"table", cfg.Analyzer.TableName,
		"categories", cfg.Categories.Source,
		"strict_categories", cfg.Analyzer.StrictCategories,
	)

	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		dbAdapter.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}

	if err := dbAdapter.Prepare(cfg.Analyzer.TableName); err != nil {
		dbAdapter.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		objects: dbAdapter,
		summary: postgres.NewSummaryAdapter(dbAdapter.DB()),
	}, nil
}

func (a *app) Close() {
	if err := a.objects.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func (a *app) newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(a.objects, a.summary, analyzer.Options{
		Table:       a.cfg.Analyzer.TableName,
		BatchSize:   a.cfg.Analyzer.BatchSize,
		WorkerCount: a.cfg.Analyzer.WorkerCount,
		Categories:  a.cfg.Categories.Matchers,
		Lenient:     !a.cfg.Analyzer.StrictCategories,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("Signal received, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(quit)
	}()
	return ctx, cancel
}
