package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/s3meta/s3meta/internal/analyzer"
	"github.com/s3meta/s3meta/internal/ingestion"
	"github.com/s3meta/s3meta/internal/migrations"
	"github.com/s3meta/s3meta/internal/projection"
	"github.com/s3meta/s3meta/internal/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the analyzer on its interval",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			ingestionSvc := ingestion.NewService(a.objects, a.cfg.Server.MaxBodySizeMB)
			projectionSvc := projection.NewService(a.summary)

			srv := server.New(fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port), a.objects.DB(), a.cfg.Server.Mode)
			ingestionSvc.RegisterRoutes(srv.Engine)
			projectionSvc.RegisterRoutes(srv.Engine)

			schedulerDone := make(chan struct{})
			if a.cfg.Analyzer.Enabled {
				scheduler := analyzer.NewScheduler(a.cfg.Analyzer.IntervalDuration(), a.newAnalyzer())
				slog.Info("Analyzer scheduler initialized",
					"interval", a.cfg.Analyzer.IntervalDuration(),
					"table", a.cfg.Analyzer.TableName,
					"batch_size", a.cfg.Analyzer.BatchSize,
					"worker_count", a.cfg.Analyzer.WorkerCount,
				)
				go func() {
					defer close(schedulerDone)
					if err := scheduler.Start(ctx); err != nil {
						slog.Error("Scheduler stopped with error", "error", err)
					}
				}()
			} else {
				slog.Info("Analyzer scheduler disabled by config")
				close(schedulerDone)
			}

			// HTTP server blocks until ctx is cancelled.
			err = srv.Run(ctx)
			cancel()
			<-schedulerDone

			slog.Info("Shutdown complete")
			return err
		},
	}
}

func newLoadCommand() *cobra.Command {
	var bucket, prefix string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "List a bucket into the raw metadata table",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			opts := ingestion.LoaderOptions{
				Bucket:         a.cfg.Loader.Bucket,
				Prefix:         a.cfg.Loader.Prefix,
				PageSize:       a.cfg.Loader.PageSize,
				PagesPerSecond: a.cfg.Loader.PagesPerSecond,
			}
			if bucket != "" {
				opts.Bucket = bucket
			}
			if prefix != "" {
				opts.Prefix = prefix
			}

			client, err := ingestion.NewS3Client(ctx, a.cfg.Loader.Region)
			if err != nil {
				return err
			}
			loader, err := ingestion.NewLoader(client, a.objects, a.objects, opts)
			if err != nil {
				return err
			}

			stats, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "listed %s objects in %d pages, %s new, %d skipped\n",
				humanize.Comma(int64(stats.Listed)), stats.Pages, humanize.Comma(int64(stats.Inserted)), stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket to list (overrides loader.bucket)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix (overrides loader.prefix)")
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run one analyzer pass over the raw table",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			stats, err := a.newAnalyzer().Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "analyzed %s rows in %d batches (%s), offset %d -> %d\n",
				humanize.Comma(stats.Rows), stats.Batches, stats.Duration, stats.Start.Offset, stats.End.Offset)
			return nil
		},
	}
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Drop the analyzer watermark and summary tables, keeping raw data",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return migrations.Clean(a.objects.DB())
		},
	}
}

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every summary table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			svc := projection.NewService(a.summary)
			status, err := svc.QueryStatus(ctx, a.cfg.Analyzer.TableName)
			if err != nil {
				return err
			}
			summaries, err := svc.QueryAll(ctx)
			if err != nil {
				return err
			}
			return projection.RenderReport(os.Stdout, status, summaries)
		},
	}
}
