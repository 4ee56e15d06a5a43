package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbouqdir/jobtrack/internal/cache"
	"github.com/kbouqdir/jobtrack/internal/config"
	"github.com/kbouqdir/jobtrack/internal/gmail"
	"github.com/kbouqdir/jobtrack/internal/google"
	"github.com/kbouqdir/jobtrack/internal/instrumentation"
	"github.com/kbouqdir/jobtrack/internal/logging"
	"github.com/kbouqdir/jobtrack/internal/report"
	"github.com/kbouqdir/jobtrack/internal/track"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		months     int
		outputDir  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze job applications from Gmail",
		Long: `Search Gmail for job-search correspondence over the lookback window,
drop bulk job-alert senders, classify each message into an application
status and write the CSV export, the console summary and the charts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if months > 0 {
				cfg.LookbackMonths = months
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if noCache {
				cfg.Cache.Enabled = false
			}
			return runAnalyze(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search standard locations)")
	cmd.Flags().IntVarP(&months, "months", "m", 0, "Lookback window in months (overrides config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local message store")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	start := time.Now()

	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "jobtrack",
		ServiceVersion:  version,
		Enabled:         cfg.Telemetry.Enabled,
		MetricsExporter: cfg.Telemetry.MetricsExporter,
		TracesExporter:  cfg.Telemetry.TracesExporter,
		OTLPEndpoint:    cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:    cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up instrumentation: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	creds := google.Credentials{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	keywords, err := cfg.KeywordGroups()
	if err != nil {
		return err
	}
	classifier, err := track.NewClassifier(keywords)
	if err != nil {
		return fmt.Errorf("invalid keyword configuration: %w", err)
	}
	filter := track.NewSenderFilter(cfg.Exclusions, logger)
	extractor := track.NewExtractor()

	since := gmail.Cutoff(start, cfg.LookbackMonths)

	var store gmail.MessageStore
	if cfg.Cache.Enabled {
		s, err := cache.Open(cfg.Cache.Path, logger)
		if err != nil {
			// The cache is an optimization; a broken store must not
			// block the run.
			logger.Warn("message store unavailable, fetching everything",
				logging.Path(cfg.Cache.Path), logging.Err(err))
		} else {
			defer s.Close()
			store = s

			// Entries older than the window will never be asked for
			// again.
			if n, err := s.Prune(ctx, since); err != nil {
				logger.Warn("message store prune failed", logging.Err(err))
			} else if n > 0 {
				logger.Debug("pruned message store", logging.Count(int(n)))
			}
		}
	}

	client, err := gmail.NewClient(ctx, creds, cfg.Queries, cfg.MaxResults, store, metrics, logger)
	if err != nil {
		if errors.Is(err, google.ErrNoToken) {
			return fmt.Errorf("not authenticated with Google; run 'jobtrack auth' first")
		}
		return err
	}

	logger.Info("analyzing applications",
		logging.Operation("analyze"),
		logging.Count(cfg.LookbackMonths))

	pipeline := track.NewPipeline(client, filter, classifier, extractor, logger, metrics, provider.Tracer("jobtrack"))
	records, result, err := pipeline.Run(ctx, since)
	if err != nil {
		return err
	}
	metrics.RunCompleted(ctx, time.Since(start))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", cfg.OutputDir, err)
	}

	csvPath := filepath.Join(cfg.OutputDir, report.CSVName(start))
	if err := report.WriteCSV(records, csvPath); err != nil {
		return err
	}
	logger.Info("wrote CSV export", logging.Path(csvPath), logging.Count(len(records)))

	if err := report.WriteCharts(result, cfg.OutputDir, cfg.TopCompanies); err != nil {
		return err
	}

	report.WriteSummary(os.Stdout, result, cfg.TopCompanies)
	return nil
}
