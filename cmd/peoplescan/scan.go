package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadsift/peoplescan/internal/config"
	"github.com/leadsift/peoplescan/internal/database"
	"github.com/leadsift/peoplescan/internal/discover"
	"github.com/leadsift/peoplescan/internal/fetch"
	"github.com/leadsift/peoplescan/internal/log"
	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/pipeline"
	"github.com/leadsift/peoplescan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [website...]",
		Short: "Scan company websites for people and decision makers",
		Long: `Scan crawls company websites and extracts person records.

For each site it discovers likely team pages, extracts names, titles,
profile links, and email addresses using several strategies, dedupes
the records, and ranks them so the likely decision makers come first.

Examples:
  # Scan a single website
  peoplescan scan example.com

  # Scan several websites concurrently
  peoplescan scan example.com other.example third.example

  # Read websites from a file (JSON array, {"websites": [...]}, or one per line)
  peoplescan scan --input-file websites.json

  # Output JSON including every extracted person
  peoplescan scan --json --include-all-people example.com

  # Write a Markdown report to a file
  peoplescan scan --markdown -o report.md example.com

Configuration file (.peoplescan) example:
  sites:
    example.com:
      cookie: "consent=ok"
      extraPaths:
        - /ons-mensen
    other.example:
      maxPages: 10`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Input flags
	cmd.Flags().StringP("input-file", "i", "",
		"File with websites to scan (JSON array, JSON object, or one per line)")

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Read timeout for each HTTP request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of candidate pages to scan per site")
	cmd.Flags().IntP("decision-limit", "n", config.DefaultDecisionLimit,
		"Maximum number of decision makers to select per site")
	cmd.Flags().Duration("interval", config.DefaultRequestInterval,
		"Minimum delay between requests to the same host")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent site scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .peoplescan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("include-all-people", "a", false,
		"Include the full extracted people list, not only decision makers")

	// Storage flags
	cmd.Flags().String("cache-dir", config.XDGCacheDir(),
		"Directory for the persistent script cache (empty disables persistence)")
	cmd.Flags().Bool("no-save", false,
		"Do not save scan results to the local database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up redacting structured logging
	logger := newScanLogger(os.Stderr, getLogJSONFlag(cmd), getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return jsonLogs
}

// newScanLogger builds the redacting logger in the requested format.
func newScanLogger(w io.Writer, jsonLogs, verbose bool) *slog.Logger {
	if jsonLogs {
		return log.NewRedactJSONLogger(w, verbose)
	}
	return log.NewRedactLogger(w, verbose)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.DecisionLimit, err = cmd.Flags().GetInt("decision-limit")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.RequestInterval, err = cmd.Flags().GetDuration("interval")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.IncludeAllPeople, err = cmd.Flags().GetBool("include-all-people")
	if err != nil {
		return nil, err
	}

	cfg.CacheDir, err = cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Targets come from positional arguments plus the input file
	cfg.Targets = args
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return nil, err
	}
	if inputFile != "" {
		fromFile, err := config.LoadTargetsFile(inputFile)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, fromFile...)
	}
	cfg.Targets = config.DedupeTargets(cfg.Targets)

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"maxPages", cfg.MaxPages,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ResultDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close() //nolint:errcheck // best effort on shutdown
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel scanning if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, db, logger)
	}

	return runSequentialScan(ctx, cfg, db, logger)
}

// runSequentialScan scans targets one at a time, applying per-site
// configuration (cookies, headers, page limits, extra paths).
func runSequentialScan(ctx context.Context, cfg *config.Config, db *database.ResultDB, logger *slog.Logger) error {
	var collected []*model.SiteScanResult

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		siteConfig := getSiteConfig(cfg, target)
		p := pipelineForTarget(cfg, siteConfig, logger)

		result := model.NewSiteScanResult(target)

		fmt.Printf("Scanning %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, result); err != nil {
			logger.Error("scan failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s (%d people, %d decision makers)\n\n",
			elapsed.Round(time.Millisecond), result.Meta.PeopleExamined, len(result.DecisionMakers))

		if cfg.ReportFile == "" {
			if err := outputResults(cfg, result); err != nil {
				logger.Error("report failed", "target", target, "error", err)
			}
		} else {
			collected = append(collected, result)
		}

		if err := saveScanResult(ctx, db, result, logger); err != nil {
			logger.Error("failed to save scan result", "target", target, "error", err)
		}
	}

	// File output is written once so the file holds the whole run.
	if cfg.ReportFile != "" && len(collected) > 0 {
		return outputResults(cfg, collected...)
	}
	return nil
}

// runBatchScan scans multiple targets concurrently using BatchProcessor.
// All scans share one fetcher so per-host pacing holds across sites.
func runBatchScan(ctx context.Context, cfg *config.Config, db *database.ResultDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs (cookies, headers, paths) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	var defaults config.SiteConfig
	if cfg.SiteConfigs != nil {
		defaults = cfg.SiteConfigs.Defaults
	}
	fetcher := newFetcher(cfg, defaults, logger)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipelineWithFetcher(cfg, defaults, fetcher, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Results are streamed: each site is reported and saved as it
	// finishes, while the slice keeps input order for the final report.
	results := make([]*model.SiteScanResult, len(cfg.Targets))
	var mu sync.Mutex
	var done int
	err := bp.ProcessBatch(ctx, cfg.Targets, func(result *model.SiteScanResult, index int) {
		results[index] = result

		mu.Lock()
		done++
		fmt.Printf("[%d/%d] Scan completed: %s (%d decision makers)\n",
			done, len(cfg.Targets), result.Website, len(result.DecisionMakers))
		mu.Unlock()

		if saveErr := saveScanResult(ctx, db, result, logger); saveErr != nil {
			logger.Error("failed to save scan result", "target", result.Website, "error", saveErr)
		}
	})

	if outputErr := outputResults(cfg, nonNilResults(results)...); outputErr != nil {
		logger.Error("report failed", "error", outputErr)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// nonNilResults filters out slots left empty by cancelled scans.
func nonNilResults(results []*model.SiteScanResult) []*model.SiteScanResult {
	out := make([]*model.SiteScanResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// getSiteConfig returns the site-specific configuration for a target.
// Falls back to defaults if no site-specific config exists.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	// Try exact match first
	if _, ok := cfg.SiteConfigs.Sites[target]; ok {
		return cfg.SiteConfigs.GetSiteConfig(target)
	}

	// Try the bare host: strip scheme, path, and leading www
	cleanTarget := target
	for _, prefix := range []string{"http://", "https://"} {
		cleanTarget = strings.TrimPrefix(cleanTarget, prefix)
	}
	cleanTarget, _, _ = strings.Cut(cleanTarget, "/")
	cleanTarget = strings.TrimPrefix(strings.ToLower(cleanTarget), "www.")

	return cfg.SiteConfigs.GetSiteConfig(cleanTarget)
}

// newFetcher builds a fetcher from global and site-specific settings.
func newFetcher(cfg *config.Config, siteConfig config.SiteConfig, logger *slog.Logger) *fetch.Fetcher {
	opts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithRequestInterval(cfg.RequestInterval),
		fetch.WithMaxPageBytes(cfg.MaxPageBytes),
		fetch.WithLogger(logger),
	}
	if cfg.CacheDir != "" {
		opts = append(opts, fetch.WithResourceCacheDir(cfg.CacheDir))
	}
	if siteConfig.Cookie != "" {
		opts = append(opts, fetch.WithCookie(siteConfig.Cookie))
	}
	if len(siteConfig.Headers) > 0 {
		opts = append(opts, fetch.WithExtraHeaders(siteConfig.Headers))
	}
	return fetch.New(opts...)
}

// pipelineForTarget creates a pipeline with its own fetcher, honoring
// site-specific configuration.
func pipelineForTarget(cfg *config.Config, siteConfig config.SiteConfig, logger *slog.Logger) *pipeline.Pipeline {
	return pipelineWithFetcher(cfg, siteConfig, newFetcher(cfg, siteConfig, logger), logger)
}

// pipelineWithFetcher assembles the standard steps around a fetcher.
func pipelineWithFetcher(cfg *config.Config, siteConfig config.SiteConfig, fetcher *fetch.Fetcher, logger *slog.Logger) *pipeline.Pipeline {
	maxPages := cfg.MaxPages
	if siteConfig.MaxPages > 0 {
		maxPages = siteConfig.MaxPages
	}
	discoverer := discover.New(maxPages, siteConfig.ExtraPaths...)

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(pipeline.DefaultSteps(fetcher, discoverer, cfg.DecisionLimit, logger)...)
	return p
}

// outputResults writes the results in the requested format.
// A single result is written as one document; several results become a
// batch document (a JSON array, or concatenated report sections).
func outputResults(cfg *config.Config, results ...*model.SiteScanResult) error {
	if len(results) == 0 {
		return nil
	}

	output, closeOutput, err := openOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := buildWriter(cfg, output)
	if len(results) == 1 {
		_, err = writer.Write(results[0])
		return err
	}
	_, err = writer.WriteAll(results)
	return err
}

// buildWriter selects the report writer for the configured format.
func buildWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		opts := []report.JSONWriterOption{report.WithPrettyPrint()}
		if cfg.IncludeAllPeople {
			opts = append(opts, report.WithAllPeople(true))
		}
		return report.NewJSONWriter(output, opts...)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithMarkdownAllPeople(cfg.IncludeAllPeople))
	default:
		return report.NewSimpleWriter(output, report.WithSimpleAllPeople(cfg.IncludeAllPeople))
	}
}

// openOutput opens the report destination. The returned close function
// is a no-op for stdout.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports hold personal data, so keep them owner-readable only
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveScanResult saves the scan result to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanResult(ctx context.Context, db *database.ResultDB, result *model.SiteScanResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	if _, err := db.SaveScanResult(ctx, result); err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	logger.Info("scan result saved to database", "target", result.Website)
	return nil
}
