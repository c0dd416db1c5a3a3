package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/database"
	"github.com/nao1215/seoaudit/internal/httpclient"
	seolog "github.com/nao1215/seoaudit/internal/log"
	"github.com/nao1215/seoaudit/internal/metrics"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/pipeline"
	"github.com/nao1215/seoaudit/internal/report"
)

// metricsShutdownTimeout bounds the graceful stop of the metrics server.
const metricsShutdownTimeout = 5 * time.Second

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [start-url...]",
		Short: "Crawl a website and report SEO issues",
		Long: `Audit crawls a website from each start URL and reports:
- On-page issues (titles, meta descriptions, headings, word count,
  duplicate content, image alt text, canonicals, hreflang)
- Broken internal links (and external links with --check-external)
- Sitemap URLs that were not crawled, crawled pages missing from the
  sitemap, and sitemap URLs that are broken
- Large images and images carrying EXIF metadata (opt-in)

Only pages on the start URL's host are crawled. Between fetches the crawler
pauses at random intervals to stay polite.

Examples:
  # Audit a single site
  seoaudit audit https://example.com/

  # Audit several sites, two at a time
  seoaudit audit https://example.com/ https://example.org/

  # Write an Excel workbook with one sheet per issue type
  seoaudit audit -f xlsx -o report.xlsx https://example.com/

  # Crawl up to 500 pages with 4 workers and check external links
  seoaudit audit -p 500 -w 4 --check-external https://example.com/

Configuration file (.seoaudit) example:
  defaults:
    livenessBudget: 200
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      maxPages: 500
      ignorePatterns:
        - "/private/*"
      thresholds:
        title_max: 65`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Crawl flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetches per site (1 keeps strict frontier order)")
	cmd.Flags().Duration("probe-timeout", config.DefaultProbeTimeout,
		"Timeout for the HEAD probe of each URL")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout for the GET fetch of each page")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum redirect hops followed per request")
	cmd.Flags().Bool("no-pause", false,
		"Disable the randomized politeness pauses between fetches")
	cmd.Flags().Float64("rps", 0,
		"Maximum requests per second per site (0 means unlimited)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum page body size in bytes")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringSlice("ignore", nil,
		"Glob pattern of URL paths to skip (repeatable)")
	cmd.Flags().StringSlice("follow", nil,
		"Glob pattern of URL paths to crawl exclusively (repeatable)")
	cmd.Flags().DurationP("timeout", "t", 0,
		"Overall time limit per run (0 means no limit); partial results are reported")

	// Connection flags
	cmd.Flags().StringP("proxy", "x", "",
		"Proxy URL (socks5://host:port or http://host:port)")
	cmd.Flags().String("cookie", "",
		"Cookie sent with every request (e.g. \"session=abc\")")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Extra request header \"Name: value\" (repeatable)")
	cmd.Flags().Bool("insecure", false,
		"Skip TLS certificate verification")

	// Check flags
	cmd.Flags().IntP("budget", "B", config.DefaultLivenessBudget,
		"Maximum number of links checked per source (0 disables link checks)")
	cmd.Flags().Duration("liveness-timeout", config.DefaultLivenessTimeout,
		"Timeout for each link check")
	cmd.Flags().Int("liveness-concurrency", config.DefaultLivenessConcurrency,
		"Number of concurrent link checks")
	cmd.Flags().Bool("check-external", false,
		"Also check links to other hosts")
	cmd.Flags().Bool("no-sitemap", false,
		"Skip the sitemap checks")
	cmd.Flags().String("sitemap-url", "",
		"Sitemap location (default: discovered from robots.txt, then /sitemap.xml)")
	cmd.Flags().Bool("check-image-size", false,
		"Report images larger than the configured threshold")
	cmd.Flags().Bool("check-exif", false,
		"Report images carrying EXIF metadata (GPS, camera)")

	// Batch and configuration flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultBatchSize,
		"Number of sites audited concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultOutputFormat,
		"Report format: "+strings.Join(config.OutputFormats(), ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("include-pages", false,
		"Include the crawled page records in JSON reports")
	cmd.Flags().Bool("no-save", false,
		"Do not store the audit in the local history database")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON lines")
	cmd.Flags().String("metrics-addr", "",
		"Serve Prometheus metrics on this address during the run (e.g. 127.0.0.1:9090)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose, cfg.JSONLog)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, finishing with partial results")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.AuditTimeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.AuditTimeout)
		defer timeoutCancel()
	}

	return runAudit(ctx, cfg, changedFlags(cmd), logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
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

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = flags.GetDuration("probe-timeout"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = flags.GetDuration("fetch-timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxRedirects, err = flags.GetInt("max-redirects"); err != nil {
		return nil, err
	}
	noPause, err := flags.GetBool("no-pause")
	if err != nil {
		return nil, err
	}
	if noPause {
		cfg.Politeness = crawler.Politeness{}
	}
	if cfg.RequestsPerSecond, err = flags.GetFloat64("rps"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.IgnorePatterns, err = flags.GetStringSlice("ignore"); err != nil {
		return nil, err
	}
	if cfg.FollowPatterns, err = flags.GetStringSlice("follow"); err != nil {
		return nil, err
	}
	if cfg.AuditTimeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}

	if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
		return nil, err
	}
	rawHeaders, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	if cfg.Headers, err = parseHeaders(rawHeaders); err != nil {
		return nil, err
	}
	if cfg.Insecure, err = flags.GetBool("insecure"); err != nil {
		return nil, err
	}

	if cfg.LivenessBudget, err = flags.GetInt("budget"); err != nil {
		return nil, err
	}
	if cfg.LivenessTimeout, err = flags.GetDuration("liveness-timeout"); err != nil {
		return nil, err
	}
	if cfg.LivenessConcurrency, err = flags.GetInt("liveness-concurrency"); err != nil {
		return nil, err
	}
	if cfg.CheckExternal, err = flags.GetBool("check-external"); err != nil {
		return nil, err
	}
	noSitemap, err := flags.GetBool("no-sitemap")
	if err != nil {
		return nil, err
	}
	cfg.CheckSitemap = !noSitemap
	if cfg.SitemapURL, err = flags.GetString("sitemap-url"); err != nil {
		return nil, err
	}
	if cfg.CheckImageSize, err = flags.GetBool("check-image-size"); err != nil {
		return nil, err
	}
	if cfg.CheckEXIF, err = flags.GetBool("check-exif"); err != nil {
		return nil, err
	}

	if cfg.BatchSize, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	if cfg.OutputFormat, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.IncludePages, err = flags.GetBool("include-pages"); err != nil {
		return nil, err
	}
	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.JSONLog, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	targets := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			targets = append(targets, a)
		}
	}
	cfg.Targets = targets

	return cfg, nil
}

// parseHeaders converts "Name: value" flag values into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Name: value\")", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// changedFlags returns the names of the flags set on the command line.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	for name := range flagOverrides {
		if cmd.Flags().Changed(name) {
			names = append(names, name)
		}
	}
	return names
}

// flagOverrides copies the value of a command line flag from the global
// configuration into a site configuration. Flags set on the command line
// take precedence over the site file, which takes precedence over defaults.
var flagOverrides = map[string]func(dst, src *config.Config){
	"max-pages":   func(dst, src *config.Config) { dst.MaxPages = src.MaxPages },
	"workers":     func(dst, src *config.Config) { dst.Workers = src.Workers },
	"cookie":      func(dst, src *config.Config) { dst.Cookie = src.Cookie },
	"ignore":      func(dst, src *config.Config) { dst.IgnorePatterns = src.IgnorePatterns },
	"follow":      func(dst, src *config.Config) { dst.FollowPatterns = src.FollowPatterns },
	"sitemap-url": func(dst, src *config.Config) { dst.SitemapURL = src.SitemapURL },
	"budget":      func(dst, src *config.Config) { dst.LivenessBudget = src.LivenessBudget },
	"header": func(dst, src *config.Config) {
		if dst.Headers == nil {
			dst.Headers = make(map[string]string, len(src.Headers))
		}
		maps.Copy(dst.Headers, src.Headers)
	},
}

// siteConfig returns the configuration used to audit target: the site file
// entry applied over cfg, then the explicitly set flags applied over that.
func siteConfig(cfg *config.Config, overrides []string, target string) *config.Config {
	sc := cfg.ForSite(target)
	for _, name := range overrides {
		if apply, ok := flagOverrides[name]; ok {
			apply(sc, cfg)
		}
	}
	return sc
}

// setupLogger creates the secure structured logger for the CLI.
func setupLogger(verbose, jsonOutput bool) *slog.Logger {
	if jsonOutput {
		return seolog.NewSecureJSONLogger(os.Stderr, verbose)
	}
	return seolog.NewSecureLogger(os.Stderr, verbose)
}

// siteRun holds what is needed to build the pipeline of one target.
type siteRun struct {
	cfg    *config.Config
	client *httpclient.Client
}

// runAudit audits every target of cfg and writes the reports.
func runAudit(ctx context.Context, cfg *config.Config, overrides []string, logger *slog.Logger, out, errOut io.Writer) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more start URLs as arguments)")
	}
	if cfg.OutputFormat == report.FormatXLSX && cfg.ReportFile == "" {
		return errors.New("xlsx reports are binary: use --output to choose a file")
	}

	runs, err := prepareSites(ctx, cfg, overrides, logger)
	if err != nil {
		return err
	}

	var rec *metrics.Recorder
	if cfg.MetricsAddr != "" {
		rec = metrics.NewRecorder()
		srv := metrics.NewServer(cfg.MetricsAddr, rec, logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to stop metrics server", "error", err)
			}
		}()
		fmt.Fprintf(out, "Serving metrics on http://%s/metrics\n", srv.Addr())
	}

	var db *database.AuditDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	logger.Info("starting audit",
		"targets", cfg.Targets,
		"concurrency", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	bp := pipeline.NewBatchProcessor(
		func(startURL string) *pipeline.Pipeline {
			run := runs[startURL]
			return pipeline.DefaultPipeline(run.cfg, run.client.HTTPClient(), rec,
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(true),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	multi := len(cfg.Targets) > 1
	if multi {
		fmt.Fprintf(out, "Auditing %d sites (concurrency: %d)...\n\n", len(cfg.Targets), cfg.BatchSize)
	}

	startTime := time.Now()
	var mu sync.Mutex
	failed, handled := 0, 0
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(auditReport *model.AuditReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		handled++

		if multi {
			fmt.Fprintf(out, "[%d/%d] Audit completed: %s\n", index+1, len(cfg.Targets), auditReport.StartURL)
		}
		if !handleReport(ctx, runs[cfg.Targets[index]].cfg, db, rec, auditReport, multi, logger, out, errOut) {
			failed++
		}
	})

	if multi {
		fmt.Fprintf(out, "\nAudit of %d sites completed in %s\n", len(cfg.Targets), time.Since(startTime).Round(time.Millisecond))
	}

	if batchErr != nil && !errors.Is(batchErr, context.DeadlineExceeded) {
		return batchErr
	}
	// Sites never started because the deadline passed count as failed.
	failed += len(cfg.Targets) - handled
	if failed > 0 {
		return fmt.Errorf("%d of %d audits failed", failed, len(cfg.Targets))
	}
	return nil
}

// prepareSites resolves and validates the configuration of every target and
// builds its HTTP client. A configured proxy is checked once up front.
func prepareSites(ctx context.Context, cfg *config.Config, overrides []string, logger *slog.Logger) (map[string]siteRun, error) {
	runs := make(map[string]siteRun, len(cfg.Targets))
	proxyChecked := false

	for _, target := range cfg.Targets {
		if _, ok := runs[target]; ok {
			continue
		}

		sc := siteConfig(cfg, overrides, target)
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("configuration error for %s: %w", target, err)
		}

		client, err := httpclient.New(httpclient.Options{
			ProxyURL:           sc.ProxyURL,
			Cookie:             sc.Cookie,
			Headers:            sc.Headers,
			InsecureSkipVerify: sc.Insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}

		if sc.ProxyURL != "" && !proxyChecked {
			status := client.CheckProxy(ctx)
			if status != httpclient.ProxyStatusOK {
				return nil, fmt.Errorf("proxy check failed: %s (make sure the proxy is running at %s): %w",
					status, client.ProxyURL(), status.Err())
			}
			logger.Info("proxy connection verified", "proxy", client.ProxyURL())
			proxyChecked = true
		}

		runs[target] = siteRun{cfg: sc, client: client}
	}
	return runs, nil
}

// handleReport writes, stores and records one finished audit. It reports
// whether the audit produced a report.
func handleReport(ctx context.Context, cfg *config.Config, db *database.AuditDB, rec *metrics.Recorder,
	auditReport *model.AuditReport, multi bool, logger *slog.Logger, out, errOut io.Writer) bool {
	elapsed := time.Since(auditReport.DateAudited)

	// No report is written for an audit without pages, whatever ended it.
	if auditReport.PagesCrawled == 0 ||
		errors.Is(auditReport.Error, crawler.ErrEmptyCorpus) || errors.Is(auditReport.Error, crawler.ErrInvalidStartURL) {
		rec.AuditFinished("failed", elapsed)
		if auditReport.TimedOut {
			fmt.Fprintf(errOut, "Crawl failed: audit of %s was interrupted before any page was fetched\n", auditReport.StartURL)
		} else {
			fmt.Fprintf(errOut, "Crawl failed: no pages could be fetched from %s\n", auditReport.StartURL)
		}
		return false
	}

	status := "success"
	if auditReport.TimedOut {
		status = "timeout"
		fmt.Fprintf(errOut, "Audit of %s was interrupted; the report covers %d pages crawled so far\n",
			auditReport.StartURL, auditReport.PagesCrawled)
	}
	rec.AuditFinished(status, elapsed)
	recordIssues(rec, auditReport)

	if err := outputReport(cfg, auditReport, reportPath(cfg.ReportFile, auditReport.Site, multi), out); err != nil {
		logger.Error("report failed", "site", auditReport.Site, "error", err)
		fmt.Fprintf(errOut, "Report error for %s: %v\n", auditReport.Site, err)
	}

	// A cancelled run is still saved with its partial results.
	if err := saveAuditReport(context.WithoutCancel(ctx), db, auditReport, logger); err != nil {
		logger.Error("failed to save audit report", "site", auditReport.Site, "error", err)
	}
	return true
}

// recordIssues publishes the issue counts of report per severity.
func recordIssues(rec *metrics.Recorder, auditReport *model.AuditReport) {
	if rec == nil {
		return
	}
	summary := model.NewSummary(auditReport)
	for _, sev := range model.AllSeverities() {
		rec.IssuesFound(auditReport.Site, strings.ToLower(sev.String()), summary.CountFor(sev))
	}
}

// reportPath returns the file the report of site is written to. With
// several sites, the site is inserted before the extension so that reports
// do not overwrite each other.
func reportPath(base, site string, multi bool) string {
	if base == "" || !multi {
		return base
	}
	ext := filepath.Ext(base)
	safeSite := strings.NewReplacer(":", "_", "/", "_").Replace(site)
	return strings.TrimSuffix(base, ext) + "-" + safeSite + ext
}

// newReportWriter returns the writer for cfg's output format.
func newReportWriter(cfg *config.Config, output io.Writer) (report.Writer, error) {
	switch cfg.OutputFormat {
	case report.FormatText, "":
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)), nil
	case report.FormatJSON:
		return report.NewFullJSONWriter(output, getVersion(),
			report.WithPrettyPrint(),
			report.WithPages(cfg.IncludePages),
		), nil
	default:
		return report.New(cfg.OutputFormat, output, getVersion())
	}
}

// outputReport writes the audit report to path, or to out when path is empty.
func outputReport(cfg *config.Config, auditReport *model.AuditReport, path string, out io.Writer) error {
	output := out
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain session URLs, so only the owner can read them.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := newReportWriter(cfg, output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(auditReport); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(out, "Report written to %s\n", path)
	}
	return nil
}

// saveAuditReport saves the audit report and its pages to the database.
// If db is nil, this function is a no-op.
func saveAuditReport(ctx context.Context, db *database.AuditDB, auditReport *model.AuditReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveAuditReport(ctx, auditReport)
	if err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}
	if err := db.SavePages(ctx, auditReport.Site, auditReport.Pages); err != nil {
		return fmt.Errorf("failed to save pages: %w", err)
	}

	logger.Info("audit report saved to database", "site", auditReport.Site, "id", id)
	return nil
}
