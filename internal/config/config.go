package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/httpclient"
	"github.com/nao1215/seoaudit/internal/liveness"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "seoaudit"

	// DefaultMaxPages is the maximum number of pages crawled per site.
	DefaultMaxPages = crawler.DefaultMaxPages

	// DefaultWorkers of 1 keeps the crawl in strict frontier order.
	DefaultWorkers = 1

	// DefaultProbeTimeout bounds the HEAD probe of every page.
	DefaultProbeTimeout = crawler.DefaultProbeTimeout

	// DefaultFetchTimeout bounds the GET fetch of every HTML page.
	DefaultFetchTimeout = crawler.DefaultFetchTimeout

	// DefaultLivenessTimeout bounds a single link liveness probe.
	DefaultLivenessTimeout = liveness.DefaultTimeout

	// DefaultMaxRedirects is the number of redirect hops followed per request.
	DefaultMaxRedirects = crawler.DefaultMaxRedirects

	// DefaultLivenessBudget is the number of URLs checked per link source.
	DefaultLivenessBudget = liveness.DefaultBudget

	// DefaultLivenessConcurrency is the number of liveness probes in flight.
	DefaultLivenessConcurrency = liveness.DefaultConcurrency

	// DefaultBatchSize is the number of sites audited at once when several start URLs are given.
	DefaultBatchSize = 2

	// DefaultUserAgent identifies the auditor in HTTP requests.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits the HTML body read per page.
	DefaultMaxBodySize = crawler.DefaultMaxBodySize

	// DefaultOutputFormat is the human-readable text report.
	DefaultOutputFormat = "text"
)

// outputFormats are the report formats the CLI accepts.
var outputFormats = []string{"text", "json", "markdown", "xlsx", "csv"}

// Config holds all configuration options for seoaudit.
// It is populated from defaults, the .seoaudit file and CLI flags (in that
// order of precedence, lowest first) and passed through the application
// rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for crawl, check and report settings. Politeness and Thresholds are the
// exceptions because the crawler and the rule engine already define them.
type Config struct {
	// Targets is the list of start URLs to audit.
	Targets []string

	// MaxPages is the maximum number of pages crawled per site.
	MaxPages int

	// Workers is the number of concurrent page fetches within one crawl.
	// 1 visits pages in strict frontier order.
	Workers int

	// ProbeTimeout bounds the HEAD probe of each page.
	ProbeTimeout time.Duration

	// FetchTimeout bounds the GET fetch of each HTML page.
	FetchTimeout time.Duration

	// LivenessTimeout bounds each link liveness probe.
	LivenessTimeout time.Duration

	// AuditTimeout bounds the whole audit of one site. Zero means no limit.
	AuditTimeout time.Duration

	// MaxRedirects is the number of redirect hops followed per request.
	MaxRedirects int

	// Politeness configures the randomized pauses between page fetches.
	Politeness crawler.Politeness

	// RequestsPerSecond is a global request rate limit. Zero means unlimited.
	RequestsPerSecond float64

	// MaxBodySize is the maximum HTML body size in bytes to read per page.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyURL routes all traffic through an HTTP or SOCKS5 proxy.
	ProxyURL string

	// Insecure disables TLS certificate verification, for staging sites
	// with self-signed certificates.
	Insecure bool

	// Cookie is sent with every request to the audited site.
	Cookie string

	// Headers are extra request headers for the audited site.
	Headers map[string]string

	// IgnorePatterns are glob patterns of internal URLs never crawled.
	IgnorePatterns []string

	// FollowPatterns, when set, restrict crawling to matching internal URLs.
	FollowPatterns []string

	// LivenessBudget is the number of URLs checked per link source.
	// Zero disables link checking.
	LivenessBudget int

	// LivenessConcurrency is the number of liveness probes in flight.
	LivenessConcurrency int

	// CheckExternal enables liveness checks of external links.
	CheckExternal bool

	// CheckSitemap enables sitemap reconciliation.
	CheckSitemap bool

	// SitemapURL overrides sitemap discovery. Empty means robots.txt
	// Sitemap lines, then <start>/sitemap.xml.
	SitemapURL string

	// CheckImageSize enables the large image check.
	CheckImageSize bool

	// CheckEXIF enables the image EXIF metadata check.
	CheckEXIF bool

	// Thresholds are the limits applied by the audit rules.
	Thresholds model.Thresholds

	// OutputFormat is one of text, json, markdown, xlsx, csv.
	OutputFormat string

	// IncludePages adds the crawled page records to the JSON report.
	IncludePages bool

	// ReportFile is the output file path for the report.
	// When empty the report is written to stdout.
	ReportFile string

	// Verbose enables debug logging and the crawl statistics section of
	// the text report.
	Verbose bool

	// JSONLog switches the log output from text to JSON lines.
	JSONLog bool

	// BatchSize is the number of sites audited concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, .seoaudit is searched in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/seoaudit on Linux).
	DBDir string

	// SaveToDB indicates whether audit results are saved for comparison.
	SaveToDB bool

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// for the duration of the run.
	MetricsAddr string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:            DefaultMaxPages,
		Workers:             DefaultWorkers,
		ProbeTimeout:        DefaultProbeTimeout,
		FetchTimeout:        DefaultFetchTimeout,
		LivenessTimeout:     DefaultLivenessTimeout,
		MaxRedirects:        DefaultMaxRedirects,
		Politeness:          crawler.DefaultPoliteness(),
		MaxBodySize:         DefaultMaxBodySize,
		UserAgent:           DefaultUserAgent,
		LivenessBudget:      DefaultLivenessBudget,
		LivenessConcurrency: DefaultLivenessConcurrency,
		CheckSitemap:        true,
		Thresholds:          model.DefaultThresholds(),
		OutputFormat:        DefaultOutputFormat,
		BatchSize:           DefaultBatchSize,
		DBDir:               XDGDataDir(),
		SaveToDB:            true,
	}
}

// XDGDataDir returns the XDG data directory for seoaudit.
// On Linux: ~/.local/share/seoaudit
// On macOS: ~/Library/Application Support/seoaudit
// On Windows: %LOCALAPPDATA%\seoaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoaudit.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputFormats returns the accepted report formats.
func OutputFormats() []string {
	return slices.Clone(outputFormats)
}

// ForSite returns a copy of c with the site configuration for target
// applied. Values set in the site configuration replace the global ones;
// headers are merged with site values winning.
func (c *Config) ForSite(target string) *Config {
	out := *c
	out.Targets = []string{target}
	out.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		out.Headers[k] = v
	}
	if c.SiteConfigs == nil {
		return &out
	}

	sc := c.SiteConfigs.GetSiteConfig(urlnorm.Host(target))
	if sc.Cookie != "" {
		out.Cookie = sc.Cookie
	}
	for k, v := range sc.Headers {
		out.Headers[k] = v
	}
	if sc.MaxPages > 0 {
		out.MaxPages = sc.MaxPages
	}
	if sc.Workers > 0 {
		out.Workers = sc.Workers
	}
	if len(sc.IgnorePatterns) > 0 {
		out.IgnorePatterns = sc.IgnorePatterns
	}
	if len(sc.FollowPatterns) > 0 {
		out.FollowPatterns = sc.FollowPatterns
	}
	if sc.SitemapURL != "" {
		out.SitemapURL = sc.SitemapURL
	}
	if sc.LivenessBudget != nil {
		out.LivenessBudget = *sc.LivenessBudget
	}
	out.Thresholds = sc.Thresholds.Merge(c.Thresholds)
	return &out
}

// Validate checks if the configuration is valid.
// It returns the first failing check as a sentinel error.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	for _, target := range c.Targets {
		if !urlnorm.IsHTTP(target) {
			return fmt.Errorf("%w: %q", ErrInvalidStartURL, target)
		}
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Workers <= 0 || c.LivenessConcurrency <= 0 {
		return ErrInvalidWorkers
	}
	if c.ProbeTimeout <= 0 || c.FetchTimeout <= 0 || c.LivenessTimeout <= 0 || c.AuditTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidRedirects
	}
	if err := validatePoliteness(c.Politeness); err != nil {
		return err
	}
	if c.LivenessBudget < 0 {
		return ErrInvalidBudget
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRateLimit
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !slices.Contains(outputFormats, c.OutputFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.OutputFormat)
	}
	if c.ProxyURL != "" {
		if _, err := httpclient.ParseProxyURL(c.ProxyURL); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProxy, err)
		}
	}
	return validateThresholds(c.Thresholds)
}

func validatePoliteness(p crawler.Politeness) error {
	if p.EveryMin < 0 || p.EveryMax < p.EveryMin {
		return ErrInvalidPoliteness
	}
	if p.PauseMin < 0 || p.PauseMax < p.PauseMin {
		return ErrInvalidPoliteness
	}
	return nil
}

func validateThresholds(t model.Thresholds) error {
	for _, v := range []int{t.TitleMin, t.TitleMax, t.MetaDescMin, t.MetaDescMax, t.H1Max, t.WordCount, t.ImageKB} {
		if v < 0 {
			return ErrInvalidThreshold
		}
	}
	if t.TitleMax > 0 && t.TitleMin > t.TitleMax {
		return fmt.Errorf("%w: title min %d exceeds max %d", ErrInvalidThreshold, t.TitleMin, t.TitleMax)
	}
	if t.MetaDescMax > 0 && t.MetaDescMin > t.MetaDescMax {
		return fmt.Errorf("%w: meta description min %d exceeds max %d", ErrInvalidThreshold, t.MetaDescMin, t.MetaDescMax)
	}
	return nil
}
