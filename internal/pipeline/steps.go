package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/seoaudit/internal/audit"
	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/sitemap"
)

// Crawler produces the page corpus of a site. *crawler.Spider satisfies it.
type Crawler interface {
	Crawl(ctx context.Context, startURL string) (model.Corpus, error)
	Stats() model.CrawlStats
}

// LinkChecker probes a budgeted list of URLs. *liveness.Checker satisfies it.
type LinkChecker interface {
	Check(ctx context.Context, urls []string, budget int, source string) ([]model.LivenessResult, error)
}

// SitemapSource locates and reads sitemaps. *sitemap.Fetcher satisfies it.
type SitemapSource interface {
	Discover(ctx context.Context, baseURL string) []string
	Fetch(ctx context.Context, sitemapURL string) (*sitemap.Set, error)
}

// CrawlStep crawls the site and stores the corpus in the report.
//
// A crawl without a single page is fatal: nothing downstream can run and
// the caller must report a crawl failure rather than a clean site.
type CrawlStep struct {
	crawler Crawler
	logger  *slog.Logger
}

// NewCrawlStep creates a crawl step.
func NewCrawlStep(c Crawler, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{crawler: c, logger: logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, report *model.AuditReport) error {
	pages, err := s.crawler.Crawl(ctx, report.StartURL)
	report.SetPages(pages, s.crawler.Stats())

	if err != nil {
		if errors.Is(err, crawler.ErrEmptyCorpus) || errors.Is(err, crawler.ErrInvalidStartURL) {
			return Fatal(fmt.Errorf("crawl failed: %w", err))
		}
		// Cancelled: the partial corpus stays in the report.
		return err
	}

	s.logger.Info("crawl completed",
		"site", report.Site,
		"pages", report.PagesCrawled,
		"transport_errors", report.CrawlStats.TransportErrors,
		"non_html", report.CrawlStats.NonHTML,
	)
	return nil
}

// AuditStep runs the content rules over the corpus.
type AuditStep struct {
	auditor *audit.Auditor
}

// NewAuditStep creates an audit step. A nil auditor runs the built-in
// rules with default thresholds.
func NewAuditStep(auditor *audit.Auditor) *AuditStep {
	if auditor == nil {
		auditor = audit.NewAuditor()
	}
	return &AuditStep{auditor: auditor}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do executes the content rules.
func (s *AuditStep) Do(ctx context.Context, report *model.AuditReport) error {
	issues, err := s.auditor.Run(ctx, report.Pages)
	if err != nil {
		return err
	}
	report.Thresholds = s.auditor.Thresholds()
	report.AddIssues(issues...)
	return nil
}

// LinkCheckStep probes the links found in page content.
type LinkCheckStep struct {
	checker       LinkChecker
	budget        int
	checkExternal bool
	logger        *slog.Logger
}

// LinkCheckOption configures a LinkCheckStep.
type LinkCheckOption func(*LinkCheckStep)

// WithExternalLinks enables checking of off-site links.
func WithExternalLinks(enabled bool) LinkCheckOption {
	return func(s *LinkCheckStep) {
		s.checkExternal = enabled
	}
}

// WithLinkLogger sets a custom logger for the link check step.
func WithLinkLogger(logger *slog.Logger) LinkCheckOption {
	return func(s *LinkCheckStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLinkCheckStep creates a link check step probing at most budget URLs
// per link source.
func NewLinkCheckStep(checker LinkChecker, budget int, opts ...LinkCheckOption) *LinkCheckStep {
	s := &LinkCheckStep{
		checker: checker,
		budget:  budget,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LinkCheckStep) Name() string {
	return "link_check"
}

// Do probes internal links and, when enabled, external links.
func (s *LinkCheckStep) Do(ctx context.Context, report *model.AuditReport) error {
	if s.budget <= 0 {
		s.logger.Debug("link check disabled", "site", report.Site)
		return nil
	}

	sources := []struct {
		tag  string
		urls []string
	}{
		{model.SourceInternalLinks, report.Pages.InternalLinks()},
	}
	if s.checkExternal {
		sources = append(sources, struct {
			tag  string
			urls []string
		}{model.SourceExternalLinks, report.Pages.ExternalLinks()})
	}

	for _, src := range sources {
		results, err := s.checker.Check(ctx, src.urls, s.budget, src.tag)
		report.Liveness = append(report.Liveness, results...)
		report.AddIssues(audit.BrokenLinkIssues(results, report.Pages)...)
		if err != nil {
			return err
		}
		s.logger.Info("links checked",
			"site", report.Site,
			"source", src.tag,
			"candidates", len(src.urls),
			"broken", len(results),
		)
	}
	return nil
}

// SitemapStep reconciles the sitemap with the crawled corpus.
// A missing, unreadable or empty sitemap only produces a warning.
type SitemapStep struct {
	source     SitemapSource
	checker    LinkChecker
	budget     int
	sitemapURL string
	logger     *slog.Logger
}

// SitemapOption configures a SitemapStep.
type SitemapOption func(*SitemapStep)

// WithSitemapURL skips discovery and reads the sitemap at u.
func WithSitemapURL(u string) SitemapOption {
	return func(s *SitemapStep) {
		s.sitemapURL = u
	}
}

// WithSitemapLogger sets a custom logger for the sitemap step.
func WithSitemapLogger(logger *slog.Logger) SitemapOption {
	return func(s *SitemapStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSitemapStep creates a sitemap step. checker may be nil to skip the
// liveness check of sitemap URLs.
func NewSitemapStep(source SitemapSource, checker LinkChecker, budget int, opts ...SitemapOption) *SitemapStep {
	s := &SitemapStep{
		source:  source,
		checker: checker,
		budget:  budget,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SitemapStep) Name() string {
	return "sitemap"
}

// Do fetches the sitemap and stores the reconciliation in the report.
func (s *SitemapStep) Do(ctx context.Context, report *model.AuditReport) error {
	locations := []string{s.sitemapURL}
	if s.sitemapURL == "" {
		locations = s.source.Discover(ctx, report.StartURL)
	}

	listed := sitemap.NewSet()
	var used []string
	var lastErr error
	for _, loc := range locations {
		set, err := s.source.Fetch(ctx, loc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.logger.Warn("sitemap unavailable", "url", loc, "error", err)
			lastErr = err
			continue
		}
		used = append(used, loc)
		listed.Merge(set)
	}

	if listed.Len() == 0 {
		report.SitemapWarning = "sitemap checks skipped: no sitemap URLs found"
		if lastErr != nil {
			report.SitemapWarning = "sitemap checks skipped: " + lastErr.Error()
		}
		return nil
	}

	var checker sitemap.LivenessChecker
	if s.checker != nil && s.budget > 0 {
		checker = s.checker
	}
	crawled := sitemap.NewSet(report.Pages.URLs()...)
	diff, err := sitemap.Reconcile(ctx, crawled, listed, s.budget, checker)
	diff.SitemapURL = strings.Join(used, ", ")

	report.Sitemap = diff
	report.Liveness = append(report.Liveness, diff.SitemapBroken...)
	report.AddIssues(audit.SitemapIssues(diff)...)

	s.logger.Info("sitemap reconciled",
		"site", report.Site,
		"sitemap_urls", diff.SitemapSize,
		"sitemap_only", len(diff.SitemapOnly),
		"crawled_only", len(diff.CrawledOnly),
		"broken", len(diff.SitemapBroken),
	)
	return err
}

// ImageStep runs the opt-in image checks: declared size and EXIF metadata.
type ImageStep struct {
	checker     *audit.ImageChecker
	checkSizes  bool
	checkEXIF   bool
	thresholdKB int
}

// NewImageStep creates an image step. thresholdKB of zero uses the
// default large image threshold.
func NewImageStep(checker *audit.ImageChecker, checkSizes, checkEXIF bool, thresholdKB int) *ImageStep {
	if thresholdKB <= 0 {
		thresholdKB = model.DefaultLargeImageKB
	}
	return &ImageStep{
		checker:     checker,
		checkSizes:  checkSizes,
		checkEXIF:   checkEXIF,
		thresholdKB: thresholdKB,
	}
}

// Name returns the step name.
func (s *ImageStep) Name() string {
	return "images"
}

// Do executes the enabled image checks.
func (s *ImageStep) Do(ctx context.Context, report *model.AuditReport) error {
	if s.checkSizes {
		issues, err := s.checker.CheckSizes(ctx, report.Pages, s.thresholdKB)
		report.AddIssues(issues...)
		if err != nil {
			return err
		}
	}
	if s.checkEXIF {
		issues, err := s.checker.CheckEXIF(ctx, report.Pages)
		report.AddIssues(issues...)
		if err != nil {
			return err
		}
	}
	return nil
}
