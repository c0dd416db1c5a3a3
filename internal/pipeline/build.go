package pipeline

import (
	"net/http"

	"github.com/nao1215/seoaudit/internal/audit"
	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/liveness"
	"github.com/nao1215/seoaudit/internal/metrics"
	"github.com/nao1215/seoaudit/internal/sitemap"
)

// DefaultPipeline creates the standard audit pipeline for one site.
// cfg should already carry the site's overrides (see config.Config.ForSite).
// rec may be nil.
//
// Steps, in order:
//  1. crawl (fatal when no page could be fetched)
//  2. audit (content rules)
//  3. link_check (internal links, external links when enabled)
//  4. sitemap (when enabled)
//  5. images (when the size or EXIF check is enabled)
//
// Design decision: All components share client, so the proxy, cookie and
// custom headers apply to every request of the audit.
func DefaultPipeline(cfg *config.Config, client *http.Client, rec *metrics.Recorder, opts ...Option) *Pipeline {
	p := New(opts...)
	logger := p.Logger()

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithProbeTimeout(cfg.ProbeTimeout),
		crawler.WithFetchTimeout(cfg.FetchTimeout),
		crawler.WithMaxRedirects(cfg.MaxRedirects),
	}
	if cfg.RequestsPerSecond > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithRateLimit(cfg.RequestsPerSecond, 1))
	}

	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithPoliteness(cfg.Politeness),
		crawler.WithIgnorePatterns(cfg.IgnorePatterns),
		crawler.WithFollowPatterns(cfg.FollowPatterns),
		crawler.WithLogger(logger),
		crawler.WithFetcherOptions(fetcherOpts...),
	}

	checkerOpts := []liveness.Option{
		liveness.WithTimeout(cfg.LivenessTimeout),
		liveness.WithConcurrency(cfg.LivenessConcurrency),
		liveness.WithMaxRedirects(cfg.MaxRedirects),
		liveness.WithUserAgent(cfg.UserAgent),
		liveness.WithRateLimit(cfg.RequestsPerSecond),
		liveness.WithLogger(logger),
	}

	if rec != nil {
		spiderOpts = append(spiderOpts, crawler.WithObserver(rec))
		checkerOpts = append(checkerOpts, liveness.WithObserver(rec))
	}

	spider := crawler.NewSpider(client, spiderOpts...)
	checker := liveness.NewChecker(client, checkerOpts...)

	p.AddSteps(
		NewCrawlStep(spider, logger),
		NewAuditStep(audit.NewAuditor(audit.WithThresholds(cfg.Thresholds))),
		NewLinkCheckStep(checker, cfg.LivenessBudget,
			WithExternalLinks(cfg.CheckExternal),
			WithLinkLogger(logger),
		),
	)

	if cfg.CheckSitemap {
		fetcher := sitemap.NewFetcher(client,
			sitemap.WithUserAgent(cfg.UserAgent),
			sitemap.WithLogger(logger),
		)
		p.AddStep(NewSitemapStep(fetcher, checker, cfg.LivenessBudget,
			WithSitemapURL(cfg.SitemapURL),
			WithSitemapLogger(logger),
		))
	}

	if cfg.CheckImageSize || cfg.CheckEXIF {
		images := audit.NewImageChecker(checker, client,
			audit.WithImageUserAgent(cfg.UserAgent),
			audit.WithImageConcurrency(cfg.LivenessConcurrency),
			audit.WithImageLogger(logger),
		)
		p.AddStep(NewImageStep(images, cfg.CheckImageSize, cfg.CheckEXIF, cfg.Thresholds.ImageKB))
	}

	return p
}
