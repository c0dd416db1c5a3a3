package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// DefaultMaxPages is the default page cap of a crawl.
const DefaultMaxPages = 100

// Spider crawls a site breadth-first and builds the page corpus.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher performs probe and fetch requests.
	fetcher *Fetcher

	// maxPages limits the corpus size.
	// This prevents runaway crawling on large sites.
	maxPages int

	// workers is the number of concurrent fetches.
	// 1 fetches strictly in frontier order.
	workers int

	// politeness configures randomized pauses.
	politeness Politeness

	// rnd drives politeness randomness; tests inject a fixed source.
	rnd RandSource

	// ignorePatterns are URL path patterns to skip during crawling.
	// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
	ignorePatterns []string

	// followPatterns are URL path patterns to follow during crawling.
	// If set, only URLs matching these patterns are crawled.
	// Empty means all URLs are allowed (subject to ignorePatterns).
	followPatterns []string

	logger   *slog.Logger
	observer Observer

	// fetcherOpts configure the fetcher built in NewSpider.
	fetcherOpts []FetcherOption

	// frontier holds the queue and the visited set.
	frontier *frontier

	// mutex protects stats and baseHost.
	mutex    sync.Mutex
	stats    model.CrawlStats
	baseHost string
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithWorkers sets the number of concurrent fetches.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPoliteness sets the politeness pause configuration.
func WithPoliteness(p Politeness) SpiderOption {
	return func(s *Spider) {
		s.politeness = p
	}
}

// WithRandSource sets the random source used for politeness pauses.
func WithRandSource(r RandSource) SpiderOption {
	return func(s *Spider) {
		s.rnd = r
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
// URLs matching any of these patterns will not be crawled.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// Patterns use glob syntax (e.g., "/blog/*", "/docs/*").
// If set, only URLs matching at least one pattern are crawled.
// Empty slice means all URLs are allowed (default behavior).
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithLogger sets the logger for skipped URLs and crawl progress.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the observer notified of crawl events.
func WithObserver(o Observer) SpiderOption {
	return func(s *Spider) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithFetcherOptions configures the fetcher built from the client
// (timeouts, redirect limit, user agent, rate limit).
func WithFetcherOptions(opts ...FetcherOption) SpiderOption {
	return func(s *Spider) {
		s.fetcherOpts = append(s.fetcherOpts, opts...)
	}
}

// NewSpider creates a new Spider with the given HTTP client.
// The client carries transport concerns (proxy, custom headers); request
// timeouts and the redirect limit come from WithFetcherOptions.
//
// Design decision: We require an external client because:
//  1. Proxy and header configuration is handled by the httpclient package
//  2. The same client is shared with the link checker and sitemap fetcher
//  3. Allows for different configurations in tests
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		maxPages:   DefaultMaxPages,
		workers:    1,
		politeness: DefaultPoliteness(),
		logger:     slog.Default(),
		observer:   nopObserver{},
		frontier:   newFrontier(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		fetcherOpts := append(s.fetcherOpts, WithFetchObserver(s.observer))
		s.fetcher = NewFetcher(client, fetcherOpts...)
	}
	return s
}

// result carries one processed frontier item back to the coordinator.
type result struct {
	url  string
	page *model.PageRecord
}

// Crawl starts crawling from startURL and returns the corpus in crawl order.
//
// The crawl ends when the frontier is empty or the page cap is reached. A
// crawl that produced no page returns ErrEmptyCorpus, also when ctx ended
// first; the error then matches ctx.Err() as well. When ctx is cancelled
// after the first page, the pages completed so far are returned together
// with ctx.Err().
//
// Design decision: We return the corpus rather than streaming pages through
// a callback because:
//  1. Simpler API for callers
//  2. Every downstream check needs the full corpus anyway
//  3. The page cap bounds memory
func (s *Spider) Crawl(ctx context.Context, startURL string) (model.Corpus, error) {
	start, err := url.Parse(strings.TrimSpace(startURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStartURL, err)
	}
	if (start.Scheme != "http" && start.Scheme != "https") || start.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidStartURL, startURL)
	}

	seed := urlnorm.Normalize(start.String())
	s.mutex.Lock()
	s.baseHost = urlnorm.Host(seed)
	s.mutex.Unlock()
	s.frontier.push(seed)

	s.logger.Info("crawl started", "url", seed, "max_pages", s.maxPages, "workers", s.workers)

	pages, err := s.run(ctx, NewPacer(s.politeness, s.rnd), seed)

	stats := s.Stats()
	s.logger.Info("crawl finished",
		"pages", stats.PagesCrawled,
		"visited", stats.URLsVisited,
		"frontier", stats.FrontierRemaining,
		"transport_errors", stats.TransportErrors,
		"non_html", stats.NonHTML)

	if len(pages) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEmptyCorpus, seed, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, seed)
	}
	return pages, err
}

// run is the coordinator loop. It alone dispatches frontier items and appends
// to the corpus; workers only process the URLs they are handed.
func (s *Spider) run(ctx context.Context, pacer *Pacer, seed string) (model.Corpus, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	// Buffered so that finished workers never block on an exiting coordinator.
	results := make(chan result, s.workers)

	var g errgroup.Group
	for range s.workers {
		g.Go(func() error {
			for u := range jobs {
				results <- result{url: u, page: s.visit(ctx, u, u == seed)}
			}
			return nil
		})
	}

	pages := make(model.Corpus, 0)
	inFlight := 0
	var runErr error

loop:
	for {
		for inFlight < s.workers && len(pages)+inFlight < s.maxPages {
			u, ok := s.frontier.pop()
			if !ok {
				break
			}
			select {
			case jobs <- u:
				inFlight++
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			}
		}
		if inFlight == 0 {
			// Frontier exhausted or cap reached.
			break
		}

		select {
		case res := <-results:
			inFlight--
			if res.page == nil {
				continue
			}
			pages = append(pages, res.page)
			s.accept(res.page)

			paused, err := pacer.Done(ctx)
			if err != nil {
				runErr = err
				break loop
			}
			if paused {
				s.mutex.Lock()
				s.stats.Pauses++
				s.mutex.Unlock()
			}
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		}
	}

	if runErr == nil {
		// The last in-flight visit may have been dropped because ctx ended.
		runErr = ctx.Err()
	}
	cancel()
	close(jobs)
	_ = g.Wait()

	s.mutex.Lock()
	s.stats.PagesCrawled = len(pages)
	s.mutex.Unlock()
	return pages, runErr
}

// accept enqueues the unseen internal links of a new corpus page.
func (s *Spider) accept(page *model.PageRecord) {
	for _, link := range page.InternalLinks {
		if s.shouldCrawl(link) {
			s.frontier.push(link)
		}
	}
	s.mutex.Lock()
	s.stats.PagesCrawled++
	s.mutex.Unlock()

	queued, _ := s.frontier.sizes()
	s.observer.PageCrawled()
	s.observer.FrontierSize(queued)
	s.logger.Debug("page crawled", "url", page.URL, "links", len(page.InternalLinks), "queued", queued)
}

// visit runs the probe, redirect, gate, fetch and parse steps for one URL.
// It returns nil when the URL is skipped.
func (s *Spider) visit(ctx context.Context, u string, isSeed bool) *model.PageRecord {
	s.count(func(st *model.CrawlStats) { st.Probes++ })

	probe, err := s.fetcher.Probe(ctx, u)
	if err != nil {
		s.skip(u, err)
		return nil
	}

	final := urlnorm.Normalize(probe.FinalURL)
	if final != u {
		if err := s.resolveRedirect(u, final, isSeed); err != nil {
			s.skip(u, err)
			return nil
		}
	}

	gateOnFetch := probe.HeadUnsupported()
	if !gateOnFetch {
		if probe.StatusCode >= http.StatusBadRequest {
			s.skip(final, fmt.Errorf("%w: probe returned %d", ErrHTTPStatus, probe.StatusCode))
			return nil
		}
		if !IsHTML(probe.ContentType) {
			s.frontier.claim(final)
			s.skip(final, fmt.Errorf("%w: %q", ErrContentTypeMismatch, probe.ContentType))
			return nil
		}
	}

	resp, err := s.fetcher.Fetch(ctx, final)
	if err != nil {
		s.skip(final, err)
		return nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.skip(final, fmt.Errorf("%w: fetch returned %d", ErrHTTPStatus, resp.StatusCode))
		return nil
	}
	if !IsHTML(resp.ContentType) {
		s.skip(final, fmt.Errorf("%w: %q", ErrContentTypeMismatch, resp.ContentType))
		return nil
	}

	// The GET may land elsewhere than the probe did.
	if fetched := urlnorm.Normalize(resp.FinalURL); fetched != final {
		if err := s.resolveRedirect(final, fetched, isSeed); err != nil {
			s.skip(final, err)
			return nil
		}
		final = fetched
	}

	return ParsePage(final, resp.Body, s.host())
}

// resolveRedirect validates the destination of a redirected frontier item and
// claims it in the visited set.
//
// Design decision: When the seed itself redirects to another host (a domain
// move, or a bare domain redirecting to a subdomain), that host becomes the
// crawled host. Any other off-host redirect is skipped.
func (s *Spider) resolveRedirect(from, to string, isSeed bool) error {
	if !urlnorm.SameHost(from, to) {
		if !isSeed {
			return fmt.Errorf("%w: %s -> %s", ErrOffsiteRedirect, from, to)
		}
		s.mutex.Lock()
		s.baseHost = urlnorm.Host(to)
		s.mutex.Unlock()
		s.logger.Info("start URL redirects to another host", "from", from, "to", to)
	}
	if !s.frontier.claim(to) {
		return fmt.Errorf("%w: %s -> %s", ErrRedirectToVisited, from, to)
	}
	return nil
}

// skip records a dropped URL.
func (s *Spider) skip(u string, err error) {
	reason := skipReason(err)
	s.count(func(st *model.CrawlStats) {
		switch {
		case errors.Is(err, ErrContentTypeMismatch):
			st.NonHTML++
		case errors.Is(err, ErrRedirectToVisited):
			st.RedirectsToVisited++
		case errors.Is(err, ErrOffsiteRedirect):
			st.OffsiteRedirects++
		case errors.Is(err, ErrHTTPStatus):
			st.HTTPErrors++
		default:
			st.TransportErrors++
		}
	})
	s.observer.Skipped(reason)
	s.logger.Debug("skipping url", "url", u, "reason", reason, "error", err)
}

func (s *Spider) count(update func(*model.CrawlStats)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	update(&s.stats)
}

func (s *Spider) host() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.baseHost
}

// Reset clears the spider's state, allowing it to be reused.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.frontier = newFrontier()
	s.stats = model.CrawlStats{}
	s.baseHost = ""
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() model.CrawlStats {
	queued, visited := s.frontier.sizes()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	stats := s.stats
	stats.URLsVisited = visited
	stats.FrontierRemaining = queued
	return stats
}
