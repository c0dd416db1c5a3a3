package sitemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Defaults for a Fetcher.
const (
	// DefaultTimeout bounds a single sitemap download.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxDepth limits how deep sitemap indexes may nest.
	DefaultMaxDepth = 3

	// DefaultMaxSize is the largest sitemap body read, after decompression.
	DefaultMaxSize int64 = 50 * 1024 * 1024

	defaultUserAgent = "SEO-Audit-Bot/6.0 (+https://github.com/nao1215/seoaudit)"
)

// Fetcher downloads and parses sitemaps.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxDepth  int
	maxSize   int64
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-download timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxDepth sets how many levels of sitemap indexes are followed.
func WithMaxDepth(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxDepth = n
		}
	}
}

// WithMaxSize sets the largest body read per sitemap.
func WithMaxSize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher using client.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:    client,
		timeout:   DefaultTimeout,
		maxDepth:  DefaultMaxDepth,
		maxSize:   DefaultMaxSize,
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the sitemap at sitemapURL, follows sitemap indexes and
// returns the set of listed page URLs.
//
// It never returns a nil Set. On failure the Set is empty and the error wraps
// ErrSitemapUnavailable; a sitemap without URLs yields ErrEmptySitemap.
// A broken child of a sitemap index is logged and skipped as long as another
// part of the index produced URLs.
func (f *Fetcher) Fetch(ctx context.Context, sitemapURL string) (*Set, error) {
	set := NewSet()
	seen := make(map[string]bool)

	if err := f.collect(ctx, sitemapURL, 0, set, seen); err != nil {
		return NewSet(), fmt.Errorf("%w: %w", ErrSitemapUnavailable, err)
	}
	if set.Len() == 0 {
		return set, fmt.Errorf("%w: %s", ErrEmptySitemap, sitemapURL)
	}
	return set, nil
}

// collect adds the URLs of one sitemap (and its children) to set.
func (f *Fetcher) collect(ctx context.Context, sitemapURL string, depth int, set *Set, seen map[string]bool) error {
	if seen[sitemapURL] {
		return nil
	}
	seen[sitemapURL] = true

	body, err := f.download(ctx, sitemapURL)
	if err != nil {
		return err
	}
	doc, err := Parse(body, f.maxSize)
	if err != nil {
		return fmt.Errorf("%s: %w", sitemapURL, err)
	}

	for _, u := range doc.URLs {
		set.Add(u)
	}
	if !doc.IsIndex() {
		return nil
	}

	if depth+1 >= f.maxDepth {
		f.logger.Warn("sitemap index nested too deeply, children skipped",
			"sitemap", sitemapURL, "max_depth", f.maxDepth)
		return nil
	}

	var errs []error
	for _, child := range doc.Sitemaps {
		if err := f.collect(ctx, child, depth+1, set, seen); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			f.logger.Warn("skipping child sitemap", "sitemap", child, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(doc.Sitemaps) && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// download fetches one sitemap body.
func (f *Fetcher) download(ctx context.Context, sitemapURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sitemap request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: status %d", sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sitemapURL, err)
	}
	return body, nil
}
