package liveness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/seoaudit/internal/model"
)

// Defaults for a Checker.
const (
	// DefaultTimeout bounds a single liveness probe.
	DefaultTimeout = 5 * time.Second

	// DefaultConcurrency is the number of probes in flight at once.
	DefaultConcurrency = 4

	// DefaultBudget is the default number of URLs checked per source.
	DefaultBudget = 100

	// defaultMaxRedirects is the number of redirect hops followed per probe.
	defaultMaxRedirects = 10

	// defaultUserAgent matches the crawler's user agent.
	defaultUserAgent = "SEO-Audit-Bot/6.0 (+https://github.com/nao1215/seoaudit)"
)

// Observer is notified of every completed probe.
// result is "ok", "http_error" or "transport_error".
type Observer interface {
	LivenessChecked(source, result string)
}

type nopObserver struct{}

func (nopObserver) LivenessChecked(string, string) {}

// Probe is the outcome of a HEAD request.
type Probe struct {
	// FinalURL is the URL after following redirects.
	FinalURL string
	// StatusCode is the final response status.
	StatusCode int
	// ContentType is the declared Content-Type header.
	ContentType string
	// ContentLength is the declared body size, -1 when unknown.
	ContentLength int64
}

// Checker probes URLs for HTTP health.
type Checker struct {
	client       *http.Client
	timeout      time.Duration
	concurrency  int
	maxRedirects int
	userAgent    string
	limiter      *rate.Limiter
	logger       *slog.Logger
	observer     Observer
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConcurrency sets how many probes run at once.
// 1 probes strictly in input order.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxRedirects sets how many redirect hops a probe follows.
func WithMaxRedirects(n int) Option {
	return func(c *Checker) {
		if n >= 0 {
			c.maxRedirects = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit limits probes to rps per second.
// A non-positive rps removes the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Checker) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the observer notified of each probe.
func WithObserver(o Observer) Option {
	return func(c *Checker) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewChecker creates a Checker on top of client. The client is copied so the
// redirect policy does not leak to other users of it.
func NewChecker(client *http.Client, opts ...Option) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	c := &Checker{
		timeout:      DefaultTimeout,
		concurrency:  DefaultConcurrency,
		maxRedirects: defaultMaxRedirects,
		userAgent:    defaultUserAgent,
		logger:       slog.Default(),
		observer:     nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	cp := *client
	cp.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
		if len(via) > c.maxRedirects {
			return fmt.Errorf("stopped after %d redirects", c.maxRedirects)
		}
		return nil
	}
	c.client = &cp
	return c
}

// Select deduplicates urls in first-seen order, drops empty entries and
// truncates the result to budget. A budget of zero or less selects nothing.
func Select(urls []string, budget int) []string {
	if budget <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(urls))
	selected := make([]string, 0, min(len(urls), budget))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		selected = append(selected, u)
		if len(selected) == budget {
			break
		}
	}
	return selected
}

// Check probes at most budget unique URLs and returns the flagged ones in
// input order, each tagged with source. URLs beyond the budget are never
// requested.
//
// The error is non-nil only when ctx ended; the results gathered until then
// are still returned. A cancelled probe is never reported as a broken link.
func (c *Checker) Check(ctx context.Context, urls []string, budget int, source string) ([]model.LivenessResult, error) {
	targets := Select(urls, budget)
	if len(targets) == 0 {
		return []model.LivenessResult{}, nil
	}

	c.logger.Debug("checking links", "source", source, "candidates", len(urls), "checked", len(targets))

	flagged := make([]*model.LivenessResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, ok := c.checkOne(gctx, target, source)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if ok {
				flagged[i] = res
			}
			return nil
		})
	}
	err := g.Wait()

	results := make([]model.LivenessResult, 0)
	for _, r := range flagged {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, err
}

// checkOne probes u and reports whether it is flagged.
func (c *Checker) checkOne(ctx context.Context, u, source string) (*model.LivenessResult, bool) {
	probe, err := c.Head(ctx, u)
	if err == nil && (probe.StatusCode == http.StatusMethodNotAllowed || probe.StatusCode == http.StatusNotImplemented) {
		probe, err = c.get(ctx, u)
	}

	switch {
	case err != nil:
		c.observer.LivenessChecked(source, "transport_error")
		c.logger.Debug("link unreachable", "url", u, "source", source, "error", err)
		return &model.LivenessResult{URL: u, Error: err.Error(), Source: source}, true
	case probe.StatusCode >= http.StatusBadRequest:
		c.observer.LivenessChecked(source, "http_error")
		c.logger.Debug("broken link", "url", u, "source", source, "status", probe.StatusCode)
		return &model.LivenessResult{URL: u, StatusCode: probe.StatusCode, Source: source}, true
	default:
		c.observer.LivenessChecked(source, "ok")
		return nil, false
	}
}

// Head issues a HEAD request for u, following redirects, within the
// checker's timeout.
func (c *Checker) Head(ctx context.Context, u string) (*Probe, error) {
	return c.do(ctx, http.MethodHead, u)
}

// get is the fallback for servers that refuse HEAD. The body is discarded.
func (c *Checker) get(ctx context.Context, u string) (*Probe, error) {
	return c.do(ctx, http.MethodGet, u)
}

func (c *Checker) do(ctx context.Context, method, u string) (*Probe, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024)) //nolint:errcheck // drained for connection reuse

	return &Probe{
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
