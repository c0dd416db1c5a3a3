package crawler

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Default request settings.
const (
	// DefaultProbeTimeout bounds a HEAD probe.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultFetchTimeout bounds a full GET, body included.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxRedirects is the number of redirect hops followed per request.
	DefaultMaxRedirects = 10

	// DefaultMaxBodySize limits how much of a page body is read.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// DefaultUserAgent identifies the crawler to servers.
	DefaultUserAgent = "SEO-Audit-Bot/6.0 (+https://github.com/nao1215/seoaudit)"
)

// ProbeResult is the outcome of a HEAD probe.
type ProbeResult struct {
	// FinalURL is the URL after following redirects.
	FinalURL string
	// StatusCode is the final response status.
	StatusCode int
	// ContentType is the declared Content-Type header.
	ContentType string
	// ContentLength is the declared body size, -1 when unknown.
	ContentLength int64
}

// HeadUnsupported reports whether the server refused the HEAD method itself.
// The content-type gate then has to wait for the GET response.
func (p *ProbeResult) HeadUnsupported() bool {
	return p.StatusCode == http.StatusMethodNotAllowed || p.StatusCode == http.StatusNotImplemented
}

// Response is a fetched page body.
type Response struct {
	// FinalURL is the URL after following redirects.
	FinalURL string
	// StatusCode is the final response status.
	StatusCode int
	// ContentType is the declared Content-Type header.
	ContentType string
	// Body is the decompressed body converted to UTF-8, capped at the
	// fetcher's maximum body size.
	Body []byte
}

// Fetcher performs the probe and fetch requests of a crawl.
//
// Design decision: The fetcher owns its own copy of the http.Client so it can
// install a redirect policy without affecting the caller's client. Timeouts
// are applied per request through the context rather than Client.Timeout,
// because probes and fetches need different limits on the same connection pool.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodySize  int64
	probeTimeout time.Duration
	fetchTimeout time.Duration
	maxRedirects int
	limiter      *rate.Limiter
	observer     Observer
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProbeTimeout sets the HEAD probe timeout.
func WithProbeTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.probeTimeout = d
		}
	}
}

// WithFetchTimeout sets the GET fetch timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.fetchTimeout = d
		}
	}
}

// WithMaxRedirects sets how many redirect hops a single request may follow.
// Zero disables following redirects entirely.
func WithMaxRedirects(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps removes the limit.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithFetchObserver sets the observer notified after each request.
func WithFetchObserver(o Observer) FetcherOption {
	return func(f *Fetcher) {
		if o != nil {
			f.observer = o
		}
	}
}

// NewFetcher creates a Fetcher on top of client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		userAgent:    DefaultUserAgent,
		maxBodySize:  DefaultMaxBodySize,
		probeTimeout: DefaultProbeTimeout,
		fetchTimeout: DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		observer:     nopObserver{},
	}
	for _, opt := range opts {
		opt(f)
	}

	c := *client
	c.CheckRedirect = f.checkRedirect
	f.client = &c
	return f
}

// checkRedirect stops redirect chains longer than maxRedirects.
func (f *Fetcher) checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return fmt.Errorf("%w: stopped after %d hops", ErrTooManyRedirects, f.maxRedirects)
	}
	return nil
}

// Probe issues a HEAD request for rawURL, following redirects.
// Any network failure, timeout or redirect overflow is a *TransportError.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	resp, err := f.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return nil, &TransportError{Op: "probe", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	return &ProbeResult{
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// Fetch issues a GET request for rawURL and returns the decoded body.
// Error statuses are returned as a Response, not as an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	resp, err := f.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, &TransportError{Op: "fetch", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	out := &Response{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return out, nil
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, &TransportError{Op: "fetch", URL: rawURL, Err: err}
	}
	out.Body = toUTF8(body, out.ContentType)
	return out, nil
}

// do sends one request, waiting for the rate limiter first.
func (f *Fetcher) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if method == http.MethodGet {
		req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		f.observer.Request(method, "error", elapsed)
		return nil, err
	}
	f.observer.Request(method, statusClass(resp.StatusCode), elapsed)
	return resp, nil
}

// readBody decompresses the response body and caps it at maxBodySize.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
		if err != nil {
			return nil, err
		}
		reader = inflate(raw)
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// inflate handles both zlib-wrapped and raw deflate streams, since servers
// disagree on what "deflate" means.
func inflate(raw []byte) io.Reader {
	if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
		return zr
	}
	return flate.NewReader(bytes.NewReader(raw))
}

// toUTF8 converts body to UTF-8 using the declared or sniffed charset.
func toUTF8(body []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || enc == nil {
		return body
	}
	if !certain && utf8.Valid(body) {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// IsHTML reports whether a Content-Type header value declares an HTML document.
func IsHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
