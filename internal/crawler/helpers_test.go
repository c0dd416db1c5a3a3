package crawler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// zeroRand makes politeness pauses deterministic: every draw returns 0.
type zeroRand struct{}

func (zeroRand) Int64N(int64) int64 { return 0 }

// maxRand always draws the largest value of the range.
type maxRand struct{}

func (maxRand) Int64N(n int64) int64 { return n - 1 }

// testSite serves static HTML pages and counts requests per method and path.
type testSite struct {
	server *httptest.Server
	mu     sync.Mutex
	hits   map[string]int
}

func (s *testSite) count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// newTestSite starts a server for pages (path -> HTML body). Extra handlers
// take precedence over pages. Unknown paths return 404.
func newTestSite(t *testing.T, pages map[string]string, extra map[string]http.HandlerFunc) *testSite {
	t.Helper()

	site := &testSite{hits: make(map[string]int)}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.hits[r.Method+" "+r.URL.Path]++
		site.mu.Unlock()

		if h, ok := extra[r.URL.Path]; ok {
			h(w, r)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body) //nolint:errcheck // test handler
	}))
	t.Cleanup(site.server.Close)
	return site
}

// newTestSpider returns a spider without politeness pauses or log output.
func newTestSpider(client *http.Client, opts ...SpiderOption) *Spider {
	base := []SpiderOption{
		WithPoliteness(Politeness{}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewSpider(client, append(base, opts...)...)
}
