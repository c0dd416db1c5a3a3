package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/liveness"
)

var (
	_ crawler.Observer  = (*Recorder)(nil)
	_ liveness.Observer = (*Recorder)(nil)
)

func scrape(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.PageCrawled()
	rec.PageCrawled()
	rec.Skipped("non_html")
	rec.Request("HEAD", "2xx", 20*time.Millisecond)
	rec.Request("GET", "2xx", 40*time.Millisecond)
	rec.Request("GET", "4xx", 10*time.Millisecond)
	rec.FrontierSize(7)
	rec.LivenessChecked("internal_links", "ok")
	rec.LivenessChecked("sitemap", "http_error")
	rec.AuditFinished("success", 3*time.Second)
	rec.IssuesFound("example.com", "HIGH", 4)

	status, body := scrape(t, NewServer("", rec, nil).Handler(), "/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	for _, want := range []string{
		"seoaudit_pages_crawled_total 2",
		`seoaudit_crawl_skipped_total{reason="non_html"} 1`,
		`seoaudit_http_requests_total{method="GET",outcome="2xx"} 1`,
		`seoaudit_http_requests_total{method="GET",outcome="4xx"} 1`,
		`seoaudit_http_request_duration_seconds_count{method="GET"} 2`,
		"seoaudit_frontier_size 7",
		`seoaudit_liveness_checks_total{result="ok",source="internal_links"} 1`,
		`seoaudit_liveness_checks_total{result="http_error",source="sitemap"} 1`,
		`seoaudit_audits_total{status="success"} 1`,
		"seoaudit_audit_duration_seconds_count 1",
		`seoaudit_issues{severity="HIGH",site="example.com"} 4`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	t.Parallel()

	a, b := NewRecorder(), NewRecorder()
	a.PageCrawled()

	_, body := scrape(t, NewServer("", b, nil).Handler(), "/metrics")
	if strings.Contains(body, "seoaudit_pages_crawled_total 1") {
		t.Error("recorders share state")
	}
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	rec.PageCrawled()
	rec.Skipped("transport")
	rec.Request("GET", "2xx", time.Millisecond)
	rec.FrontierSize(1)
	rec.LivenessChecked("sitemap", "ok")
	rec.AuditFinished("failed", time.Second)
	rec.IssuesFound("example.com", "LOW", 1)

	if rec.Registry() != nil {
		t.Error("nil recorder must have no registry")
	}

	h := NewServer("", rec, nil).Handler()
	if status, _ := scrape(t, h, "/metrics"); status != http.StatusNotFound {
		t.Errorf("expected 404 for /metrics without recorder, got %d", status)
	}
	if status, body := scrape(t, h, "/healthz"); status != http.StatusOK || body != "ok\n" {
		t.Errorf("unexpected health response %d %q", status, body)
	}
}

func TestServerLifecycle(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.PageCrawled()

	srv := NewServer("127.0.0.1:0", rec, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	t.Run("bind error is returned", func(t *testing.T) {
		t.Parallel()
		if err := NewServer("127.0.0.1:-1", rec, nil).Start(); err == nil {
			t.Error("expected error for invalid address")
		}
	})

	t.Run("shutdown before start", func(t *testing.T) {
		t.Parallel()
		if err := NewServer(":0", rec, nil).Shutdown(context.Background()); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})
}
