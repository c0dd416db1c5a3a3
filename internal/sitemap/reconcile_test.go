package sitemap

import (
	"context"
	"slices"
	"testing"

	"github.com/nao1215/seoaudit/internal/model"
)

// stubChecker flags every URL in broken and records what it was asked.
type stubChecker struct {
	broken map[string]int
	gotURL []string
	budget int
	source string
}

func (s *stubChecker) Check(_ context.Context, urls []string, budget int, source string) ([]model.LivenessResult, error) {
	s.gotURL, s.budget, s.source = urls, budget, source
	var out []model.LivenessResult
	for _, u := range urls[:min(budget, len(urls))] {
		if code, ok := s.broken[u]; ok {
			out = append(out, model.LivenessResult{URL: u, StatusCode: code, Source: source})
		}
	}
	return out, nil
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	crawled := NewSet("https://example.com/a", "https://example.com/b", "https://example.com/c")
	listed := NewSet("https://www.example.com/b/", "https://example.com/c", "https://example.com/d")

	checker := &stubChecker{broken: map[string]int{"https://example.com/d": 404}}
	diff, err := Reconcile(context.Background(), crawled, listed, 50, checker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(diff.SitemapOnly, []string{"https://example.com/d"}) {
		t.Errorf("SitemapOnly = %q", diff.SitemapOnly)
	}
	if !slices.Equal(diff.CrawledOnly, []string{"https://example.com/a"}) {
		t.Errorf("CrawledOnly = %q", diff.CrawledOnly)
	}
	if diff.SitemapSize != 3 {
		t.Errorf("SitemapSize = %d", diff.SitemapSize)
	}
	if len(diff.SitemapBroken) != 1 || diff.SitemapBroken[0].URL != "https://example.com/d" {
		t.Errorf("SitemapBroken = %+v", diff.SitemapBroken)
	}
	if checker.source != model.SourceSitemap || checker.budget != 50 {
		t.Errorf("checker called with source %q budget %d", checker.source, checker.budget)
	}
	want := []string{"https://www.example.com/b/", "https://example.com/c", "https://example.com/d"}
	if !slices.Equal(checker.gotURL, want) {
		t.Errorf("checker received %q, want %q", checker.gotURL, want)
	}
}

func TestReconcileProbesListedForm(t *testing.T) {
	t.Parallel()

	// The query and www. prefix are dropped for comparison only.
	listed := NewSet("https://www.example.com/item?id=5", "https://example.com/item?id=6")
	crawled := NewSet("https://example.com/item")

	checker := &stubChecker{broken: map[string]int{"https://example.com/item": 404}}
	diff, err := Reconcile(context.Background(), crawled, listed, 10, checker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(checker.gotURL, []string{"https://www.example.com/item?id=5"}) {
		t.Errorf("checker received %q", checker.gotURL)
	}
	if len(diff.SitemapBroken) != 0 {
		t.Errorf("listed URL wrongly reported broken: %+v", diff.SitemapBroken)
	}
	if len(diff.SitemapOnly) != 0 {
		t.Errorf("SitemapOnly = %q", diff.SitemapOnly)
	}
}

func TestReconcileWithoutChecker(t *testing.T) {
	t.Parallel()

	diff, err := Reconcile(context.Background(), NewSet("https://example.com/"), NewSet(), 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.SitemapBroken == nil || len(diff.SitemapBroken) != 0 {
		t.Errorf("expected empty broken list, got %v", diff.SitemapBroken)
	}
	if !slices.Equal(diff.CrawledOnly, []string{"https://example.com/"}) {
		t.Errorf("CrawledOnly = %q", diff.CrawledOnly)
	}
}
