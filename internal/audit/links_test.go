package audit

import (
	"slices"
	"testing"

	"github.com/nao1215/seoaudit/internal/model"
)

func TestBrokenLinkIssues(t *testing.T) {
	t.Parallel()

	home := goodPage("https://example.com/")
	home.InternalLinks = []string{"https://example.com/gone"}
	home.ExternalLinks = []string{"https://other.example.org/"}
	about := goodPage("https://example.com/about")
	about.InternalLinks = []string{"https://example.com/gone"}

	results := []model.LivenessResult{
		{URL: "https://example.com/gone", StatusCode: 404, Source: model.SourceInternalLinks},
		{URL: "https://other.example.org/", Error: "timeout", Source: model.SourceExternalLinks},
		{URL: "https://example.com/listed", StatusCode: 500, Source: model.SourceSitemap},
	}

	issues := BrokenLinkIssues(results, model.Corpus{home, about})
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}

	internal := issues[0]
	if internal.Type != model.IssueBrokenInternal || internal.StatusCode != 404 {
		t.Errorf("unexpected internal issue: %+v", internal)
	}
	if want := []string{home.URL, about.URL}; !slices.Equal(internal.FoundOn, want) {
		t.Errorf("FoundOn = %v, want %v", internal.FoundOn, want)
	}

	external := issues[1]
	if external.Type != model.IssueBrokenExternal || external.Error != "timeout" {
		t.Errorf("unexpected external issue: %+v", external)
	}
	if want := []string{home.URL}; !slices.Equal(external.FoundOn, want) {
		t.Errorf("FoundOn = %v, want %v", external.FoundOn, want)
	}
}

func TestSitemapIssues(t *testing.T) {
	t.Parallel()

	if issues := SitemapIssues(nil); issues != nil {
		t.Errorf("expected nil for a missing diff, got %+v", issues)
	}

	diff := &model.SitemapDiff{
		SitemapOnly: []string{"https://example.com/orphan"},
		CrawledOnly: []string{"https://example.com/a", "https://example.com/b"},
		SitemapBroken: []model.LivenessResult{
			{URL: "https://example.com/old", StatusCode: 410, Source: model.SourceSitemap},
		},
	}

	issues := SitemapIssues(diff)
	counts := make(map[model.IssueType]int)
	for _, i := range issues {
		counts[i.Type]++
	}
	want := map[model.IssueType]int{
		model.IssueBrokenSitemapURLs: 1,
		model.IssueSitemapOnlyURLs:   1,
		model.IssueNotInSitemap:      2,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s: got %d issues, want %d", typ, counts[typ], n)
		}
	}
	if issues[0].StatusCode != 410 || issues[0].Source != model.SourceSitemap {
		t.Errorf("unexpected broken sitemap issue: %+v", issues[0])
	}
}
