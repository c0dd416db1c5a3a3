package audit

import (
	"github.com/nao1215/seoaudit/internal/model"
)

// BrokenLinkIssues converts liveness results of page links into issues.
// Each issue lists the crawled pages that link to the broken URL.
// Results of the sitemap source are ignored; see SitemapIssues.
func BrokenLinkIssues(results []model.LivenessResult, corpus model.Corpus) []model.Issue {
	issues := make([]model.Issue, 0, len(results))
	for _, r := range results {
		var t model.IssueType
		switch r.Source {
		case model.SourceInternalLinks:
			t = model.IssueBrokenInternal
		case model.SourceExternalLinks:
			t = model.IssueBrokenExternal
		default:
			continue
		}
		issue := model.NewIssue(t, r.URL)
		issue.StatusCode = r.StatusCode
		issue.Error = r.Error
		issue.Source = r.Source
		issue.FoundOn = corpus.LinkSources(r.URL)
		issues = append(issues, issue)
	}
	return issues
}

// SitemapIssues converts a sitemap reconciliation into issues.
func SitemapIssues(diff *model.SitemapDiff) []model.Issue {
	if diff == nil {
		return nil
	}

	issues := make([]model.Issue, 0, len(diff.SitemapBroken)+len(diff.SitemapOnly)+len(diff.CrawledOnly))
	for _, r := range diff.SitemapBroken {
		issue := model.NewIssue(model.IssueBrokenSitemapURLs, r.URL)
		issue.StatusCode = r.StatusCode
		issue.Error = r.Error
		issue.Source = r.Source
		issues = append(issues, issue)
	}
	for _, u := range diff.SitemapOnly {
		issues = append(issues, model.NewIssue(model.IssueSitemapOnlyURLs, u))
	}
	for _, u := range diff.CrawledOnly {
		issues = append(issues, model.NewIssue(model.IssueNotInSitemap, u))
	}
	return issues
}
