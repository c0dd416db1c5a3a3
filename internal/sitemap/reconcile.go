package sitemap

import (
	"context"

	"github.com/nao1215/seoaudit/internal/model"
)

// LivenessChecker probes a budgeted list of URLs and returns the failures.
// *liveness.Checker satisfies it.
type LivenessChecker interface {
	Check(ctx context.Context, urls []string, budget int, source string) ([]model.LivenessResult, error)
}

// Reconcile compares the crawled set with the sitemap set.
//
// SitemapOnly and CrawledOnly are sorted. SitemapBroken holds the sitemap URLs
// that failed the liveness check, probed as listed and in sitemap order
// within budget. A nil
// checker skips the liveness part. The error is non-nil only when ctx ended
// during the liveness check; the diff is returned regardless.
func Reconcile(ctx context.Context, crawled, listed *Set, budget int, checker LivenessChecker) (*model.SitemapDiff, error) {
	diff := &model.SitemapDiff{
		SitemapSize:   listed.Len(),
		SitemapOnly:   listed.Difference(crawled),
		CrawledOnly:   crawled.Difference(listed),
		SitemapBroken: []model.LivenessResult{},
	}
	if checker == nil || listed.Len() == 0 {
		return diff, nil
	}

	broken, err := checker.Check(ctx, listed.Locations(), budget, model.SourceSitemap)
	if broken != nil {
		diff.SitemapBroken = broken
	}
	return diff, err
}
