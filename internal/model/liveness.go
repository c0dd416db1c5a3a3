package model

// Link sources recorded on liveness results.
const (
	// SourceInternalLinks marks links found in crawled page content.
	SourceInternalLinks = "internal_links"
	// SourceExternalLinks marks off-site links found in crawled page content.
	SourceExternalLinks = "external_links"
	// SourceSitemap marks URLs listed in the sitemap.
	SourceSitemap = "sitemap"
)

// LivenessResult is a flagged link probe: either the server answered with a
// status of 400 or above, or the request failed before a response arrived.
// Healthy URLs never produce a LivenessResult.
type LivenessResult struct {
	// URL is the probed URL.
	URL string `json:"url"`

	// StatusCode is the final HTTP status. Zero when Error is set.
	StatusCode int `json:"status_code,omitempty"`

	// Error describes the transport failure, if any.
	Error string `json:"error,omitempty"`

	// Source tells which subsystem asked for the check.
	Source string `json:"source"`
}

// Outcome returns the status code or the error text as a display string.
func (r LivenessResult) Outcome() string {
	if r.Error != "" {
		return r.Error
	}
	return statusText(r.StatusCode)
}

// SitemapDiff compares the sitemap inventory with the crawled corpus.
// All URLs are normalized and sorted.
type SitemapDiff struct {
	// SitemapURL is where the sitemap was read from.
	SitemapURL string `json:"sitemap_url"`

	// SitemapSize is the number of unique URLs in the sitemap.
	SitemapSize int `json:"sitemap_size"`

	// SitemapOnly lists sitemap URLs that the crawl never reached.
	SitemapOnly []string `json:"sitemap_only"`

	// CrawledOnly lists crawled URLs missing from the sitemap.
	CrawledOnly []string `json:"crawled_only"`

	// SitemapBroken lists sitemap URLs that failed the liveness check.
	SitemapBroken []LivenessResult `json:"sitemap_broken"`
}
