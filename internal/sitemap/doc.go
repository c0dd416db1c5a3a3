// Package sitemap reads a site's declared URL inventory and reconciles it with
// the crawled corpus.
//
// Supported inputs are XML <urlset> documents, <sitemapindex> documents that
// point at further sitemaps, gzip-compressed variants of both, and plain-text
// sitemaps with one URL per line. Every URL is normalized with the same rules
// the crawler applies, so that reconciliation compares like with like.
//
// A sitemap that cannot be fetched, cannot be parsed or lists no URL is not an
// audit failure: Fetch reports ErrSitemapUnavailable or ErrEmptySitemap and
// the caller skips the sitemap checks with a warning.
package sitemap
