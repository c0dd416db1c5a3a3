package sitemap

import "errors"

var (
	// ErrSitemapUnavailable wraps any failure to fetch or parse a sitemap.
	ErrSitemapUnavailable = errors.New("sitemap unavailable")

	// ErrEmptySitemap is returned when a sitemap was read but listed no URL.
	ErrEmptySitemap = errors.New("sitemap lists no URLs")

	// errUnknownFormat is returned for XML documents that are neither a
	// urlset nor a sitemapindex.
	errUnknownFormat = errors.New("unknown sitemap format")
)
