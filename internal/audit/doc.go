// Package audit turns a crawled corpus into SEO issues.
//
// The content rules (titles, meta descriptions, headings, word count,
// duplicate content, image alt text, canonicals and hreflang) are pure
// functions of the corpus and the configured thresholds. Link and sitemap
// issues are derived from liveness results and the sitemap reconciliation.
// The optional image checks (file size and EXIF metadata) make network
// requests and live in ImageChecker.
package audit
