// Package crawler provides the breadth-first crawl engine of seoaudit.
//
// # Architecture
//
// The crawler package is designed around the Spider type, which owns the
// frontier queue and the visited set. Each frontier item goes through the
// same state machine:
//
//  1. Probe the URL with a HEAD request
//  2. Resolve redirects to a normalized destination
//  3. Gate on the declared content type, skipping non-HTML resources
//  4. Fetch and decode the body with a GET request
//  5. Parse the body into a model.PageRecord
//  6. Append the record and enqueue its unseen internal links
//
// Design decision: URLs are marked visited when they are enqueued, not when
// they are dequeued. Two pages linking to the same URL can then never queue it
// twice, and workers never need to agree on who fetches what.
//
// # Components
//
//   - Spider: The crawl engine and coordinator of the worker pool
//   - Fetcher: Probe and fetch requests with timeouts, redirect limit and decoding
//   - Parser: HTML parser that extracts the SEO signals of a page
//   - Pacer: Randomized politeness pauses
//
// # Failure handling
//
// A single URL failing never aborts a crawl. Transport errors, error statuses,
// non-HTML resources and redirects to already handled pages are counted in
// model.CrawlStats and logged at debug level. The only failure reported to
// the caller is a crawl that produced no page at all (ErrEmptyCorpus).
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient, crawler.WithMaxPages(200))
//	pages, err := spider.Crawl(ctx, "https://example.com")
package crawler
