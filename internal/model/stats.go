package model

// CrawlStats counts what happened during a crawl.
// Recoverable failures are surfaced here rather than as errors.
type CrawlStats struct {
	// PagesCrawled is the corpus size.
	PagesCrawled int `json:"pages_crawled"`

	// URLsVisited is the size of the visited set (enqueued or processed URLs).
	URLsVisited int `json:"urls_visited"`

	// FrontierRemaining is the number of URLs still queued when the crawl ended.
	FrontierRemaining int `json:"frontier_remaining"`

	// Probes is the number of probe requests issued.
	Probes int `json:"probes"`

	// TransportErrors counts network and timeout failures.
	TransportErrors int `json:"transport_errors"`

	// HTTPErrors counts responses with a status of 400 or above.
	HTTPErrors int `json:"http_errors"`

	// NonHTML counts resources skipped by the content-type gate.
	NonHTML int `json:"non_html"`

	// RedirectsToVisited counts redirects whose destination was already handled.
	RedirectsToVisited int `json:"redirects_to_visited"`

	// OffsiteRedirects counts redirects leaving the crawled host.
	OffsiteRedirects int `json:"offsite_redirects"`

	// Pauses counts politeness pauses.
	Pauses int `json:"pauses"`
}
