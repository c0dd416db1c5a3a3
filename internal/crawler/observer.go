package crawler

import "time"

// Observer receives crawl events, typically to export metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	// PageCrawled is called once per record appended to the corpus.
	PageCrawled()
	// Skipped is called when a URL is dropped; reason is a short label
	// such as "transport" or "non_html".
	Skipped(reason string)
	// Request is called after every HTTP request with its method, outcome
	// label and duration.
	Request(method, outcome string, elapsed time.Duration)
	// FrontierSize reports the number of queued URLs.
	FrontierSize(n int)
}

type nopObserver struct{}

func (nopObserver) PageCrawled()                          {}
func (nopObserver) Skipped(string)                        {}
func (nopObserver) Request(string, string, time.Duration) {}
func (nopObserver) FrontierSize(int)                      {}
