package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStartURL is returned when the start URL is not an absolute
	// http or https URL.
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrEmptyCorpus is returned when a crawl finished without a single page.
	// Callers must treat it as a failed crawl rather than a clean site.
	ErrEmptyCorpus = errors.New("crawl produced no pages")

	// ErrHTTPStatus is reported for responses with a status of 400 or above.
	ErrHTTPStatus = errors.New("http error status")

	// ErrContentTypeMismatch is reported for resources that are not HTML.
	ErrContentTypeMismatch = errors.New("content is not html")

	// ErrRedirectToVisited is reported when a redirect lands on a URL that
	// was already enqueued or processed.
	ErrRedirectToVisited = errors.New("redirect target already visited")

	// ErrOffsiteRedirect is reported when a redirect leaves the crawled host.
	ErrOffsiteRedirect = errors.New("redirect leaves the crawled host")

	// ErrTooManyRedirects is reported when a redirect chain exceeds the
	// configured number of hops.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// TransportError is a network level failure reaching a URL, timeouts
// included. It is always recoverable: the URL is skipped.
type TransportError struct {
	// Op is the request kind ("probe" or "fetch").
	Op string
	// URL is the requested URL.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// skipReason maps a per-URL failure to a short label for logs and metrics.
func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrContentTypeMismatch):
		return "non_html"
	case errors.Is(err, ErrRedirectToVisited):
		return "redirect_to_visited"
	case errors.Is(err, ErrOffsiteRedirect):
		return "offsite_redirect"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, ErrTooManyRedirects):
		return "too_many_redirects"
	default:
		return "transport"
	}
}
