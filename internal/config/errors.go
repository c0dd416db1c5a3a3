package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no start URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a start URL or use --list")

	// ErrInvalidStartURL is returned when a start URL is not an absolute
	// http or https URL.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http or https URL")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWorkers is returned when the crawl worker count or the
	// liveness concurrency is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when a probe, fetch or liveness timeout
	// is not positive, or when the overall audit timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRedirects is returned when the redirect limit is negative.
	ErrInvalidRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidPoliteness is returned when the pause window or the pause
	// length range is inverted or negative.
	ErrInvalidPoliteness = errors.New("invalid politeness: ranges must be non-negative and min <= max")

	// ErrInvalidBudget is returned when the liveness budget is negative.
	// Zero is valid and disables link checking.
	ErrInvalidBudget = errors.New("invalid liveness budget: must be non-negative")

	// ErrInvalidRateLimit is returned when requests per second is negative.
	// Zero means unlimited.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidOutputFormat is returned for an unknown report format.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be one of text, json, markdown, xlsx, csv")

	// ErrInvalidProxy is returned when the proxy URL cannot be used.
	ErrInvalidProxy = errors.New("invalid proxy URL")

	// ErrInvalidThreshold is returned when an audit threshold is negative
	// or a min/max pair is inverted.
	ErrInvalidThreshold = errors.New("invalid audit threshold")
)
