// Package httpclient builds the *http.Client shared by the crawler, the link
// checker and the sitemap fetcher.
//
// The client optionally routes through a SOCKS5 or HTTP proxy and injects
// site-specific headers and cookies into every request, redirects included.
// Request timeouts and the redirect policy are left to the callers, which need
// different limits for probes, fetches and liveness checks on the same pool.
package httpclient
