// Package liveness checks whether a bounded set of URLs still resolves.
//
// A Checker deduplicates its input, truncates it to a budget and probes each
// remaining URL with a HEAD request. Only failures are reported: a status of
// 400 or above, or a transport error. The same Checker serves broken-link
// auditing of crawled pages and of sitemap entries; the source tag passed to
// Check tells the two apart in the results.
package liveness
