// Package model defines the core data structures used throughout seoaudit.
//
// This package contains the following main types:
//   - PageRecord: One crawled HTML page with its extracted SEO signals
//   - LivenessResult: A failed link probe
//   - SitemapDiff: Differences between a sitemap and the crawled corpus
//   - Issue: A single rule violation, described by the issue catalogue
//   - AuditReport: The full result of auditing one site
//   - Summary: A condensed, severity-counted view of an AuditReport
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The crawler, audit, report and database packages all exchange
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
