// Package config provides configuration structures and utilities for seoaudit.
// It defines crawl limits, politeness and timeouts, which checks run after
// the crawl, audit thresholds, report output and the per-site settings read
// from the .seoaudit file.
package config
