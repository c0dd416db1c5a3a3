// Package urlnorm reduces URLs to the comparison key used for crawl identity.
package urlnorm
