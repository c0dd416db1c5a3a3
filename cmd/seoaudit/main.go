// Package main provides the entry point for the seoaudit CLI.
//
// seoaudit crawls a website from a start URL, checks its links and sitemap,
// and reports on-page SEO issues such as missing titles, duplicate
// descriptions or broken internal links.
//
// Usage:
//
//	seoaudit audit https://example.com/
//	seoaudit compare example.com
//
// See --help for all available options.
package main

// main is the entry point for seoaudit.
func main() {
	Execute()
}
