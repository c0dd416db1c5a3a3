package model

import "strings"

// PageRecord represents one successfully fetched, HTML-typed page.
// It is created once by the page parser and is not modified afterwards.
//
// Design decision: Every URL held by a PageRecord except image sources is
// already normalized. Rules, liveness checks and sitemap reconciliation then
// compare plain strings without re-deriving identity.
type PageRecord struct {
	// URL is the normalized, post-redirect URL of the page.
	URL string `json:"url"`

	// Title is the trimmed text of the first <title> element.
	// Empty when the page has no title.
	Title string `json:"title"`

	// MetaDescriptions holds the content of every <meta name="description">
	// element in document order.
	MetaDescriptions []string `json:"meta_descriptions"`

	// H1s and H2s hold the trimmed heading texts in document order.
	H1s []string `json:"h1s"`
	H2s []string `json:"h2s"`

	// Canonicals holds the normalized targets of <link rel="canonical">.
	Canonicals []string `json:"canonicals"`

	// Hreflangs holds the alternate-language links declared by the page.
	Hreflangs []Hreflang `json:"hreflangs,omitempty"`

	// WordCount is the number of whitespace-separated tokens of visible text.
	WordCount int `json:"word_count"`

	// ContentHash is the hex SHA3-256 digest of the visible text.
	// Pages with identical text share a hash.
	ContentHash string `json:"content_hash"`

	// Text is the visible text of the page, used for duplicate detection.
	Text string `json:"-"`

	// InternalLinks and ExternalLinks hold the normalized outbound links,
	// deduplicated in first-seen order.
	InternalLinks []string `json:"internal_links"`
	ExternalLinks []string `json:"external_links"`

	// Images holds every <img> with a non-empty src.
	Images []Image `json:"images"`
}

// Image describes an <img> element.
type Image struct {
	// Src is the absolute image URL. It is not normalized because the query
	// string usually selects the rendition.
	Src string `json:"src"`

	// Alt is the trimmed alt text; empty when missing.
	Alt string `json:"alt"`
}

// Hreflang is one <link rel="alternate" hreflang="..."> declaration.
type Hreflang struct {
	Lang string `json:"lang"`
	Href string `json:"href"`
}

// HasTitle reports whether the page declares a non-empty title.
func (p *PageRecord) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}

// SingleMetaDescription returns the meta description when exactly one is
// declared.
func (p *PageRecord) SingleMetaDescription() (string, bool) {
	if len(p.MetaDescriptions) != 1 {
		return "", false
	}
	return p.MetaDescriptions[0], true
}

// SingleH1 returns the H1 text when exactly one H1 is present.
func (p *PageRecord) SingleH1() (string, bool) {
	if len(p.H1s) != 1 {
		return "", false
	}
	return p.H1s[0], true
}

// LinksTo reports whether the page links to target, internally or externally.
func (p *PageRecord) LinksTo(target string) bool {
	for _, l := range p.InternalLinks {
		if l == target {
			return true
		}
	}
	for _, l := range p.ExternalLinks {
		if l == target {
			return true
		}
	}
	return false
}

// Corpus is the ordered output of a crawl.
type Corpus []*PageRecord

// URLs returns the page URLs in crawl order.
func (c Corpus) URLs() []string {
	urls := make([]string, 0, len(c))
	for _, p := range c {
		urls = append(urls, p.URL)
	}
	return urls
}

// InternalLinks returns every internal link of the corpus, duplicates included,
// in crawl order.
func (c Corpus) InternalLinks() []string {
	var links []string
	for _, p := range c {
		links = append(links, p.InternalLinks...)
	}
	return links
}

// ExternalLinks returns every external link of the corpus, duplicates included,
// in crawl order.
func (c Corpus) ExternalLinks() []string {
	var links []string
	for _, p := range c {
		links = append(links, p.ExternalLinks...)
	}
	return links
}

// LinkSources returns the URLs of the pages linking to target, in crawl order.
func (c Corpus) LinkSources(target string) []string {
	var sources []string
	for _, p := range c {
		if p.LinksTo(target) {
			sources = append(sources, p.URL)
		}
	}
	return sources
}
