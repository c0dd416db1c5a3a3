package crawler

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// skippedLinkPrefixes are href schemes that never point at a crawlable page.
var skippedLinkPrefixes = []string{"mailto:", "tel:", "javascript:", "data:"}

// invisibleElements hold text that is never rendered as page content.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Parser extracts SEO signals from an HTML document.
//
// Design decision: We parse with golang.org/x/net/html and query the tree
// with goquery rather than matching markup with regex because:
//  1. The HTML5 parser recovers from malformed markup the way browsers do
//  2. CSS selectors keep each extraction rule to a single line
//  3. One parse serves every field of the record
type Parser struct {
	// pageURL is the URL of the page being parsed, used for resolving relative URLs.
	pageURL *url.URL

	// baseHost is the normalized host that decides internal versus external links.
	baseHost string
}

// NewParser creates a parser for the page at pageURL.
// An empty baseHost defaults to the host of pageURL.
func NewParser(pageURL, baseHost string) (*Parser, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	if baseHost == "" {
		baseHost = u.Host
	}
	return &Parser{pageURL: u, baseHost: urlnorm.NormalizeHost(baseHost)}, nil
}

// ParsePage parses body into a PageRecord. It never fails: a malformed or
// empty document yields a record with empty fields.
func ParsePage(pageURL string, body []byte, baseHost string) *model.PageRecord {
	empty := newRecord(urlnorm.Normalize(pageURL))

	p, err := NewParser(pageURL, baseHost)
	if err != nil {
		return empty
	}
	record, err := p.Parse(bytes.NewReader(body))
	if err != nil {
		return empty
	}
	return record
}

// Parse reads an HTML document and extracts its SEO signals.
// Only read errors are returned; markup problems degrade to empty fields.
func (p *Parser) Parse(content io.Reader) (*model.PageRecord, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	base := p.documentBase(doc)

	record := newRecord(urlnorm.Normalize(p.pageURL.String()))
	record.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return
		}
		if content, ok := s.Attr("content"); ok {
			record.MetaDescriptions = append(record.MetaDescriptions, strings.TrimSpace(content))
		}
	})

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		record.H1s = append(record.H1s, collapseSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		record.H2s = append(record.H2s, collapseSpace(s.Text()))
	})

	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		p.processLinkElement(s, base, record)
	})

	record.Text = visibleText(root)
	record.WordCount = len(strings.Fields(record.Text))
	record.ContentHash = contentHash(record.Text)

	internal := make(map[string]bool)
	external := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := resolveLink(base, href)
		if !ok {
			return
		}
		p.classifyLink(link, record, internal, external)
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			return
		}
		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		alt, _ := s.Attr("alt")
		record.Images = append(record.Images, model.Image{
			Src: base.ResolveReference(ref).String(),
			Alt: strings.TrimSpace(alt),
		})
	})

	return record, nil
}

// processLinkElement handles <link rel="canonical"> and
// <link rel="alternate" hreflang="...">.
func (p *Parser) processLinkElement(s *goquery.Selection, base *url.URL, record *model.PageRecord) {
	rel, _ := s.Attr("rel")
	href, _ := s.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return
	}
	ref, err := url.Parse(href)
	if err != nil {
		return
	}
	target := base.ResolveReference(ref).String()

	for _, token := range strings.Fields(strings.ToLower(rel)) {
		switch token {
		case "canonical":
			record.Canonicals = append(record.Canonicals, urlnorm.Normalize(target))
		case "alternate":
			if lang, ok := s.Attr("hreflang"); ok {
				record.Hreflangs = append(record.Hreflangs, model.Hreflang{
					Lang: strings.TrimSpace(lang),
					Href: target,
				})
			}
		}
	}
}

// documentBase returns the URL relative links resolve against: the <base href>
// of the document when present, the page URL otherwise.
func (p *Parser) documentBase(doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return p.pageURL
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return p.pageURL
	}
	return p.pageURL.ResolveReference(ref)
}

// classifyLink records link as internal or external, once each.
//
// Design decision: Links are compared by normalized host, so "www." and
// scheme variants of the crawled site stay internal.
func (p *Parser) classifyLink(link string, record *model.PageRecord, internal, external map[string]bool) {
	if urlnorm.Host(link) == p.baseHost {
		if !internal[link] {
			internal[link] = true
			record.InternalLinks = append(record.InternalLinks, link)
		}
		return
	}
	if !external[link] {
		external[link] = true
		record.ExternalLinks = append(record.ExternalLinks, link)
	}
}

// resolveLink turns an href into a normalized absolute http(s) URL.
// Fragment-only, mailto:, tel:, javascript: and data: links are skipped.
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, prefix := range skippedLinkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return urlnorm.Normalize(abs.String()), true
}

// visibleText joins the text nodes outside script-like elements with single
// spaces.
func visibleText(root *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && invisibleElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " ")
}

// contentHash returns the hex SHA3-256 digest of text.
func contentHash(text string) string {
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func newRecord(pageURL string) *model.PageRecord {
	return &model.PageRecord{
		URL:              pageURL,
		MetaDescriptions: []string{},
		H1s:              []string{},
		H2s:              []string{},
		Canonicals:       []string{},
		InternalLinks:    []string{},
		ExternalLinks:    []string{},
		Images:           []model.Image{},
		ContentHash:      contentHash(""),
	}
}
