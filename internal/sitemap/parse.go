package sitemap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// gzipMagic starts every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// document covers both <urlset> and <sitemapindex>. Namespaces are ignored.
type document struct {
	XMLName  xml.Name
	URLs     []location `xml:"url"`
	Sitemaps []location `xml:"sitemap"`
}

type location struct {
	Loc string `xml:"loc"`
}

// Document is one parsed sitemap file.
type Document struct {
	// URLs are the page locations listed by a urlset or a text sitemap.
	URLs []string
	// Sitemaps are the child sitemap locations listed by a sitemapindex.
	Sitemaps []string
}

// IsIndex reports whether the document is a sitemap index.
func (d *Document) IsIndex() bool {
	return len(d.Sitemaps) > 0
}

// Parse parses a sitemap body. gzip-compressed input is detected by its magic
// bytes. Input that does not start with "<" is read as a text sitemap.
func Parse(data []byte, maxSize int64) (*Document, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		data, err = io.ReadAll(io.LimitReader(gz, maxSize))
		if err != nil {
			return nil, fmt.Errorf("decompress sitemap: %w", err)
		}
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return parseXML(trimmed)
	}
	return parseText(trimmed), nil
}

func parseXML(data []byte) (*Document, error) {
	var doc document
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse sitemap xml: %w", err)
	}

	out := &Document{}
	switch doc.XMLName.Local {
	case "urlset":
		out.URLs = locations(doc.URLs)
	case "sitemapindex":
		out.Sitemaps = locations(doc.Sitemaps)
	default:
		return nil, fmt.Errorf("%w: <%s>", errUnknownFormat, doc.XMLName.Local)
	}
	return out, nil
}

func locations(locs []location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		if loc := strings.TrimSpace(l.Loc); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

// parseText reads one absolute URL per line; anything else is ignored.
func parseText(data []byte) *Document {
	out := &Document{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if urlnorm.IsHTTP(line) {
			out.URLs = append(out.URLs, line)
		}
	}
	return out
}
