package sitemap

import (
	"bytes"
	"compress/gzip"
	"errors"
	"slices"
	"testing"
)

const urlsetXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2024-01-01</lastmod></url>
  <url><loc>
    https://example.com/about
  </loc></url>
  <url><loc></loc></url>
</urlset>`

const indexXML = `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-posts.xml.gz</loc></sitemap>
</sitemapindex>`

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		data         []byte
		wantURLs     []string
		wantSitemaps []string
	}{
		{
			name:     "urlset",
			data:     []byte(urlsetXML),
			wantURLs: []string{"https://example.com/", "https://example.com/about"},
		},
		{
			name:         "sitemap index",
			data:         []byte(indexXML),
			wantSitemaps: []string{"https://example.com/sitemap-pages.xml", "https://example.com/sitemap-posts.xml.gz"},
		},
		{
			name:     "gzip urlset",
			data:     gzipBytes(t, urlsetXML),
			wantURLs: []string{"https://example.com/", "https://example.com/about"},
		},
		{
			name:     "text sitemap",
			data:     []byte("https://example.com/one\n\n# comment\nnot a url\r\nhttps://example.com/two\r\n"),
			wantURLs: []string{"https://example.com/one", "https://example.com/two"},
		},
		{
			name:     "byte order mark",
			data:     append([]byte("\xef\xbb\xbf"), urlsetXML...),
			wantURLs: []string{"https://example.com/", "https://example.com/about"},
		},
		{
			name:     "latin-1 declaration",
			data:     []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><urlset><url><loc>https://example.com/caf\xe9</loc></url></urlset>"),
			wantURLs: []string{"https://example.com/café"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse(tt.data, DefaultMaxSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(doc.URLs, tt.wantURLs) {
				t.Errorf("URLs = %q, want %q", doc.URLs, tt.wantURLs)
			}
			if !slices.Equal(doc.Sitemaps, tt.wantSitemaps) {
				t.Errorf("Sitemaps = %q, want %q", doc.Sitemaps, tt.wantSitemaps)
			}
			if doc.IsIndex() != (len(tt.wantSitemaps) > 0) {
				t.Errorf("IsIndex() = %v", doc.IsIndex())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("<rss><channel></channel></rss>"), DefaultMaxSize); !errors.Is(err, errUnknownFormat) {
		t.Errorf("expected errUnknownFormat, got %v", err)
	}
	if _, err := Parse([]byte("<urlset><url><loc>broken"), DefaultMaxSize); err == nil {
		t.Error("expected an error for truncated XML")
	}
	if _, err := Parse([]byte{0x1f, 0x8b, 0x00}, DefaultMaxSize); err == nil {
		t.Error("expected an error for a corrupt gzip stream")
	}
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
