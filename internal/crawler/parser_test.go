package crawler

import (
	"slices"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Sample Page  </title>
  <title>Second title</title>
  <meta name="description" content=" First description ">
  <meta name="Description" content="Second description">
  <meta name="keywords" content="ignored">
  <meta name="description">
  <link rel="canonical" href="https://www.example.com/sample/">
  <link rel="alternate" hreflang="de" href="/de/sample">
  <link rel="alternate" href="/feed.xml">
  <style>.hidden { display: none; }</style>
  <script>var words = "not counted";</script>
</head>
<body>
  <h1>Main
     heading</h1>
  <h2>Sub one</h2>
  <h2>Sub two</h2>
  <p>Some body text here.</p>
  <a href="/about/">About</a>
  <a href="https://example.com/about?ref=nav">About again</a>
  <a href="#top">Top</a>
  <a href="mailto:info@example.com">Mail</a>
  <a href="tel:+123">Call</a>
  <a href="javascript:void(0)">JS</a>
  <a href="ftp://example.com/file">FTP</a>
  <a href="https://other.org/page">Other</a>
  <a href="https://other.org/page#frag">Other again</a>
  <img src="/img/logo.png" alt=" Logo ">
  <img src="photo.jpg">
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestParsePage(t *testing.T) {
	t.Parallel()

	page := ParsePage("https://example.com/sample", []byte(samplePage), "example.com")

	if page.URL != "https://example.com/sample" {
		t.Errorf("URL = %q", page.URL)
	}
	if page.Title != "Sample Page" {
		t.Errorf("Title = %q, want first title trimmed", page.Title)
	}

	wantMeta := []string{"First description", "Second description"}
	if !slices.Equal(page.MetaDescriptions, wantMeta) {
		t.Errorf("MetaDescriptions = %q, want %q", page.MetaDescriptions, wantMeta)
	}
	if !slices.Equal(page.H1s, []string{"Main heading"}) {
		t.Errorf("H1s = %q", page.H1s)
	}
	if !slices.Equal(page.H2s, []string{"Sub one", "Sub two"}) {
		t.Errorf("H2s = %q", page.H2s)
	}
	if !slices.Equal(page.Canonicals, []string{"https://example.com/sample"}) {
		t.Errorf("Canonicals = %q", page.Canonicals)
	}
	if len(page.Hreflangs) != 1 || page.Hreflangs[0].Lang != "de" || page.Hreflangs[0].Href != "https://example.com/de/sample" {
		t.Errorf("Hreflangs = %+v", page.Hreflangs)
	}

	if !slices.Equal(page.InternalLinks, []string{"https://example.com/about"}) {
		t.Errorf("InternalLinks = %q", page.InternalLinks)
	}
	if !slices.Equal(page.ExternalLinks, []string{"https://other.org/page"}) {
		t.Errorf("ExternalLinks = %q", page.ExternalLinks)
	}

	if len(page.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(page.Images))
	}
	if page.Images[0].Src != "https://example.com/img/logo.png" || page.Images[0].Alt != "Logo" {
		t.Errorf("first image = %+v", page.Images[0])
	}
	if page.Images[1].Src != "https://example.com/photo.jpg" || page.Images[1].Alt != "" {
		t.Errorf("second image = %+v", page.Images[1])
	}
}

func TestParsePageWordCount(t *testing.T) {
	t.Parallel()

	body := `<html><body><p>one two three</p><script>four five</script><style>six</style><div>seven</div></body></html>`
	page := ParsePage("https://example.com/", []byte(body), "example.com")

	if page.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", page.WordCount)
	}

	same := ParsePage("https://example.com/copy", []byte(`<html><body><div>one two three</div> <b>seven</b></body></html>`), "example.com")
	if same.ContentHash != page.ContentHash {
		t.Error("expected identical visible text to hash identically")
	}
}

func TestParsePageBaseHref(t *testing.T) {
	t.Parallel()

	body := `<html><head><base href="https://example.com/docs/"></head><body><a href="intro">Intro</a></body></html>`
	page := ParsePage("https://example.com/other/page", []byte(body), "example.com")

	if !slices.Equal(page.InternalLinks, []string{"https://example.com/docs/intro"}) {
		t.Errorf("InternalLinks = %q", page.InternalLinks)
	}
}

func TestParsePageWWWIsInternal(t *testing.T) {
	t.Parallel()

	body := `<html><body><a href="http://www.example.com/x">x</a><a href="https://blog.example.com/">blog</a></body></html>`
	page := ParsePage("https://example.com/", []byte(body), "www.example.com")

	if !slices.Equal(page.InternalLinks, []string{"http://example.com/x"}) {
		t.Errorf("InternalLinks = %q", page.InternalLinks)
	}
	if len(page.ExternalLinks) != 1 {
		t.Errorf("expected the subdomain to be external, got %q", page.ExternalLinks)
	}
}

func TestParsePageEmptyDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not html", body: "\x00\x01\x02 binary"},
		{name: "unclosed tags", body: "<html><head><title>Broken<body><h1>Still"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := ParsePage("https://example.com/", []byte(tt.body), "")
			if page == nil {
				t.Fatal("expected a record")
			}
			if page.InternalLinks == nil || page.MetaDescriptions == nil || page.Images == nil {
				t.Error("expected non-nil slices")
			}
			if page.ContentHash == "" {
				t.Error("expected a content hash")
			}
		})
	}
}

func TestResolveLink(t *testing.T) {
	t.Parallel()

	p, err := NewParser("https://example.com/dir/page", "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{href: "child", want: "https://example.com/dir/child", ok: true},
		{href: "../up", want: "https://example.com/up", ok: true},
		{href: "//cdn.example.org/x.js", want: "https://cdn.example.org/x.js", ok: true},
		{href: "  /spaced  ", want: "https://example.com/spaced", ok: true},
		{href: "", ok: false},
		{href: "#section", ok: false},
		{href: "MAILTO:someone@example.com", ok: false},
		{href: "data:text/plain,hi", ok: false},
		{href: "ftp://example.com/", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()

			got, ok := resolveLink(p.pageURL, tt.href)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveLink(%q) = %q, %v; want %q, %v", tt.href, got, ok, tt.want, tt.ok)
			}
		})
	}
}
