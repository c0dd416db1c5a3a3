package sitemap

import (
	"slices"
	"testing"
)

func TestSetNormalizes(t *testing.T) {
	t.Parallel()

	s := NewSet(
		"https://www.example.com/a/",
		"https://example.com/a",
		"https://example.com/b?utm=1",
		"mailto:someone@example.com",
		"",
	)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (%q)", s.Len(), s.Items())
	}
	if !s.Has("http://WWW.example.com/a") {
		t.Error("expected scheme-insensitive, www-insensitive membership")
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if !slices.Equal(s.Items(), want) {
		t.Errorf("Items() = %q, want %q", s.Items(), want)
	}
}

func TestSetAlgebra(t *testing.T) {
	t.Parallel()

	crawled := NewSet("https://example.com/A", "https://example.com/B", "https://example.com/C")
	listed := NewSet("https://example.com/D", "https://example.com/C", "https://example.com/B")

	if got := listed.Difference(crawled); !slices.Equal(got, []string{"https://example.com/D"}) {
		t.Errorf("sitemap only = %q", got)
	}
	if got := crawled.Difference(listed); !slices.Equal(got, []string{"https://example.com/A"}) {
		t.Errorf("crawled only = %q", got)
	}
	if got := crawled.Difference(crawled); len(got) != 0 {
		t.Errorf("self difference = %q", got)
	}
}

func TestSetKeepsListedForm(t *testing.T) {
	t.Parallel()

	s := NewSet(" https://www.example.com/item?id=5 ", "https://example.com/item")
	other := NewSet("https://example.com/news/", "https://www.example.com/item?id=9")
	s.Merge(other)

	if want := []string{"https://example.com/item", "https://example.com/news"}; !slices.Equal(s.Items(), want) {
		t.Errorf("Items() = %q, want %q", s.Items(), want)
	}
	if want := []string{"https://www.example.com/item?id=5", "https://example.com/news/"}; !slices.Equal(s.Locations(), want) {
		t.Errorf("Locations() = %q, want %q", s.Locations(), want)
	}
}
