package crawler

import (
	"net/http"
	"testing"
)

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "/admin/*", path: "/admin", want: true},
		{pattern: "/admin/*", path: "/admin/users", want: true},
		{pattern: "/admin/*", path: "/admin/users/42", want: true},
		{pattern: "/admin/*", path: "/administrator", want: false},
		{pattern: "*.pdf", path: "/docs/file.pdf", want: true},
		{pattern: "*.pdf", path: "/docs/FILE.PDF", want: true},
		{pattern: "*.pdf", path: "/docs/file.html", want: false},
		{pattern: "/page/?", path: "/page/2", want: true},
		{pattern: "/page/?", path: "/page/22", want: false},
		{pattern: "/logout*", path: "/logout-now", want: true},
		{pattern: "print", path: "/articles/print", want: true},
		{pattern: "[", path: "/anything", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldCrawl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ignore []string
		follow []string
		url    string
		want   bool
	}{
		{name: "no patterns", url: "https://example.com/any", want: true},
		{name: "ignored", ignore: []string{"/private/*"}, url: "https://example.com/private/a", want: false},
		{name: "ignore wins over follow", ignore: []string{"/blog/drafts/*"}, follow: []string{"/blog/*"}, url: "https://example.com/blog/drafts/x", want: false},
		{name: "followed", follow: []string{"/blog/*"}, url: "https://example.com/blog/post", want: true},
		{name: "not followed", follow: []string{"/blog/*"}, url: "https://example.com/shop", want: false},
		{name: "root path", follow: []string{"/"}, url: "https://example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSpider(http.DefaultClient, WithIgnorePatterns(tt.ignore), WithFollowPatterns(tt.follow))
			if got := s.shouldCrawl(tt.url); got != tt.want {
				t.Errorf("shouldCrawl(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
