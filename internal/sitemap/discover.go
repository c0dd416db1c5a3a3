package sitemap

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// DefaultLocation returns "<scheme>://<host>/sitemap.xml" for baseURL.
func DefaultLocation(baseURL string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return strings.TrimRight(baseURL, "/") + "/sitemap.xml"
	}
	return u.Scheme + "://" + u.Host + "/sitemap.xml"
}

// Discover returns the sitemap locations a site declares through "Sitemap:"
// lines in its robots.txt. When robots.txt is missing, unreadable or names no
// sitemap, the conventional /sitemap.xml location is returned.
//
// Only the Sitemap lines are used. Allow and Disallow rules are never
// evaluated.
func (f *Fetcher) Discover(ctx context.Context, baseURL string) []string {
	fallback := []string{DefaultLocation(baseURL)}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return fallback
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("robots.txt unavailable", "url", robotsURL, "error", err)
		return fallback
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.logger.Debug("robots.txt unreadable", "url", robotsURL, "error", err)
		return fallback
	}

	found := make([]string, 0, len(data.Sitemaps))
	seen := make(map[string]bool)
	for _, s := range data.Sitemaps {
		s = strings.TrimSpace(s)
		if !urlnorm.IsHTTP(s) || seen[s] {
			continue
		}
		seen[s] = true
		found = append(found, s)
	}
	if len(found) == 0 {
		return fallback
	}
	return found
}
