package urlnorm

import (
	"net/url"
	"strings"
)

// wwwPrefix is stripped from hosts so that "www.example.com" and
// "example.com" are the same crawl target.
const wwwPrefix = "www."

// Normalize converts a raw URL into its canonical form.
//
// The canonical form has a lowercase scheme and host, no "www." host prefix,
// a path of "/" when empty and no trailing slash otherwise, and no query,
// fragment or path parameters. Normalize never fails: when raw cannot be
// parsed it is returned unchanged.
//
// Design decision: Prefix, parameter and slash stripping repeat until the
// value stops changing. Inputs such as "www.www.example.com" or "/a//" would
// otherwise need a second pass, and every caller relies on
// Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = NormalizeHost(u.Host)
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	if u.Opaque != "" {
		// mailto:, urn: and friends carry no path to clean up.
		return u.String()
	}

	escaped := normalizePath(u.EscapedPath())
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return raw
	}
	u.Path = unescaped
	u.RawPath = escaped

	return u.String()
}

// Host returns the normalized host (lowercase, without "www.", port kept) of
// raw. It returns an empty string when raw cannot be parsed.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return NormalizeHost(u.Host)
}

// SameHost reports whether a and b resolve to the same normalized host.
func SameHost(a, b string) bool {
	ha := Host(a)
	return ha != "" && ha == Host(b)
}

// IsHTTP reports whether raw is an absolute http or https URL.
func IsHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// NormalizeHost lowercases host and strips any leading "www." labels.
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	for strings.HasPrefix(host, wwwPrefix) {
		host = strings.TrimPrefix(host, wwwPrefix)
	}
	return host
}

func normalizePath(p string) string {
	for {
		before := p
		p = stripParams(p)
		if len(p) > 1 {
			p = strings.TrimRight(p, "/")
		}
		if p == "" {
			p = "/"
		}
		if p == before {
			return p
		}
	}
}

// stripParams removes ";params" from the last path segment.
func stripParams(p string) string {
	last := strings.LastIndex(p, "/")
	if i := strings.Index(p[last+1:], ";"); i >= 0 {
		return p[:last+1+i]
	}
	return p
}
