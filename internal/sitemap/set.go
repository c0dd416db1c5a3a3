package sitemap

import (
	"slices"
	"strings"

	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// Set is an insertion-ordered set of normalized URLs. It also keeps each
// URL as first given, so that liveness probes request what the sitemap
// lists rather than the comparison key.
// The zero value is not usable; create one with NewSet.
type Set struct {
	items []string
	raw   []string
	index map[string]struct{}
}

// NewSet returns a Set holding the normalized form of urls.
func NewSet(urls ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add normalizes u and inserts it. It reports whether u was new.
// Empty and non-http(s) URLs are ignored.
func (s *Set) Add(u string) bool {
	if !urlnorm.IsHTTP(u) {
		return false
	}
	key := urlnorm.Normalize(u)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, key)
	s.raw = append(s.raw, strings.TrimSpace(u))
	return true
}

// Merge adds the URLs of other, keeping their original forms.
func (s *Set) Merge(other *Set) {
	for _, u := range other.raw {
		s.Add(u)
	}
}

// Has reports whether the normalized form of u is in the set.
func (s *Set) Has(u string) bool {
	_, ok := s.index[urlnorm.Normalize(u)]
	return ok
}

// Len returns the number of URLs.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the normalized URLs in insertion order.
func (s *Set) Items() []string {
	return slices.Clone(s.items)
}

// Locations returns the URLs as first added, in insertion order.
func (s *Set) Locations() []string {
	return slices.Clone(s.raw)
}

// Difference returns the sorted URLs of s that are not in other.
func (s *Set) Difference(other *Set) []string {
	diff := make([]string, 0)
	for _, u := range s.items {
		if _, ok := other.index[u]; !ok {
			diff = append(diff, u)
		}
	}
	slices.Sort(diff)
	return diff
}
