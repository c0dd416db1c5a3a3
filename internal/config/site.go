package config

import (
	"maps"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per audited site.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page budget for this site.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Workers overrides the global worker count for this site.
	Workers int `yaml:"workers,omitempty"`

	// IgnorePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns are URL patterns to follow during crawling.
	// If specified, only URLs matching these patterns are crawled.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`

	// SitemapURL overrides sitemap discovery for this site.
	SitemapURL string `yaml:"sitemapUrl,omitempty"`

	// LivenessBudget overrides the number of links checked per source.
	// A pointer so that an explicit 0 (no link checks) is kept.
	LivenessBudget *int `yaml:"livenessBudget,omitempty"`

	// Thresholds override individual audit limits; zero fields inherit.
	Thresholds model.Thresholds `yaml:"thresholds,omitempty"`
}

// File represents the structure of the .seoaudit configuration file.
type File struct {
	// Sites maps hosts to their site-specific configurations.
	// Keys are hosts without scheme (e.g., "example.com"); a "www." prefix
	// and letter case are ignored.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if siteConfig.Workers != 0 {
		result.Workers = siteConfig.Workers
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}
	if siteConfig.SitemapURL != "" {
		result.SitemapURL = siteConfig.SitemapURL
	}
	if siteConfig.LivenessBudget != nil {
		result.LivenessBudget = siteConfig.LivenessBudget
	}
	result.Thresholds = siteConfig.Thresholds.Merge(cf.Defaults.Thresholds)

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	if sc, ok := cf.Sites[host]; ok {
		return sc, true
	}
	want := urlnorm.NormalizeHost(host)
	for key, sc := range cf.Sites {
		if urlnorm.NormalizeHost(key) == want {
			return sc, true
		}
	}
	return SiteConfig{}, false
}
