package model

// Severity represents how strongly an issue affects search visibility.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates observations that may be intentional.
	// Examples: a canonical pointing at another page, images carrying EXIF data.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited ranking impact.
	// Examples: titles slightly too long, thin content.
	SeverityLow

	// SeverityMedium indicates issues that weaken how pages appear in results.
	// Examples: missing meta descriptions, images without alt text.
	SeverityMedium

	// SeverityHigh indicates issues that confuse indexing.
	// Examples: missing titles, duplicate content, broken sitemap entries.
	SeverityHigh

	// SeverityCritical indicates issues visitors and crawlers hit directly.
	// Examples: internal links that return errors.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Weight returns the contribution of one issue of this severity to a site's
// issue score. Used when comparing audits over time.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AllSeverities lists severities from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}
