package model

import "time"

// AuditReport is the main audit result structure.
// It contains everything collected while auditing one site.
//
// Design decision: We use a single struct that every pipeline step fills in
// rather than passing intermediate results between steps. Steps stay
// independent and the whole result serializes in one piece.
type AuditReport struct {
	// === Basic Information ===

	// Site is the normalized host of the audited site.
	Site string `json:"site"`

	// StartURL is the normalized start URL of the crawl.
	StartURL string `json:"start_url"`

	// DateAudited is when the audit started.
	DateAudited time.Time `json:"date_audited"`

	// === Crawl ===

	// Pages is the crawled corpus. It is persisted separately from the report.
	Pages Corpus `json:"-"`

	// PagesCrawled is the corpus size.
	PagesCrawled int `json:"pages_crawled"`

	// CrawlStats counts recoverable crawl failures and skips.
	CrawlStats CrawlStats `json:"crawl_stats"`

	// === Links and Sitemap ===

	// Liveness holds every flagged link probe.
	Liveness []LivenessResult `json:"liveness,omitempty"`

	// Sitemap is the reconciliation result; nil when the check did not run.
	Sitemap *SitemapDiff `json:"sitemap,omitempty"`

	// SitemapWarning explains why the sitemap check was skipped.
	SitemapWarning string `json:"sitemap_warning,omitempty"`

	// === Issues ===

	// Thresholds are the limits the content rules ran with.
	Thresholds Thresholds `json:"thresholds"`

	// Issues holds every rule violation in catalogue order.
	Issues []Issue `json:"issues,omitempty"`

	// === Status ===

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut indicates the audit was cancelled before completion.
	TimedOut bool `json:"timed_out"`

	// Error is the last step error; it is not serialized.
	Error error `json:"-"`

	// ErrorMessage is the serializable form of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAuditReport creates a report for the given site.
func NewAuditReport(site, startURL string) *AuditReport {
	return &AuditReport{
		Site:        site,
		StartURL:    startURL,
		DateAudited: time.Now(),
		Thresholds:  DefaultThresholds(),
	}
}

// SetPages stores the crawl result.
func (r *AuditReport) SetPages(pages Corpus, stats CrawlStats) {
	r.Pages = pages
	r.PagesCrawled = len(pages)
	r.CrawlStats = stats
}

// AddIssues appends issues to the report.
func (r *AuditReport) AddIssues(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// IssuesByType groups issues by type. Types without issues are absent.
func (r *AuditReport) IssuesByType() map[IssueType][]Issue {
	grouped := make(map[IssueType][]Issue)
	for _, i := range r.Issues {
		grouped[i.Type] = append(grouped[i.Type], i)
	}
	return grouped
}

// IssueTypesPresent returns the types with at least one issue, in catalogue
// order followed by unknown types in first-seen order.
func (r *AuditReport) IssueTypesPresent() []IssueType {
	grouped := r.IssuesByType()
	seen := make(map[IssueType]bool, len(grouped))
	var types []IssueType
	for _, t := range issueOrder {
		if len(grouped[t]) > 0 {
			types = append(types, t)
			seen[t] = true
		}
	}
	for _, i := range r.Issues {
		if !seen[i.Type] {
			types = append(types, i.Type)
			seen[i.Type] = true
		}
	}
	return types
}

// IssueCounts returns the number of issues per type.
func (r *AuditReport) IssueCounts() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, i := range r.Issues {
		counts[i.Type]++
	}
	return counts
}

// HasIssues reports whether any rule fired.
func (r *AuditReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// LivenessBySource filters liveness results by source tag.
func (r *AuditReport) LivenessBySource(source string) []LivenessResult {
	var out []LivenessResult
	for _, l := range r.Liveness {
		if l.Source == source {
			out = append(out, l)
		}
	}
	return out
}
