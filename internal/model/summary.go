package model

import "time"

// Summary is a condensed, human-readable view of an AuditReport.
//
// Design decision: We create a separate summary rather than printing parts of
// AuditReport because:
// 1. It provides a consistent, curated view of the most important numbers
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from data collection
type Summary struct {
	// Site is the audited host.
	Site string `json:"site"`

	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// === Severity Summary ===

	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	InfoCount     int `json:"info_count"`

	// IssueCounts maps issue types to their number of occurrences.
	IssueCounts map[IssueType]int `json:"issue_counts,omitempty"`

	// Issues contains every issue of the report.
	Issues []Issue `json:"issues,omitempty"`

	// === Crawl Statistics ===

	// PagesCrawled is the number of pages successfully crawled.
	PagesCrawled int `json:"pages_crawled"`

	// BrokenLinks is the number of flagged liveness probes.
	BrokenLinks int `json:"broken_links"`

	// TimedOut indicates if the audit was cancelled.
	TimedOut bool `json:"timed_out"`

	// Error contains any error message if the audit failed.
	Error string `json:"error,omitempty"`
}

// NewSummary creates a Summary from an AuditReport.
func NewSummary(report *AuditReport) *Summary {
	s := &Summary{
		Site:         report.Site,
		DateAudited:  report.DateAudited,
		PagesCrawled: report.PagesCrawled,
		BrokenLinks:  len(report.Liveness),
		TimedOut:     report.TimedOut,
		IssueCounts:  report.IssueCounts(),
		Issues:       report.Issues,
		Error:        report.ErrorMessage,
	}
	if s.Error == "" && report.Error != nil {
		s.Error = report.Error.Error()
	}
	s.countBySeverity()
	return s
}

// countBySeverity tallies issues per severity level.
func (s *Summary) countBySeverity() {
	s.CriticalCount, s.HighCount, s.MediumCount, s.LowCount, s.InfoCount = 0, 0, 0, 0, 0
	for _, i := range s.Issues {
		switch i.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
}

// TotalIssues returns the total number of issues.
func (s *Summary) TotalIssues() int {
	return s.CriticalCount + s.HighCount + s.MediumCount + s.LowCount + s.InfoCount
}

// HasIssues reports whether any issue was found.
func (s *Summary) HasIssues() bool {
	return s.TotalIssues() > 0
}

// CountFor returns the number of issues at the given severity.
func (s *Summary) CountFor(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.CriticalCount
	case SeverityHigh:
		return s.HighCount
	case SeverityMedium:
		return s.MediumCount
	case SeverityLow:
		return s.LowCount
	case SeverityInfo:
		return s.InfoCount
	default:
		return 0
	}
}

// Score returns the severity-weighted issue score. Lower is better.
func (s *Summary) Score() int {
	score := 0
	for _, sev := range AllSeverities() {
		score += s.CountFor(sev) * sev.Weight()
	}
	return score
}

// GetIssuesBySeverity returns issues filtered by severity.
func (s *Summary) GetIssuesBySeverity(sev Severity) []Issue {
	var result []Issue
	for _, i := range s.Issues {
		if i.Severity == sev {
			result = append(result, i)
		}
	}
	return result
}
