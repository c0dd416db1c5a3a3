package model

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Issue is a single rule violation.
//
// Design decision: One flat struct serves every issue type instead of a type
// per rule. The catalogue's column layout decides which fields are shown, so
// writers stay generic and JSON output stays uniform.
type Issue struct {
	// Type is the issue type identifier.
	Type IssueType `json:"type"`

	// Severity is the level from the catalogue.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// URL is the affected page, or the affected resource for image and link
	// issues.
	URL string `json:"url"`

	// Value is the offending text (title, description, H1, canonical, image
	// source, ...).
	Value string `json:"value,omitempty"`

	// Length is the length of Value in code points, when relevant.
	Length int `json:"length,omitempty"`

	// Count is a rule-specific count (descriptions, H1s, words, pages).
	Count int `json:"count,omitempty"`

	// SizeKB is an image size in kilobytes.
	SizeKB float64 `json:"size_kb,omitempty"`

	// StatusCode and Error describe failed link probes.
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`

	// Source is the liveness source tag for link issues.
	Source string `json:"source,omitempty"`

	// FoundOn lists the pages that reference URL.
	FoundOn []string `json:"found_on,omitempty"`
}

// NewIssue creates an issue of type t for url with the catalogue severity.
func NewIssue(t IssueType, url string) Issue {
	sev := GetSeverity(t)
	return Issue{
		Type:         t,
		Severity:     sev,
		SeverityText: sev.String(),
		URL:          url,
	}
}

// Cell renders one column of the issue for tabular output.
func (i Issue) Cell(c Column) string {
	switch c {
	case ColumnURL:
		return i.URL
	case ColumnValue:
		return i.Value
	case ColumnLength:
		return strconv.Itoa(i.Length)
	case ColumnCount:
		return strconv.Itoa(i.Count)
	case ColumnSizeKB:
		return strconv.FormatFloat(i.SizeKB, 'f', 2, 64)
	case ColumnStatus:
		if i.Error != "" {
			return i.Error
		}
		return statusText(i.StatusCode)
	case ColumnSource:
		return i.Source
	case ColumnFoundOn:
		return strings.Join(i.FoundOn, "\n")
	default:
		return ""
	}
}

// Row renders the issue with the catalogue column layout.
func (i Issue) Row() []string {
	info := GetIssueInfo(i.Type)
	row := make([]string, len(info.Columns))
	for n, c := range info.Columns {
		row[n] = i.Cell(c.Column)
	}
	return row
}

// Key identifies the issue across audits of the same site.
func (i Issue) Key() string {
	return fmt.Sprintf("%s|%s|%s", i.Type, i.URL, i.Value)
}

func statusText(code int) string {
	if code == 0 {
		return ""
	}
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return strconv.Itoa(code)
}
