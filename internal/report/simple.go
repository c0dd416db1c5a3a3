package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// DefaultMaxRows is the number of issues listed per type before the text
// report summarizes the rest.
const DefaultMaxRows = 20

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with severity indicators
// and clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables crawl statistics and every issue row.
	verbose bool

	// maxRows limits the rows listed per issue type; ignored when verbose.
	maxRows int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithMaxRows sets how many issues are listed per type.
func WithMaxRows(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.maxRows = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		maxRows:    DefaultMaxRows,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	summary := model.NewSummary(report)

	var sb strings.Builder
	w.writeHeader(&sb, report, summary)
	w.writeSummary(&sb, summary)
	w.writeCrawlStats(&sb, report)
	w.writeSitemap(&sb, report)
	w.writeIssues(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SEO AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:           %s\n", report.Site)
	fmt.Fprintf(sb, "Start URL:      %s\n", report.StartURL)
	fmt.Fprintf(sb, "Audit Date:     %s\n", report.DateAudited.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Pages Crawled:  %d\n", report.PagesCrawled)

	switch {
	case summary.TimedOut:
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	case summary.Error != "":
		fmt.Fprintf(sb, "Status:         ERROR - %s\n", summary.Error)
	default:
		sb.WriteString("Status:         Complete\n")
	}
	sb.WriteString("\n")
}

// writeSectionTitle writes a dashed section banner.
func writeSectionTitle(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *model.Summary) {
	writeSectionTitle(sb, "SEVERITY SUMMARY")

	fmt.Fprintf(sb, "  CRITICAL: %d\n", summary.CriticalCount)
	fmt.Fprintf(sb, "  HIGH:     %d\n", summary.HighCount)
	fmt.Fprintf(sb, "  MEDIUM:   %d\n", summary.MediumCount)
	fmt.Fprintf(sb, "  LOW:      %d\n", summary.LowCount)
	fmt.Fprintf(sb, "  INFO:     %d\n", summary.InfoCount)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:    %d issues (score %d)\n", summary.TotalIssues(), summary.Score())
	sb.WriteString("\n")
}

// writeCrawlStats writes crawl counters in verbose mode.
func (w *SimpleWriter) writeCrawlStats(sb *strings.Builder, report *model.AuditReport) {
	if !w.verbose {
		return
	}
	s := report.CrawlStats

	writeSectionTitle(sb, "CRAWL STATISTICS")
	fmt.Fprintf(sb, "  URLs visited:          %d\n", s.URLsVisited)
	fmt.Fprintf(sb, "  Frontier remaining:    %d\n", s.FrontierRemaining)
	fmt.Fprintf(sb, "  Probes:                %d\n", s.Probes)
	fmt.Fprintf(sb, "  Transport errors:      %d\n", s.TransportErrors)
	fmt.Fprintf(sb, "  HTTP errors:           %d\n", s.HTTPErrors)
	fmt.Fprintf(sb, "  Non-HTML skipped:      %d\n", s.NonHTML)
	fmt.Fprintf(sb, "  Redirects to visited:  %d\n", s.RedirectsToVisited)
	fmt.Fprintf(sb, "  Off-site redirects:    %d\n", s.OffsiteRedirects)
	fmt.Fprintf(sb, "  Politeness pauses:     %d\n", s.Pauses)
	sb.WriteString("\n")
}

// writeSitemap writes the sitemap check outcome.
func (w *SimpleWriter) writeSitemap(sb *strings.Builder, report *model.AuditReport) {
	if report.Sitemap == nil && report.SitemapWarning == "" {
		return
	}

	writeSectionTitle(sb, "SITEMAP")
	if report.SitemapWarning != "" {
		fmt.Fprintf(sb, "  [!] %s\n\n", report.SitemapWarning)
	}
	if d := report.Sitemap; d != nil {
		fmt.Fprintf(sb, "  Sitemap:        %s\n", d.SitemapURL)
		fmt.Fprintf(sb, "  Listed URLs:    %d\n", d.SitemapSize)
		fmt.Fprintf(sb, "  Sitemap only:   %d\n", len(d.SitemapOnly))
		fmt.Fprintf(sb, "  Not in sitemap: %d\n", len(d.CrawledOnly))
		fmt.Fprintf(sb, "  Broken:         %d\n", len(d.SitemapBroken))
		if w.verbose {
			for _, r := range d.SitemapBroken {
				fmt.Fprintf(sb, "    - %s (%s)\n", r.URL, r.Outcome())
			}
		}
		sb.WriteString("\n")
	}
}

// writeIssues writes every issue type present, in catalogue order.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, report *model.AuditReport) {
	writeSectionTitle(sb, "ISSUES")

	if !report.HasIssues() {
		sb.WriteString("  " + noIssuesMessage + "\n\n")
		return
	}

	grouped := report.IssuesByType()
	for _, t := range report.IssueTypesPresent() {
		info := model.GetIssueInfo(t)
		issues := grouped[t]

		fmt.Fprintf(sb, "[%s] %s (%s): %d\n", severityIndicator(info.Severity), info.SheetName, info.Severity, len(issues))
		fmt.Fprintf(sb, "    %s\n", info.Describe(report.Thresholds))
		fmt.Fprintf(sb, "    %s\n", info.Recommend(report.Thresholds))

		limit := len(issues)
		if !w.verbose && limit > w.maxRows {
			limit = w.maxRows
		}
		for _, issue := range issues[:limit] {
			sb.WriteString("  * ")
			sb.WriteString(strings.Join(flattenRow(issue.Row()), " | "))
			sb.WriteString("\n")
		}
		if rest := len(issues) - limit; rest > 0 {
			fmt.Fprintf(sb, "  ... and %d more\n", rest)
		}
		sb.WriteString("\n")
	}
}

// flattenRow keeps multi-line cells on one line.
func flattenRow(row []string) []string {
	out := make([]string, 0, len(row))
	for _, cell := range row {
		if cell == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(cell, "\n", ", "))
	}
	return out
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoaudit\n")
	sb.WriteString("https://github.com/nao1215/seoaudit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
