package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/seoaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// maxRows limits the rows of each issue table.
	maxRows int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		maxRows:    100,
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	summary := model.NewSummary(report)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report, summary)
	w.writeSummary(md, summary)
	w.writeSitemap(md, report)
	w.writeIssues(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport, summary *model.Summary) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Site + "`"},
			{"Start URL", report.StartURL},
			{"Audit Date", report.DateAudited.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.PagesCrawled)},
			{"Status", statusText(summary)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func statusText(summary *model.Summary) string {
	if summary.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if summary.Error != "" {
		return "❌ Error - " + escapeCell(summary.Error)
	}
	return "✅ Complete"
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(summary.CriticalCount)},
			{"🟠 High", strconv.Itoa(summary.HighCount)},
			{"🟡 Medium", strconv.Itoa(summary.MediumCount)},
			{"🔵 Low", strconv.Itoa(summary.LowCount)},
			{"⚪ Info", strconv.Itoa(summary.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalIssues()) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasIssues() {
		writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	labels := map[model.Severity]string{
		model.SeverityCritical: "Critical",
		model.SeverityHigh:     "High",
		model.SeverityMedium:   "Medium",
		model.SeverityLow:      "Low",
		model.SeverityInfo:     "Info",
	}
	for _, sev := range model.AllSeverities() {
		if n := summary.CountFor(sev); n > 0 {
			chart.LabelAndIntValue(labels[sev], uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.CriticalCount > 0:
		md.Cautionf(
			"Broken pages detected! %d critical issue(s) affect visitors and crawlers directly.",
			summary.CriticalCount,
		)
	case summary.HighCount > 0:
		md.Warningf(
			"High severity issues detected. %d issue(s) may confuse indexing.",
			summary.HighCount,
		)
	case summary.MediumCount > 0:
		md.Importantf(
			"Medium severity issues found. %d issue(s) weaken how pages appear in results.",
			summary.MediumCount,
		)
	case summary.TotalIssues() > 0:
		md.Note("Only low severity and informational issues detected.")
	default:
		md.Tip(noIssuesMessage)
	}
	md.PlainText("")
}

// writeSitemap writes the sitemap check outcome.
func (w *MarkdownWriter) writeSitemap(md *markdown.Markdown, report *model.AuditReport) {
	if report.Sitemap == nil && report.SitemapWarning == "" {
		return
	}

	md.H2("Sitemap")
	md.PlainText("")
	if report.SitemapWarning != "" {
		md.Warningf("%s", report.SitemapWarning)
		md.PlainText("")
	}
	if d := report.Sitemap; d != nil {
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Sitemap", d.SitemapURL},
				{"Listed URLs", strconv.Itoa(d.SitemapSize)},
				{"Sitemap only", strconv.Itoa(len(d.SitemapOnly))},
				{"Not in sitemap", strconv.Itoa(len(d.CrawledOnly))},
				{"Broken", strconv.Itoa(len(d.SitemapBroken))},
			},
		})
		md.PlainText("")
	}
}

// writeIssues writes one table per issue type, grouped by severity.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Issues")
	md.PlainText("")

	if !report.HasIssues() {
		md.PlainText(noIssuesMessage)
		md.PlainText("")
		return
	}

	headers := map[model.Severity]string{
		model.SeverityCritical: "### 🔴 Critical",
		model.SeverityHigh:     "### 🟠 High",
		model.SeverityMedium:   "### 🟡 Medium",
		model.SeverityLow:      "### 🔵 Low",
		model.SeverityInfo:     "### ⚪ Info",
	}

	grouped := report.IssuesByType()
	present := report.IssueTypesPresent()
	for _, sev := range model.AllSeverities() {
		var types []model.IssueType
		for _, t := range present {
			if model.GetSeverity(t) == sev {
				types = append(types, t)
			}
		}
		if len(types) == 0 {
			continue
		}

		md.PlainText(headers[sev])
		md.PlainText("")
		for _, t := range types {
			w.writeIssueTable(md, t, grouped[t], report.Thresholds)
		}
	}
}

// writeIssueTable writes the table of one issue type.
func (w *MarkdownWriter) writeIssueTable(md *markdown.Markdown, t model.IssueType, issues []model.Issue, th model.Thresholds) {
	info := model.GetIssueInfo(t)

	md.PlainTextf("#### %s (%d)", info.SheetName, len(issues))
	md.PlainText("")

	limit := min(len(issues), w.maxRows)
	rows := make([][]string, 0, limit)
	for _, issue := range issues[:limit] {
		row := issue.Row()
		for i := range row {
			row[i] = escapeCell(truncateString(row[i], 120))
		}
		rows = append(rows, row)
	}
	md.Table(markdown.TableSet{
		Header: info.Headers(),
		Rows:   rows,
	})
	md.PlainText("")

	if rest := len(issues) - limit; rest > 0 {
		md.PlainTextf("*... and %d more*", rest)
		md.PlainText("")
	}
	md.Details(info.SheetName, info.Describe(th)+"\n\n"+info.Recommend(th))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoaudit](https://github.com/nao1215/seoaudit)*")
}

// escapeCell keeps a value inside one markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
