package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/seoaudit/internal/model"
)

// HeaderColor is the fill color of spreadsheet header cells.
const HeaderColor = "#9A86FF"

// summarySheet is the first sheet of the workbook.
const summarySheet = "Summary"

// maxCellLength is the longest text a spreadsheet cell accepts.
const maxCellLength = 32767

// XLSXWriter outputs the audit as a spreadsheet.
//
// The workbook starts with a Summary sheet (base URL, pages crawled and the
// number of issues per type), followed by one sheet per issue type present.
// Each issue sheet holds the description in row 1, the recommendation in
// row 2 and the issue table from row 4 on.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write builds the workbook and writes it to the output.
func (w *XLSXWriter) Write(report *model.AuditReport) (int, error) {
	f, err := BuildWorkbook(report)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.WriteTo(w.output)
	return int(n), err
}

// BuildWorkbook creates the spreadsheet of report. The caller closes it.
func BuildWorkbook(report *model.AuditReport) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &workbook{file: f}

	if err := b.init(); err != nil {
		f.Close()
		return nil, err
	}
	if err := b.writeSummary(report); err != nil {
		f.Close()
		return nil, err
	}

	grouped := report.IssuesByType()
	for _, t := range report.IssueTypesPresent() {
		if err := b.writeIssueSheet(t, grouped[t], report.Thresholds); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// workbook tracks the styles and column widths of a file being built.
type workbook struct {
	file        *excelize.File
	headerStyle int
}

func (b *workbook) init() error {
	if err := b.file.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	style, err := b.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HeaderColor}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	b.headerStyle = style
	return nil
}

// writeSummary fills the Summary sheet. The header row and the metric
// column are styled.
func (b *workbook) writeSummary(report *model.AuditReport) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Base URL", report.StartURL},
		{"Pages Crawled", report.PagesCrawled},
		{"", ""},
	}
	counts := report.IssueCounts()
	for _, t := range report.IssueTypesPresent() {
		rows = append(rows, []any{model.GetIssueInfo(t).SheetName, counts[t]})
	}
	if !report.HasIssues() {
		rows = append(rows, []any{noIssuesMessage, ""})
	}

	for i, row := range rows {
		if err := b.setRow(summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := b.style(summarySheet, "A1", fmt.Sprintf("A%d", len(rows))); err != nil {
		return err
	}
	if err := b.style(summarySheet, "B1", "B1"); err != nil {
		return err
	}
	return b.autoWidth(summarySheet, rows)
}

// writeIssueSheet adds the sheet of one issue type.
func (b *workbook) writeIssueSheet(t model.IssueType, issues []model.Issue, th model.Thresholds) error {
	info := model.GetIssueInfo(t)
	sheet := info.SheetName
	if _, err := b.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	rows := [][]any{
		{info.Describe(th)},
		{info.Recommend(th)},
		{},
		toAny(info.Headers()),
	}
	for _, issue := range issues {
		rows = append(rows, toAny(issue.Row()))
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := b.setRow(sheet, i+1, row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(max(len(info.Columns), 1))
	if err != nil {
		return err
	}
	for _, r := range []int{1, 2} {
		if err := b.style(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("A%d", r)); err != nil {
			return err
		}
	}
	if err := b.style(sheet, "A4", last+"4"); err != nil {
		return err
	}
	// Description and recommendation span the table width, so they do not
	// count towards the first column's width.
	return b.autoWidth(sheet, rows[3:])
}

func (b *workbook) setRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	for i, v := range values {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > maxCellLength {
			values[i] = string([]rune(s)[:maxCellLength])
		}
	}
	if err := b.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (b *workbook) style(sheet, from, to string) error {
	if err := b.file.SetCellStyle(sheet, from, to, b.headerStyle); err != nil {
		return fmt.Errorf("failed to style %s!%s:%s: %w", sheet, from, to, err)
	}
	return nil
}

// autoWidth sets each column to its longest value plus two, capped at the
// spreadsheet maximum.
func (b *workbook) autoWidth(sheet string, rows [][]any) error {
	widths := make(map[int]int)
	for _, row := range rows {
		for i, v := range row {
			n := longestLine(fmt.Sprint(v))
			if n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, n := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(min(n+2, 255))
		if err := b.file.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// longestLine returns the length of the longest line of s in code points.
func longestLine(s string) int {
	longest, current := 0, 0
	for _, r := range s {
		if r == '\n' {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
