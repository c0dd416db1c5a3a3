package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/database"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// Constants for score direction and summary messages.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
	noIssuesSummary    = "No issues"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [site]",
		Short: "Compare audit results with historical data",
		Long: `Compare displays differences between the current and previous audits of a site.

This command retrieves historical audit data from the database and shows:
- New issues that appeared since the previous audit
- Resolved issues that are no longer present
- Issue count changes per issue type and the weighted score change
- Pages whose content changed, appeared or disappeared

The site is the audited host (example.com) or any URL on it. The comparison
requires at least two audits of the site in the database. Use
'seoaudit audit' to perform audits and save results.

Examples:
  # Compare the latest two audits of a site
  seoaudit compare example.com

  # List the audit history of a site
  seoaudit compare --list example.com

  # Compare with a specific historical audit by ID
  seoaudit compare --with-audit-id 5 example.com

  # Compare with the first audit since a date
  seoaudit compare --since "2025-01-01" example.com

  # Output comparison in JSON format
  seoaudit compare --json example.com

  # List all audited sites in the database
  seoaudit compare --list-sites`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List audit history for the specified site")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List all audited sites in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-audit-id", "i", 0,
		"Compare with a specific audit by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// compareOptions selects the previous audit and the output format.
type compareOptions struct {
	withAuditID int64
	since       string
	json        bool
	markdown    bool
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var site string
	if !listSites {
		if len(args) == 0 {
			return errors.New("site is required (use --list-sites to see audited sites)")
		}
		site = siteKey(args[0])
		if site == "" {
			return fmt.Errorf("invalid site: %q", args[0])
		}
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listSites {
		return listAuditedSites(ctx, db, out)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listAuditHistory(ctx, db, out, site)
	}

	var opts compareOptions
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.withAuditID, err = cmd.Flags().GetInt64("with-audit-id"); err != nil {
		return err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return err
	}

	return runComparison(ctx, db, out, site, opts)
}

// siteKey turns a compare argument (host or URL) into the stored site key.
func siteKey(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") {
		return urlnorm.Host(arg)
	}
	host, _, _ := strings.Cut(arg, "/")
	return urlnorm.NormalizeHost(host)
}

// listAuditedSites lists all sites that have audit records in the database.
func listAuditedSites(ctx context.Context, db *database.AuditDB, out io.Writer) error {
	sites, err := db.ListAuditedSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Fprintln(out, "No audited sites found in the database.")
		fmt.Fprintln(out, "\nUse 'seoaudit audit <url>' to audit a site.")
		return nil
	}

	fmt.Fprintf(out, "Audited sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(out, "  • %s\n", site)
	}
	fmt.Fprintln(out, "\nUse 'seoaudit compare --list <site>' to see the audit history of a site.")

	return nil
}

// listAuditHistory lists all audit records of a site.
func listAuditHistory(ctx context.Context, db *database.AuditDB, out io.Writer, site string) error {
	history, err := db.GetAuditHistoryWithMetadata(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No audit history found for %s\n", site)
		fmt.Fprintln(out, "\nUse 'seoaudit audit' to audit this site.")
		return nil
	}

	fmt.Fprintf(out, "Audit history for %s (%d audits):\n\n", site, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %s\n", "ID", "Date", "Score", "Issue Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 66))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %s\n",
			meta.ID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			meta.Summary.Score,
			formatIssueSummary(meta.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'seoaudit compare <site>' to compare the latest two audits.")
	fmt.Fprintln(out, "Use 'seoaudit compare --with-audit-id <id> <site>' to compare with a specific audit.")

	return nil
}

// formatIssueSummary formats the severity counts into a compact string.
func formatIssueSummary(s database.IssueSummary) string {
	counts := []struct {
		label string
		n     int
	}{
		{"C", s.Critical}, {"H", s.High}, {"M", s.Medium}, {"L", s.Low}, {"I", s.Info},
	}

	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", c.label, c.n))
		}
	}
	if len(parts) == 0 {
		return noIssuesSummary
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit reports.
func runComparison(ctx context.Context, db *database.AuditDB, out io.Writer, site string, opts compareOptions) error {
	history, err := db.GetAuditHistory(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no audit history found for %s", site)
	}

	if len(history) < 2 && opts.withAuditID == 0 && opts.since == "" {
		return fmt.Errorf("at least 2 audits are required for comparison (found %d)", len(history))
	}

	// Latest report is always the current one
	current := history[0]
	var previous *database.StoredReport

	switch {
	case opts.withAuditID > 0:
		previous, err = db.GetAuditReportByID(ctx, opts.withAuditID)
		if err != nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", opts.withAuditID, err)
		}
		if previous == nil {
			return fmt.Errorf("audit with ID %d not found", opts.withAuditID)
		}
		if previous.Report.Site != site {
			return fmt.Errorf("audit ID %d belongs to %s, not %s", opts.withAuditID, previous.Report.Site, site)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("audit ID %d is the latest audit; choose an older one", opts.withAuditID)
		}
	case opts.since != "":
		parsedDate, err := time.ParseInLocation("2006-01-02", opts.since, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is newest first, so walk it backwards to find the oldest
		// audit at or after the date.
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Report.DateAudited.Before(parsedDate) {
				previous = history[i]
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no audits found since %s", opts.since)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", opts.since)
		}
	default:
		previous = history[1]
	}

	comparison := compareReports(previous, current)

	switch {
	case opts.json:
		return outputComparisonJSON(out, comparison)
	case opts.markdown:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// ComparisonResult holds the result of comparing two audit reports.
type ComparisonResult struct {
	// Site is the audited host.
	Site string `json:"site"`

	// PreviousAudit contains metadata about the previous audit.
	PreviousAudit AuditMetadata `json:"previous_audit"`

	// CurrentAudit contains metadata about the current audit.
	CurrentAudit AuditMetadata `json:"current_audit"`

	// NewIssues contains issues that are new in the current audit.
	NewIssues []model.Issue `json:"new_issues,omitempty"`

	// ResolvedIssues contains issues of the previous audit that are gone.
	ResolvedIssues []model.Issue `json:"resolved_issues,omitempty"`

	// UnchangedCount is the number of issues present in both audits.
	UnchangedCount int `json:"unchanged_count"`

	// TypeChanges lists the issue types whose count changed, in catalogue order.
	TypeChanges []TypeChange `json:"type_changes,omitempty"`

	// ScoreChange describes the change of the weighted issue score.
	ScoreChange ScoreChange `json:"score_change"`

	// ChangedPages are pages crawled both times whose content hash differs.
	ChangedPages []string `json:"changed_pages,omitempty"`

	// AddedPages were crawled only by the current audit.
	AddedPages []string `json:"added_pages,omitempty"`

	// RemovedPages were crawled only by the previous audit.
	RemovedPages []string `json:"removed_pages,omitempty"`
}

// AuditMetadata contains metadata about an audit for comparison display.
type AuditMetadata struct {
	ID            int64     `json:"id"`
	DateAudited   time.Time `json:"date_audited"`
	PagesCrawled  int       `json:"pages_crawled"`
	TotalIssues   int       `json:"total_issues"`
	CriticalCount int       `json:"critical_count"`
	HighCount     int       `json:"high_count"`
	MediumCount   int       `json:"medium_count"`
	LowCount      int       `json:"low_count"`
	InfoCount     int       `json:"info_count"`
	Score         int       `json:"score"`
}

// TypeChange is the count change of one issue type.
type TypeChange struct {
	Type     model.IssueType `json:"type"`
	Previous int             `json:"previous"`
	Current  int             `json:"current"`
	Delta    int             `json:"delta"`
}

// ScoreChange describes the change in weighted score between audits.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ScoreDelta is the change of the weighted score; negative is better.
	ScoreDelta int `json:"score_delta"`

	CriticalDelta int `json:"critical_delta"`
	HighDelta     int `json:"high_delta"`
	MediumDelta   int `json:"medium_delta"`
	LowDelta      int `json:"low_delta"`
	InfoDelta     int `json:"info_delta"`
}

// newAuditMetadata summarizes a stored report.
func newAuditMetadata(stored *database.StoredReport) AuditMetadata {
	summary := model.NewSummary(stored.Report)
	return AuditMetadata{
		ID:            stored.ID,
		DateAudited:   stored.Report.DateAudited,
		PagesCrawled:  stored.Report.PagesCrawled,
		TotalIssues:   summary.TotalIssues(),
		CriticalCount: summary.CriticalCount,
		HighCount:     summary.HighCount,
		MediumCount:   summary.MediumCount,
		LowCount:      summary.LowCount,
		InfoCount:     summary.InfoCount,
		Score:         summary.Score(),
	}
}

// compareReports compares two stored audit reports.
func compareReports(previous, current *database.StoredReport) *ComparisonResult {
	result := &ComparisonResult{
		Site:          current.Report.Site,
		PreviousAudit: newAuditMetadata(previous),
		CurrentAudit:  newAuditMetadata(current),
	}

	previousKeys := issueKeys(previous.Report.Issues)
	currentKeys := issueKeys(current.Report.Issues)

	for _, issue := range current.Report.Issues {
		if !previousKeys[issue.Key()] {
			result.NewIssues = append(result.NewIssues, issue)
		}
	}
	seen := make(map[string]bool, len(previous.Report.Issues))
	for _, issue := range previous.Report.Issues {
		key := issue.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if currentKeys[key] {
			result.UnchangedCount++
		} else {
			result.ResolvedIssues = append(result.ResolvedIssues, issue)
		}
	}

	result.TypeChanges = typeChanges(previous.Report, current.Report)
	result.ScoreChange = calculateScoreChange(result.PreviousAudit, result.CurrentAudit)
	result.ChangedPages, result.AddedPages, result.RemovedPages = comparePages(previous.PageHashes, current.PageHashes)

	return result
}

// issueKeys returns the set of issue keys.
func issueKeys(issues []model.Issue) map[string]bool {
	keys := make(map[string]bool, len(issues))
	for _, i := range issues {
		keys[i.Key()] = true
	}
	return keys
}

// typeChanges returns the issue types whose count differs, known types in
// catalogue order first.
func typeChanges(previous, current *model.AuditReport) []TypeChange {
	prevCounts := previous.IssueCounts()
	currCounts := current.IssueCounts()

	types := model.IssueTypes()
	var extra []model.IssueType
	for _, counts := range []map[model.IssueType]int{prevCounts, currCounts} {
		for t := range counts {
			if !slices.Contains(types, t) && !slices.Contains(extra, t) {
				extra = append(extra, t)
			}
		}
	}
	slices.Sort(extra)
	types = append(types, extra...)

	var changes []TypeChange
	for _, t := range types {
		p, c := prevCounts[t], currCounts[t]
		if p != c {
			changes = append(changes, TypeChange{Type: t, Previous: p, Current: c, Delta: c - p})
		}
	}
	return changes
}

// comparePages classifies the URLs of two page hash maps.
func comparePages(previous, current map[string]string) (changed, added, removed []string) {
	for u, hash := range current {
		prevHash, ok := previous[u]
		switch {
		case !ok:
			added = append(added, u)
		case prevHash != hash:
			changed = append(changed, u)
		}
	}
	for u := range previous {
		if _, ok := current[u]; !ok {
			removed = append(removed, u)
		}
	}
	slices.Sort(changed)
	slices.Sort(added)
	slices.Sort(removed)
	return changed, added, removed
}

// calculateScoreChange calculates the change in score between two audits.
func calculateScoreChange(previous, current AuditMetadata) ScoreChange {
	change := ScoreChange{
		ScoreDelta:    current.Score - previous.Score,
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		HighDelta:     current.HighCount - previous.HighCount,
		MediumDelta:   current.MediumCount - previous.MediumCount,
		LowDelta:      current.LowCount - previous.LowCount,
		InfoDelta:     current.InfoCount - previous.InfoCount,
	}

	switch {
	case change.ScoreDelta < 0:
		change.Direction = directionImproved
	case change.ScoreDelta > 0:
		change.Direction = directionWorsened
	default:
		change.Direction = directionUnchanged
	}
	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// severityRows returns the per-severity rows shared by the text and
// Markdown outputs: label, previous, current, delta.
func severityRows(result *ComparisonResult) [][]string {
	p, c, d := result.PreviousAudit, result.CurrentAudit, result.ScoreChange
	row := func(label string, prev, curr, delta int) []string {
		return []string{label, strconv.Itoa(prev), strconv.Itoa(curr), formatDelta(delta)}
	}
	return [][]string{
		row("Critical", p.CriticalCount, c.CriticalCount, d.CriticalDelta),
		row("High", p.HighCount, c.HighCount, d.HighDelta),
		row("Medium", p.MediumCount, c.MediumCount, d.MediumDelta),
		row("Low", p.LowCount, c.LowCount, d.LowDelta),
		row("Info", p.InfoCount, c.InfoCount, d.InfoDelta),
		row("Total", p.TotalIssues, c.TotalIssues, c.TotalIssues-p.TotalIssues),
		row("Score", p.Score, c.Score, d.ScoreDelta),
	}
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Audit Comparison: " + result.Site)
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")
	md.PlainTextf("**Status:** %s", formatDirection(result.ScoreChange.Direction))
	md.PlainText("")

	rows := [][]string{{
		"Date",
		result.PreviousAudit.DateAudited.Local().Format("2006-01-02 15:04"),
		result.CurrentAudit.DateAudited.Local().Format("2006-01-02 15:04"),
		"-",
	}, {
		"Pages",
		strconv.Itoa(result.PreviousAudit.PagesCrawled),
		strconv.Itoa(result.CurrentAudit.PagesCrawled),
		formatDelta(result.CurrentAudit.PagesCrawled - result.PreviousAudit.PagesCrawled),
	}}
	rows = append(rows, severityRows(result)...)
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.TypeChanges) > 0 {
		md.H2("Issue Types")
		md.PlainText("")
		typeRows := make([][]string, 0, len(result.TypeChanges))
		for _, tc := range result.TypeChanges {
			typeRows = append(typeRows, []string{
				model.GetIssueInfo(tc.Type).SheetName,
				strconv.Itoa(tc.Previous),
				strconv.Itoa(tc.Current),
				formatDelta(tc.Delta),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Issue", "Previous", "Current", "Change"},
			Rows:   typeRows,
		})
		md.PlainText("")
	}

	if len(result.NewIssues) > 0 {
		md.H2(fmt.Sprintf("New Issues (%d)", len(result.NewIssues)))
		md.PlainText("")
		md.BulletList(issueLines(result.NewIssues, false)...)
		md.PlainText("")
	}

	if len(result.ResolvedIssues) > 0 {
		md.H2(fmt.Sprintf("Resolved Issues (%d)", len(result.ResolvedIssues)))
		md.PlainText("")
		md.BulletList(issueLines(result.ResolvedIssues, true)...)
		md.PlainText("")
	}

	if len(result.ChangedPages)+len(result.AddedPages)+len(result.RemovedPages) > 0 {
		md.H2("Page Changes")
		md.PlainText("")
		var lines []string
		for _, u := range result.ChangedPages {
			lines = append(lines, "changed: "+u)
		}
		for _, u := range result.AddedPages {
			lines = append(lines, "added: "+u)
		}
		for _, u := range result.RemovedPages {
			lines = append(lines, "removed: "+u)
		}
		md.BulletList(lines...)
		md.PlainText("")
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainTextf("*%d issues unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// issueLines formats issues for the Markdown bullet lists.
func issueLines(issues []model.Issue, struck bool) []string {
	lines := make([]string, 0, len(issues))
	for _, i := range issues {
		line := fmt.Sprintf("**[%s]** %s: `%s`", i.SeverityText, model.GetIssueInfo(i.Type).SheetName, i.URL)
		if i.Value != "" {
			line += " " + i.Value
		}
		if struck {
			line = "~~" + line + "~~"
		}
		lines = append(lines, line)
	}
	return lines
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Audit Comparison: %s\n", result.Site)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.ScoreChange.Direction))

	fmt.Fprintf(out, "\nPrevious audit: #%d %s (%d pages)\n", result.PreviousAudit.ID,
		result.PreviousAudit.DateAudited.Local().Format("2006-01-02 15:04:05"), result.PreviousAudit.PagesCrawled)
	fmt.Fprintf(out, "Current audit:  #%d %s (%d pages)\n", result.CurrentAudit.ID,
		result.CurrentAudit.DateAudited.Local().Format("2006-01-02 15:04:05"), result.CurrentAudit.PagesCrawled)

	fmt.Fprintln(out, "\nIssues Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	for _, row := range severityRows(result) {
		if row[0] == "Total" {
			fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
		}
		fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", row[0], row[1], row[2], row[3])
	}

	if len(result.TypeChanges) > 0 {
		fmt.Fprintln(out, "\nIssue Types:")
		for _, tc := range result.TypeChanges {
			fmt.Fprintf(out, "  %-28s  %4d -> %-4d (%s)\n",
				model.GetIssueInfo(tc.Type).SheetName, tc.Previous, tc.Current, formatDelta(tc.Delta))
		}
	}

	if len(result.NewIssues) > 0 {
		fmt.Fprintf(out, "\nNew Issues (%d):\n", len(result.NewIssues))
		for _, i := range result.NewIssues {
			fmt.Fprintf(out, "  [+] [%s] %s: %s\n", i.SeverityText, model.GetIssueInfo(i.Type).SheetName, i.URL)
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Fprintf(out, "\nResolved Issues (%d):\n", len(result.ResolvedIssues))
		for _, i := range result.ResolvedIssues {
			fmt.Fprintf(out, "  [-] [%s] %s: %s\n", i.SeverityText, model.GetIssueInfo(i.Type).SheetName, i.URL)
		}
	}

	if n := len(result.ChangedPages) + len(result.AddedPages) + len(result.RemovedPages); n > 0 {
		fmt.Fprintf(out, "\nPage Changes (%d):\n", n)
		for _, u := range result.ChangedPages {
			fmt.Fprintf(out, "  [~] %s\n", u)
		}
		for _, u := range result.AddedPages {
			fmt.Fprintf(out, "  [+] %s\n", u)
		}
		for _, u := range result.RemovedPages {
			fmt.Fprintf(out, "  [-] %s\n", u)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d issues\n", result.UnchangedCount)
	}

	return nil
}

// formatDirection formats the score change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (fewer or less severe issues)"
	case directionWorsened:
		return "WORSENED (more or more severe issues)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
