package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/seoaudit/internal/model"
)

// FileName is the database file created in the data directory.
const FileName = "seoaudit.db"

// timeLayout is a fixed-width UTC layout, so that stored timestamps sort
// lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// AuditDB provides SQLite-based storage for page records and audit reports.
//
// Design decision: We use a single database file for all sites rather
// than separate files per site. This keeps history listing a single query
// and simplifies backup/restore operations.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Path returns the database file path.
func (adb *AuditDB) Path() string {
	return adb.dbPath
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Pages hold the latest record of every crawled URL per site
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		title TEXT,
		word_count INTEGER,
		content_hash TEXT,
		record TEXT NOT NULL,
		UNIQUE(site, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON pages(content_hash);

	-- Audit reports store complete audit results as JSON
	CREATE TABLE IF NOT EXISTS audit_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		start_url TEXT NOT NULL,
		audited_at TEXT NOT NULL,
		report_json TEXT NOT NULL,
		issue_summary TEXT,
		page_hashes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON audit_reports(site);
	CREATE INDEX IF NOT EXISTS idx_reports_audited_at ON audit_reports(audited_at);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SavePages upserts the page records of site in one transaction.
func (adb *AuditDB) SavePages(ctx context.Context, site string, pages model.Corpus) error {
	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pages (site, url, title, word_count, content_hash, record)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(site, url) DO UPDATE SET
		title = excluded.title,
		word_count = excluded.word_count,
		content_hash = excluded.content_hash,
		record = excluded.record,
		timestamp = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pages {
		record, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to serialize page %s: %w", p.URL, err)
		}
		if _, err := stmt.ExecContext(ctx, site, p.URL, p.Title, p.WordCount, p.ContentHash, string(record)); err != nil {
			return fmt.Errorf("failed to save page %s: %w", p.URL, err)
		}
	}

	return tx.Commit()
}

// GetPage retrieves the stored record of a page. It returns nil when the
// page is unknown.
func (adb *AuditDB) GetPage(ctx context.Context, site, url string) (*model.PageRecord, error) {
	var record string
	err := adb.db.QueryRowContext(ctx,
		`SELECT record FROM pages WHERE site = ? AND url = ?`, site, url,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	var page model.PageRecord
	if err := json.Unmarshal([]byte(record), &page); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &page, nil
}

// CountPages returns the number of stored pages of site.
func (adb *AuditDB) CountPages(ctx context.Context, site string) (int, error) {
	var n int
	if err := adb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE site = ?`, site).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// IssueSummary is the per-severity and per-type issue count stored next to
// each report.
type IssueSummary struct {
	Critical int                     `json:"critical"`
	High     int                     `json:"high"`
	Medium   int                     `json:"medium"`
	Low      int                     `json:"low"`
	Info     int                     `json:"info"`
	Score    int                     `json:"score"`
	ByType   map[model.IssueType]int `json:"by_type,omitempty"`
}

// Total returns the number of issues.
func (s IssueSummary) Total() int {
	return s.Critical + s.High + s.Medium + s.Low + s.Info
}

// NewIssueSummary computes the summary of report.
func NewIssueSummary(report *model.AuditReport) IssueSummary {
	summary := model.NewSummary(report)
	return IssueSummary{
		Critical: summary.CriticalCount,
		High:     summary.HighCount,
		Medium:   summary.MediumCount,
		Low:      summary.LowCount,
		Info:     summary.InfoCount,
		Score:    summary.Score(),
		ByType:   summary.IssueCounts,
	}
}

// StoredReport is an audit report loaded from the database.
type StoredReport struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// Report is the decoded audit report.
	Report *model.AuditReport

	// PageHashes maps each crawled URL to its content hash at audit time.
	PageHashes map[string]string
}

// AuditReportMetadata contains summary information about an audit report.
// This is used for displaying audit history without loading the full report.
type AuditReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// Site is the audited host.
	Site string

	// StartURL is the crawl start URL.
	StartURL string

	// Timestamp is when the audit was performed.
	Timestamp time.Time

	// Summary contains the issue counts.
	Summary IssueSummary
}

// SaveAuditReport saves a complete audit report and returns its ID.
// The content hash of every crawled page is stored alongside, so that later
// comparisons can tell which pages changed.
func (adb *AuditDB) SaveAuditReport(ctx context.Context, report *model.AuditReport) (int64, error) {
	if report.ErrorMessage == "" && report.Error != nil {
		report.ErrorMessage = report.Error.Error()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(NewIssueSummary(report))
	if err != nil {
		return 0, fmt.Errorf("failed to serialize issue summary: %w", err)
	}

	hashes := make(map[string]string, len(report.Pages))
	for _, p := range report.Pages {
		hashes[p.URL] = p.ContentHash
	}
	hashesJSON, err := json.Marshal(hashes)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize page hashes: %w", err)
	}

	result, err := adb.db.ExecContext(ctx, `
	INSERT INTO audit_reports (site, start_url, audited_at, report_json, issue_summary, page_hashes)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.Site,
		report.StartURL,
		report.DateAudited.UTC().Format(timeLayout),
		string(reportJSON),
		string(summaryJSON),
		string(hashesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save audit report: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestAuditReport retrieves the most recent report of site.
// It returns nil when the site has no history.
func (adb *AuditDB) GetLatestAuditReport(ctx context.Context, site string) (*StoredReport, error) {
	row := adb.db.QueryRowContext(ctx, `
	SELECT id, report_json, page_hashes FROM audit_reports
	WHERE site = ?
	ORDER BY audited_at DESC, id DESC
	LIMIT 1
	`, site)
	return scanStoredReport(row)
}

// GetAuditReportByID retrieves a report by its database ID.
// It returns nil when no report has that ID.
func (adb *AuditDB) GetAuditReportByID(ctx context.Context, id int64) (*StoredReport, error) {
	row := adb.db.QueryRowContext(ctx, `
	SELECT id, report_json, page_hashes FROM audit_reports
	WHERE id = ?
	`, id)
	return scanStoredReport(row)
}

// GetAuditHistory retrieves every report of site, newest first.
func (adb *AuditDB) GetAuditHistory(ctx context.Context, site string) ([]*StoredReport, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT id, report_json, page_hashes FROM audit_reports
	WHERE site = ?
	ORDER BY audited_at DESC, id DESC
	`, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var reports []*StoredReport
	for rows.Next() {
		stored, err := scanStoredReport(rows)
		if err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, stored)
	}

	return reports, rows.Err()
}

// GetAuditHistoryWithMetadata retrieves report metadata of site, newest first.
// This is more efficient than GetAuditHistory when only metadata is needed.
func (adb *AuditDB) GetAuditHistoryWithMetadata(ctx context.Context, site string) ([]AuditReportMetadata, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT id, site, start_url, audited_at, issue_summary
	FROM audit_reports
	WHERE site = ?
	ORDER BY audited_at DESC, id DESC
	`, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []AuditReportMetadata
	for rows.Next() {
		var meta AuditReportMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Site, &meta.StartURL, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if summaryJSON.Valid && summaryJSON.String != "" {
			// A broken summary leaves zero counts.
			_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Summary)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListAuditedSites returns every site with at least one stored report.
func (adb *AuditDB) ListAuditedSites(ctx context.Context) ([]string, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT DISTINCT site FROM audit_reports
	ORDER BY site
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredReport(row rowScanner) (*StoredReport, error) {
	var (
		id         int64
		reportJSON string
		hashesJSON sql.NullString
	)
	err := row.Scan(&id, &reportJSON, &hashesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	stored := &StoredReport{ID: id, Report: &report, PageHashes: make(map[string]string)}
	if hashesJSON.Valid && hashesJSON.String != "" {
		if err := json.Unmarshal([]byte(hashesJSON.String), &stored.PageHashes); err != nil {
			return nil, fmt.Errorf("failed to parse page hashes: %w", err)
		}
	}
	return stored, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05", // SQLite default datetime format
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
