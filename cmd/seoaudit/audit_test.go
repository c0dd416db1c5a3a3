package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/crawler"
	"github.com/nao1215/seoaudit/internal/database"
	"github.com/nao1215/seoaudit/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptyConfigFile writes an empty configuration file so that tests do not
// pick up a .seoaudit from the working or home directory.
func emptyConfigFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".seoaudit")
	if err := os.WriteFile(path, []byte("sites:\n"), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// parseAuditCmd parses args with a fresh audit command and builds the config.
func parseAuditCmd(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	cmd := NewAuditCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return buildConfig(cmd, cmd.Flags().Args())
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseAuditCmd(t, "-c", emptyConfigFile(t), "https://example.com/")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if !slices.Equal(cfg.Targets, []string{"https://example.com/"}) {
			t.Errorf("Targets = %v", cfg.Targets)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, config.DefaultMaxPages)
		}
		if cfg.Politeness != crawler.DefaultPoliteness() {
			t.Errorf("Politeness = %+v, want the default pauses", cfg.Politeness)
		}
		if !cfg.SaveToDB || !cfg.CheckSitemap {
			t.Errorf("SaveToDB = %v, CheckSitemap = %v, want both enabled", cfg.SaveToDB, cfg.CheckSitemap)
		}
		if cfg.OutputFormat != config.DefaultOutputFormat {
			t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, config.DefaultOutputFormat)
		}
		if cfg.Headers != nil {
			t.Errorf("Headers = %v, want nil", cfg.Headers)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config is invalid: %v", err)
		}
	})

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseAuditCmd(t,
			"-c", emptyConfigFile(t),
			"-p", "25",
			"-w", "3",
			"--no-pause",
			"--no-save",
			"--no-sitemap",
			"--check-external",
			"-f", " JSON ",
			"-H", "X-Test: one",
			"-H", "Authorization: Bearer abc",
			"--ignore", "/admin/*",
			"-B", "0",
			"  https://example.com/  ",
			"",
		)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.MaxPages != 25 || cfg.Workers != 3 {
			t.Errorf("MaxPages = %d, Workers = %d, want 25 and 3", cfg.MaxPages, cfg.Workers)
		}
		if cfg.Politeness != (crawler.Politeness{}) {
			t.Errorf("Politeness = %+v, want no pauses", cfg.Politeness)
		}
		if cfg.SaveToDB || cfg.CheckSitemap || !cfg.CheckExternal {
			t.Errorf("SaveToDB = %v, CheckSitemap = %v, CheckExternal = %v",
				cfg.SaveToDB, cfg.CheckSitemap, cfg.CheckExternal)
		}
		if cfg.OutputFormat != "json" {
			t.Errorf("OutputFormat = %q, want json", cfg.OutputFormat)
		}
		if cfg.Headers["X-Test"] != "one" || cfg.Headers["Authorization"] != "Bearer abc" {
			t.Errorf("Headers = %v", cfg.Headers)
		}
		if !slices.Equal(cfg.IgnorePatterns, []string{"/admin/*"}) {
			t.Errorf("IgnorePatterns = %v", cfg.IgnorePatterns)
		}
		if cfg.LivenessBudget != 0 {
			t.Errorf("LivenessBudget = %d, want 0", cfg.LivenessBudget)
		}
		if !slices.Equal(cfg.Targets, []string{"https://example.com/"}) {
			t.Errorf("Targets = %v, want the trimmed URL only", cfg.Targets)
		}
	})

	t.Run("site configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "site.yaml")
		content := "sites:\n  example.com:\n    maxPages: 40\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := parseAuditCmd(t, "-c", path, "https://www.example.com/")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if got := cfg.ForSite(cfg.Targets[0]).MaxPages; got != 40 {
			t.Errorf("site MaxPages = %d, want 40", got)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.yaml")
		_, err := parseAuditCmd(t, "-c", missing, "https://example.com/")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid header", func(t *testing.T) {
		t.Parallel()

		_, err := parseAuditCmd(t, "-c", emptyConfigFile(t), "-H", "no-colon", "https://example.com/")
		if err == nil || !strings.Contains(err.Error(), "invalid header") {
			t.Errorf("expected invalid header error, got %v", err)
		}
	})
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none", raw: nil, want: nil},
		{name: "trimmed", raw: []string{" X-A :  1 "}, want: map[string]string{"X-A": "1"}},
		{name: "value with colon", raw: []string{"Referer: https://example.com/"}, want: map[string]string{"Referer": "https://example.com/"}},
		{name: "empty value", raw: []string{"X-Empty:"}, want: map[string]string{"X-Empty": ""}},
		{name: "missing colon", raw: []string{"X-A"}, wantErr: true},
		{name: "missing name", raw: []string{": value"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseHeaders(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHeaders() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) || (tt.want == nil) != (got == nil) {
				t.Fatalf("parseHeaders() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("header %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestSiteConfigPrecedence(t *testing.T) {
	t.Parallel()

	newCfg := func() *config.Config {
		cfg := config.NewConfig()
		cfg.MaxPages = 10
		cfg.Cookie = "flag=1"
		cfg.Headers = map[string]string{"X-Flag": "1"}
		cfg.SiteConfigs = &config.File{Sites: map[string]config.SiteConfig{
			"example.com": {
				MaxPages: 50,
				Cookie:   "site=1",
				Headers:  map[string]string{"X-Site": "1"},
			},
		}}
		return cfg
	}

	t.Run("site file over defaults", func(t *testing.T) {
		t.Parallel()

		sc := siteConfig(newCfg(), nil, "https://example.com/")
		if sc.MaxPages != 50 || sc.Cookie != "site=1" {
			t.Errorf("MaxPages = %d, Cookie = %q, want the site values", sc.MaxPages, sc.Cookie)
		}
		if sc.Headers["X-Site"] != "1" || sc.Headers["X-Flag"] != "1" {
			t.Errorf("Headers = %v, want both headers", sc.Headers)
		}
	})

	t.Run("flags over site file", func(t *testing.T) {
		t.Parallel()

		sc := siteConfig(newCfg(), []string{"max-pages", "cookie"}, "https://example.com/")
		if sc.MaxPages != 10 || sc.Cookie != "flag=1" {
			t.Errorf("MaxPages = %d, Cookie = %q, want the flag values", sc.MaxPages, sc.Cookie)
		}
	})

	t.Run("other sites keep flag values", func(t *testing.T) {
		t.Parallel()

		sc := siteConfig(newCfg(), nil, "https://example.org/")
		if sc.MaxPages != 10 || sc.Cookie != "flag=1" {
			t.Errorf("MaxPages = %d, Cookie = %q, want the global values", sc.MaxPages, sc.Cookie)
		}
		if !slices.Equal(sc.Targets, []string{"https://example.org/"}) {
			t.Errorf("Targets = %v", sc.Targets)
		}
	})
}

func TestReportPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  string
		site  string
		multi bool
		want  string
	}{
		{"stdout", "", "example.com", true, ""},
		{"single site", "out/report.json", "example.com", false, "out/report.json"},
		{"several sites", "out/report.json", "example.com", true, "out/report-example.com.json"},
		{"port in host", "report.xlsx", "127.0.0.1:8080", true, "report-127.0.0.1_8080.xlsx"},
		{"no extension", "report", "example.org", true, "report-example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := reportPath(tt.base, tt.site, tt.multi); got != tt.want {
				t.Errorf("reportPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// sampleReport returns a small finished report of example.com.
func sampleReport() *model.AuditReport {
	report := model.NewAuditReport("example.com", "https://example.com/")
	report.SetPages(model.Corpus{
		{URL: "https://example.com/", Title: "Home", WordCount: 300, ContentHash: "h1"},
		{URL: "https://example.com/about", WordCount: 120, ContentHash: "h2"},
	}, model.CrawlStats{PagesCrawled: 2})
	report.AddIssues(model.NewIssue(model.IssueMissingTitle, "https://example.com/about"))
	return report
}

func TestOutputReport(t *testing.T) {
	t.Parallel()

	t.Run("json file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputFormat = "json"
		cfg.IncludePages = true
		path := filepath.Join(t.TempDir(), "nested", "report.json")

		var out bytes.Buffer
		if err := outputReport(cfg, sampleReport(), path, &out); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}
		if !strings.Contains(out.String(), "Report written to "+path) {
			t.Errorf("unexpected output: %q", out.String())
		}

		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var decoded struct {
			Report struct {
				Site string `json:"site"`
			} `json:"report"`
			Pages []json.RawMessage `json:"pages"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if decoded.Report.Site != "example.com" || len(decoded.Pages) != 2 {
			t.Errorf("decoded site %q with %d pages", decoded.Report.Site, len(decoded.Pages))
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("failed to stat report: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("expected permissions 0600, got %o", perm)
			}
		}
	})

	t.Run("text to stdout", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := outputReport(config.NewConfig(), sampleReport(), "", &out); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}
		if !strings.Contains(out.String(), "example.com") {
			t.Errorf("text report does not mention the site:\n%s", out.String())
		}
	})

	t.Run("csv file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputFormat = "csv"
		path := filepath.Join(t.TempDir(), "report.csv")
		if err := outputReport(cfg, sampleReport(), path, io.Discard); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat report: %v", err)
		}
		if info.Size() == 0 {
			t.Error("expected a non-empty CSV report")
		}
	})
}

func TestSaveAuditReport(t *testing.T) {
	t.Parallel()

	t.Run("nil database is a no-op", func(t *testing.T) {
		t.Parallel()
		if err := saveAuditReport(context.Background(), nil, sampleReport(), discardLogger()); err != nil {
			t.Errorf("saveAuditReport() error = %v", err)
		}
	})

	t.Run("stores report and pages", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if err := saveAuditReport(ctx, db, sampleReport(), discardLogger()); err != nil {
			t.Fatalf("saveAuditReport() error = %v", err)
		}

		stored, err := db.GetLatestAuditReport(ctx, "example.com")
		if err != nil || stored == nil {
			t.Fatalf("GetLatestAuditReport() = %v, %v", stored, err)
		}
		if stored.PageHashes["https://example.com/about"] != "h2" {
			t.Errorf("PageHashes = %v", stored.PageHashes)
		}
		n, err := db.CountPages(ctx, "example.com")
		if err != nil {
			t.Fatalf("CountPages() error = %v", err)
		}
		if n != 2 {
			t.Errorf("CountPages() = %d, want 2", n)
		}
	})
}

const (
	testHomePage = `<html><head><title>Home page of the command test site</title></head>
<body><h1>Home</h1><a href="/about">About</a> <a href="/missing">Missing</a></body></html>`
	testAboutPage = `<html><head><title>About page of the command test site</title></head>
<body><h1>About</h1><a href="/">Home</a></body></html>`
)

func newAuditTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testHomePage)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testAboutPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// testAuditConfig returns a configuration that audits target without pauses
// and keeps the history database in a temporary directory.
func testAuditConfig(t *testing.T, targets ...string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Targets = targets
	cfg.Politeness = crawler.Politeness{}
	cfg.CheckSitemap = false
	cfg.DBDir = t.TempDir()
	cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	return cfg
}

func TestRunAudit(t *testing.T) {
	t.Parallel()

	t.Run("no targets", func(t *testing.T) {
		t.Parallel()

		cfg := testAuditConfig(t)
		err := runAudit(context.Background(), cfg, nil, discardLogger(), io.Discard, io.Discard)
		if err == nil || !strings.Contains(err.Error(), "no targets") {
			t.Errorf("expected 'no targets' error, got %v", err)
		}
	})

	t.Run("xlsx requires an output file", func(t *testing.T) {
		t.Parallel()

		cfg := testAuditConfig(t, "https://example.com/")
		cfg.OutputFormat = "xlsx"
		err := runAudit(context.Background(), cfg, nil, discardLogger(), io.Discard, io.Discard)
		if err == nil || !strings.Contains(err.Error(), "--output") {
			t.Errorf("expected --output error, got %v", err)
		}
	})

	t.Run("audits and stores the site", func(t *testing.T) {
		t.Parallel()

		srv := newAuditTestSite(t)
		cfg := testAuditConfig(t, srv.URL+"/")
		cfg.OutputFormat = "json"
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.json")

		var out, errOut bytes.Buffer
		if err := runAudit(context.Background(), cfg, nil, discardLogger(), &out, &errOut); err != nil {
			t.Fatalf("runAudit() error = %v (stderr: %s)", err, errOut.String())
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var decoded struct {
			Report model.AuditReport `json:"report"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if decoded.Report.PagesCrawled != 2 {
			t.Errorf("PagesCrawled = %d, want 2", decoded.Report.PagesCrawled)
		}
		brokenFound := false
		for _, issue := range decoded.Report.Issues {
			if issue.Type == model.IssueBrokenInternal {
				brokenFound = true
			}
		}
		if !brokenFound {
			t.Errorf("expected a broken internal link issue, got %v", decoded.Report.Issues)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		history, err := db.GetAuditHistory(context.Background(), decoded.Report.Site)
		if err != nil {
			t.Fatalf("GetAuditHistory() error = %v", err)
		}
		if len(history) != 1 {
			t.Errorf("expected 1 stored audit, got %d", len(history))
		}
	})

	t.Run("deadline before the first page fails without a report", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		cfg := testAuditConfig(t, srv.URL+"/")
		cfg.OutputFormat = "json"
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.json")

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		var out, errOut bytes.Buffer
		err := runAudit(ctx, cfg, nil, discardLogger(), &out, &errOut)
		if err == nil || !strings.Contains(err.Error(), "1 of 1 audits failed") {
			t.Errorf("expected failed audit error, got %v", err)
		}
		if _, statErr := os.Stat(cfg.ReportFile); !errors.Is(statErr, os.ErrNotExist) {
			t.Errorf("expected no report file, stat error = %v", statErr)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		sites, err := db.ListAuditedSites(context.Background())
		if err != nil {
			t.Fatalf("ListAuditedSites() error = %v", err)
		}
		if len(sites) != 0 {
			t.Errorf("expected nothing stored, got %v", sites)
		}
	})

	t.Run("unreachable site fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)
		cfg := testAuditConfig(t, srv.URL+"/")
		cfg.SaveToDB = false

		var out, errOut bytes.Buffer
		err := runAudit(context.Background(), cfg, nil, discardLogger(), &out, &errOut)
		if err == nil || !strings.Contains(err.Error(), "1 of 1 audits failed") {
			t.Errorf("expected failed audit error, got %v", err)
		}
		if !strings.Contains(errOut.String(), "Crawl failed") {
			t.Errorf("expected crawl failure message, got %q", errOut.String())
		}
	})
}
