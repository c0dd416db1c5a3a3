package model

import (
	"strings"
	"testing"
)

func TestCatalogueCoversEveryIssueType(t *testing.T) {
	t.Parallel()

	sheets := make(map[string]IssueType)
	for _, it := range IssueTypes() {
		info, ok := issueCatalogue[it]
		if !ok {
			t.Errorf("issue type %q has no catalogue entry", it)
			continue
		}
		if info.SheetName == "" || len(info.SheetName) > 31 {
			t.Errorf("issue type %q has invalid sheet name %q", it, info.SheetName)
		}
		if prev, dup := sheets[info.SheetName]; dup {
			t.Errorf("sheet name %q used by %q and %q", info.SheetName, prev, it)
		}
		sheets[info.SheetName] = it
		if !strings.HasPrefix(info.Description, "Issue: ") {
			t.Errorf("description of %q should start with 'Issue: '", it)
		}
		if !strings.HasPrefix(info.Recommendation, "Recommendation: ") {
			t.Errorf("recommendation of %q should start with 'Recommendation: '", it)
		}
		if len(info.Columns) == 0 || info.Columns[0].Column != ColumnURL {
			t.Errorf("issue type %q should start with a URL column", it)
		}
	}

	if len(issueCatalogue) != len(IssueTypes()) {
		t.Errorf("catalogue has %d entries, order lists %d", len(issueCatalogue), len(IssueTypes()))
	}
}

func TestIssueInfoDescribe(t *testing.T) {
	t.Parallel()

	t.Run("default thresholds", func(t *testing.T) {
		t.Parallel()

		got := GetIssueInfo(IssueShortTitles).Describe(DefaultThresholds())
		if !strings.Contains(got, "fewer than 30 characters") {
			t.Errorf("unexpected description: %q", got)
		}
	})

	t.Run("custom thresholds", func(t *testing.T) {
		t.Parallel()

		th := DefaultThresholds()
		th.MetaDescMin = 50
		th.MetaDescMax = 155
		got := GetIssueInfo(IssueMissingMetaDesc).Recommend(th)
		if !strings.Contains(got, "between 50-155 chars") {
			t.Errorf("unexpected recommendation: %q", got)
		}
	})

	t.Run("zero thresholds fall back to defaults", func(t *testing.T) {
		t.Parallel()

		got := GetIssueInfo(IssueLowWordCount).Describe(Thresholds{})
		if !strings.Contains(got, "fewer than 300 words") {
			t.Errorf("unexpected description: %q", got)
		}
	})
}

func TestGetIssueInfoUnknown(t *testing.T) {
	t.Parallel()

	info := GetIssueInfo(IssueType("Some_New_Rule"))
	if info.SheetName != "Some New Rule" {
		t.Errorf("SheetName = %q", info.SheetName)
	}
	if info.Severity != SeverityInfo {
		t.Errorf("Severity = %v", info.Severity)
	}
}

func TestIssueRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue Issue
		want  []string
	}{
		{
			name: "short title",
			issue: func() Issue {
				i := NewIssue(IssueShortTitles, "https://example.com/")
				i.Value = "Home"
				i.Length = 4
				return i
			}(),
			want: []string{"https://example.com/", "Home", "4"},
		},
		{
			name: "broken link with status",
			issue: func() Issue {
				i := NewIssue(IssueBrokenInternal, "https://example.com/gone")
				i.StatusCode = 404
				i.Source = SourceInternalLinks
				i.FoundOn = []string{"https://example.com/", "https://example.com/a"}
				return i
			}(),
			want: []string{"https://example.com/gone", "404 Not Found", "internal_links", "https://example.com/\nhttps://example.com/a"},
		},
		{
			name: "broken link with transport error",
			issue: func() Issue {
				i := NewIssue(IssueBrokenSitemapURLs, "https://example.com/x")
				i.Error = "connection refused"
				return i
			}(),
			want: []string{"https://example.com/x", "connection refused"},
		},
		{
			name: "large image",
			issue: func() Issue {
				i := NewIssue(IssueLargeImages, "https://example.com/a.jpg")
				i.SizeKB = 150.456
				return i
			}(),
			want: []string{"https://example.com/a.jpg", "150.46", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.issue.Row()
			if len(got) != len(tt.want) {
				t.Fatalf("Row() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cell %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
