package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/seoaudit/internal/model"
)

// goodPage returns a page that passes every content rule with the default
// thresholds.
func goodPage(url string) *model.PageRecord {
	return &model.PageRecord{
		URL:              url,
		Title:            "A well sized title for " + url,
		MetaDescriptions: []string{"A description long enough to pass the minimum length check for " + url},
		H1s:              []string{"Heading for " + url},
		Canonicals:       []string{url},
		WordCount:        500,
		ContentHash:      "hash-" + url,
		Images:           []model.Image{{Src: url + "/logo.png", Alt: "logo"}},
	}
}

// issuesOf filters issues by type.
func issuesOf(issues []model.Issue, t model.IssueType) []model.Issue {
	var out []model.Issue
	for _, i := range issues {
		if i.Type == t {
			out = append(out, i)
		}
	}
	return out
}

func TestAuditorCleanCorpus(t *testing.T) {
	t.Parallel()

	corpus := model.Corpus{goodPage("https://example.com/a"), goodPage("https://example.com/b")}
	issues, err := NewAuditor().Run(context.Background(), corpus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestTitleRule(t *testing.T) {
	t.Parallel()

	th := model.DefaultThresholds()

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()

		p := goodPage("https://example.com/a")
		p.Title = "   "
		issues := titleRule{}.Evaluate(model.Corpus{p}, th)
		if len(issues) != 1 || issues[0].Type != model.IssueMissingTitle {
			t.Fatalf("expected one Missing_Title, got %+v", issues)
		}
	})

	t.Run("short and long titles", func(t *testing.T) {
		t.Parallel()

		short := goodPage("https://example.com/short")
		short.Title = "Tiny"
		long := goodPage("https://example.com/long")
		long.Title = strings.Repeat("x", th.TitleMax+1)

		issues := titleRule{}.Evaluate(model.Corpus{short, long}, th)
		if got := issuesOf(issues, model.IssueShortTitles); len(got) != 1 || got[0].Length != 4 {
			t.Errorf("unexpected short titles: %+v", got)
		}
		if got := issuesOf(issues, model.IssueLongTitles); len(got) != 1 || got[0].Length != th.TitleMax+1 {
			t.Errorf("unexpected long titles: %+v", got)
		}
	})

	t.Run("length counts code points", func(t *testing.T) {
		t.Parallel()

		p := goodPage("https://example.com/ja")
		// 30 characters, 90 bytes.
		p.Title = strings.Repeat("日", 30)
		issues := titleRule{}.Evaluate(model.Corpus{p}, th)
		if len(issues) != 0 {
			t.Errorf("expected no issues for a 30 character title, got %+v", issues)
		}
	})

	t.Run("duplicate titles", func(t *testing.T) {
		t.Parallel()

		a := goodPage("https://example.com/a")
		b := goodPage("https://example.com/b")
		c := goodPage("https://example.com/c")
		a.Title = "The same title shared by two pages"
		b.Title = a.Title

		issues := issuesOf(titleRule{}.Evaluate(model.Corpus{a, b, c}, th), model.IssueDuplicateTitles)
		if len(issues) != 2 {
			t.Fatalf("expected 2 duplicate title issues, got %+v", issues)
		}
		if issues[0].URL != a.URL || issues[1].URL != b.URL {
			t.Errorf("unexpected order: %s, %s", issues[0].URL, issues[1].URL)
		}
	})
}

func TestMetaDescriptionRule(t *testing.T) {
	t.Parallel()

	th := model.DefaultThresholds()

	missing := goodPage("https://example.com/missing")
	missing.MetaDescriptions = nil

	multiple := goodPage("https://example.com/multiple")
	multiple.MetaDescriptions = []string{"one", "two", "one"}

	short := goodPage("https://example.com/short")
	short.MetaDescriptions = []string{"too short"}

	long := goodPage("https://example.com/long")
	long.MetaDescriptions = []string{strings.Repeat("d", th.MetaDescMax+5)}

	issues := metaDescriptionRule{}.Evaluate(model.Corpus{missing, multiple, short, long}, th)

	tests := []struct {
		name  string
		typ   model.IssueType
		url   string
		count int
	}{
		{name: "missing", typ: model.IssueMissingMetaDesc, url: missing.URL},
		{name: "multiple", typ: model.IssueMultipleMetaDesc, url: multiple.URL, count: 3},
		{name: "short", typ: model.IssueShortMetaDesc, url: short.URL},
		{name: "long", typ: model.IssueLongMetaDesc, url: long.URL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := issuesOf(issues, tt.typ)
			if len(got) != 1 {
				t.Fatalf("expected one %s issue, got %+v", tt.typ, got)
			}
			if got[0].URL != tt.url {
				t.Errorf("URL = %q, want %q", got[0].URL, tt.url)
			}
			if got[0].Count != tt.count {
				t.Errorf("Count = %d, want %d", got[0].Count, tt.count)
			}
		})
	}

	t.Run("multiple descriptions skip length checks", func(t *testing.T) {
		t.Parallel()

		for _, i := range issues {
			if i.URL == multiple.URL && i.Type != model.IssueMultipleMetaDesc {
				t.Errorf("unexpected %s issue for a page with several descriptions", i.Type)
			}
		}
	})

	t.Run("duplicate descriptions", func(t *testing.T) {
		t.Parallel()

		a := goodPage("https://example.com/a")
		b := goodPage("https://example.com/b")
		b.MetaDescriptions = a.MetaDescriptions

		got := issuesOf(metaDescriptionRule{}.Evaluate(model.Corpus{a, b}, th), model.IssueDuplicateMetaDesc)
		if len(got) != 2 {
			t.Errorf("expected 2 duplicate description issues, got %+v", got)
		}
	})
}

func TestHeadingRule(t *testing.T) {
	t.Parallel()

	th := model.DefaultThresholds()

	missing := goodPage("https://example.com/missing")
	missing.H1s = nil

	multiple := goodPage("https://example.com/multiple")
	multiple.H1s = []string{"First", strings.Repeat("h", th.H1Max+1)}

	a := goodPage("https://example.com/a")
	b := goodPage("https://example.com/b")
	a.H1s = []string{"Shared heading"}
	b.H1s = []string{"Shared heading"}

	issues := headingRule{}.Evaluate(model.Corpus{missing, multiple, a, b}, th)

	if got := issuesOf(issues, model.IssueMissingH1s); len(got) != 1 || got[0].URL != missing.URL {
		t.Errorf("unexpected missing H1 issues: %+v", got)
	}
	if got := issuesOf(issues, model.IssueMultipleH1s); len(got) != 1 || got[0].Count != 2 {
		t.Errorf("unexpected multiple H1 issues: %+v", got)
	}
	if got := issuesOf(issues, model.IssueLongH1s); len(got) != 1 || got[0].URL != multiple.URL {
		t.Errorf("unexpected long H1 issues: %+v", got)
	}
	got := issuesOf(issues, model.IssueDuplicateH1s)
	if len(got) != 2 {
		t.Fatalf("expected 2 duplicate H1 issues, got %+v", got)
	}
	for _, i := range got {
		if i.URL == multiple.URL {
			t.Error("pages with several H1s must not take part in duplicate detection")
		}
	}
}

func TestWordCountRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		words     int
		threshold int
		want      bool
	}{
		{name: "below threshold", words: 299, threshold: 300, want: true},
		{name: "at threshold", words: 300, threshold: 300, want: false},
		{name: "empty page", words: 0, threshold: 300, want: true},
		{name: "custom threshold", words: 150, threshold: 100, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := goodPage("https://example.com/")
			p.WordCount = tt.words
			th := model.DefaultThresholds()
			th.WordCount = tt.threshold

			issues := wordCountRule{}.Evaluate(model.Corpus{p}, th)
			if got := len(issues) == 1; got != tt.want {
				t.Fatalf("flagged = %v, want %v", got, tt.want)
			}
			if tt.want && issues[0].Count != tt.words {
				t.Errorf("Count = %d, want %d", issues[0].Count, tt.words)
			}
		})
	}
}

func TestDuplicateContentRule(t *testing.T) {
	t.Parallel()

	a := goodPage("https://example.com/a")
	b := goodPage("https://example.com/b")
	c := goodPage("https://example.com/c")
	unique := goodPage("https://example.com/unique")
	for _, p := range []*model.PageRecord{a, b, c} {
		p.ContentHash = "same"
	}

	empty1 := goodPage("https://example.com/empty1")
	empty2 := goodPage("https://example.com/empty2")
	for _, p := range []*model.PageRecord{empty1, empty2} {
		p.WordCount = 0
		p.ContentHash = "empty"
	}

	issues := duplicateContentRule{}.Evaluate(model.Corpus{a, unique, b, empty1, c, empty2}, model.DefaultThresholds())
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", issues)
	}
	for _, i := range issues {
		if i.Count != 3 {
			t.Errorf("%s: Count = %d, want 3", i.URL, i.Count)
		}
		if i.Value != "same" {
			t.Errorf("%s: Value = %q, want the shared hash", i.URL, i.Value)
		}
	}
}

func TestImageAltRule(t *testing.T) {
	t.Parallel()

	p := goodPage("https://example.com/")
	p.Images = []model.Image{
		{Src: "https://example.com/a.png", Alt: "A"},
		{Src: "https://example.com/b.png"},
		{Src: "https://cdn.example.net/c.jpg"},
	}

	issues := imageAltRule{}.Evaluate(model.Corpus{p}, model.DefaultThresholds())
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	if issues[0].URL != p.URL || issues[0].Value != "https://example.com/b.png" {
		t.Errorf("unexpected first issue: %+v", issues[0])
	}
}

func TestCanonicalRule(t *testing.T) {
	t.Parallel()

	self := goodPage("https://example.com/self")
	none := goodPage("https://example.com/none")
	none.Canonicals = nil
	other := goodPage("https://example.com/other")
	other.Canonicals = []string{"https://example.com/"}
	conflicting := goodPage("https://example.com/conflicting")
	conflicting.Canonicals = []string{"https://example.com/a", "https://example.com/b"}

	issues := canonicalRule{}.Evaluate(model.Corpus{self, none, other, conflicting}, model.DefaultThresholds())
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	if issues[0].Type != model.IssueNonSelfCanonicals || issues[0].Value != "https://example.com/" {
		t.Errorf("unexpected non-self issue: %+v", issues[0])
	}
	if issues[1].Type != model.IssueMultipleCanonicals || issues[1].Count != 2 {
		t.Errorf("unexpected multiple issue: %+v", issues[1])
	}
}

func TestValidHreflang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{value: "en", want: true},
		{value: "en-US", want: true},
		{value: "zh-Hant-TW", want: true},
		{value: "x-default", want: true},
		{value: "X-Default", want: true},
		{value: "", want: false},
		{value: "english", want: false},
		{value: "en_US!", want: false},
		{value: "123", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			if got := ValidHreflang(tt.value); got != tt.want {
				t.Errorf("ValidHreflang(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestHreflangRule(t *testing.T) {
	t.Parallel()

	p := goodPage("https://example.com/")
	p.Hreflangs = []model.Hreflang{
		{Lang: "en", Href: "https://example.com/"},
		{Lang: "english", Href: "https://example.com/en"},
		{Lang: "x-default", Href: "https://example.com/"},
	}

	issues := hreflangRule{}.Evaluate(model.Corpus{p}, model.DefaultThresholds())
	if len(issues) != 1 || issues[0].Value != "english" {
		t.Errorf("unexpected issues: %+v", issues)
	}
}

// countingRule emits the same issue twice.
type countingRule struct{}

func (countingRule) Name() string { return "counting" }

func (countingRule) Evaluate(corpus model.Corpus, _ model.Thresholds) []model.Issue {
	var issues []model.Issue
	for _, p := range corpus {
		issue := model.NewIssue(model.IssueLowWordCount, p.URL)
		issues = append(issues, issue, issue)
	}
	return issues
}

func TestAuditorOptions(t *testing.T) {
	t.Parallel()

	t.Run("thresholds merge with defaults", func(t *testing.T) {
		t.Parallel()

		a := NewAuditor(WithThresholds(model.Thresholds{WordCount: 50}))
		th := a.Thresholds()
		if th.WordCount != 50 {
			t.Errorf("WordCount = %d, want 50", th.WordCount)
		}
		if th.TitleMax != model.DefaultTitleMaxLength {
			t.Errorf("TitleMax = %d, want the default", th.TitleMax)
		}
	})

	t.Run("custom rules are deduplicated", func(t *testing.T) {
		t.Parallel()

		a := NewAuditor(WithRules(countingRule{}))
		issues, err := a.Run(context.Background(), model.Corpus{goodPage("https://example.com/")})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(issues) != 1 {
			t.Errorf("expected 1 issue after deduplication, got %d", len(issues))
		}
	})

	t.Run("register appends", func(t *testing.T) {
		t.Parallel()

		a := NewAuditor(WithRules())
		a.Register(countingRule{})
		issues, err := a.Run(context.Background(), model.Corpus{goodPage("https://example.com/")})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(issues) != 1 {
			t.Errorf("expected 1 issue, got %d", len(issues))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewAuditor().Run(ctx, model.Corpus{goodPage("https://example.com/")})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
