package audit

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/nao1215/seoaudit/internal/model"
)

// length counts code points, so that multi-byte titles are not over-reported.
func length(s string) int {
	return utf8.RuneCountInString(s)
}

// titleRule checks missing, short, long and duplicate titles.
type titleRule struct{}

func (titleRule) Name() string { return "title" }

func (titleRule) Evaluate(corpus model.Corpus, th model.Thresholds) []model.Issue {
	var issues []model.Issue
	titles := newDuplicateIndex()

	for _, p := range corpus {
		if !p.HasTitle() {
			issues = append(issues, model.NewIssue(model.IssueMissingTitle, p.URL))
			continue
		}
		n := length(p.Title)
		if n < th.TitleMin {
			issues = append(issues, textIssue(model.IssueShortTitles, p.URL, p.Title, n))
		}
		if n > th.TitleMax {
			issues = append(issues, textIssue(model.IssueLongTitles, p.URL, p.Title, n))
		}
		titles.add(p.Title, p.URL)
	}
	return append(issues, titles.issues(model.IssueDuplicateTitles)...)
}

// metaDescriptionRule checks missing, multiple, short, long and duplicate
// meta descriptions. Length and duplicate checks only apply to pages with
// exactly one description.
type metaDescriptionRule struct{}

func (metaDescriptionRule) Name() string { return "meta_description" }

func (metaDescriptionRule) Evaluate(corpus model.Corpus, th model.Thresholds) []model.Issue {
	var issues []model.Issue
	descriptions := newDuplicateIndex()

	for _, p := range corpus {
		switch n := len(p.MetaDescriptions); {
		case n == 0:
			issues = append(issues, model.NewIssue(model.IssueMissingMetaDesc, p.URL))
			continue
		case n > 1:
			issue := model.NewIssue(model.IssueMultipleMetaDesc, p.URL)
			issue.Count = n
			issues = append(issues, issue)
			continue
		}

		desc, _ := p.SingleMetaDescription()
		n := length(desc)
		if n < th.MetaDescMin {
			issues = append(issues, textIssue(model.IssueShortMetaDesc, p.URL, desc, n))
		}
		if n > th.MetaDescMax {
			issues = append(issues, textIssue(model.IssueLongMetaDesc, p.URL, desc, n))
		}
		descriptions.add(desc, p.URL)
	}
	return append(issues, descriptions.issues(model.IssueDuplicateMetaDesc)...)
}

// headingRule checks missing, multiple, long and duplicate H1s.
type headingRule struct{}

func (headingRule) Name() string { return "h1" }

func (headingRule) Evaluate(corpus model.Corpus, th model.Thresholds) []model.Issue {
	var issues []model.Issue
	headings := newDuplicateIndex()

	for _, p := range corpus {
		switch n := len(p.H1s); {
		case n == 0:
			issues = append(issues, model.NewIssue(model.IssueMissingH1s, p.URL))
		case n > 1:
			issue := model.NewIssue(model.IssueMultipleH1s, p.URL)
			issue.Count = n
			issues = append(issues, issue)
		}

		for _, h1 := range p.H1s {
			if n := length(h1); n > th.H1Max {
				issues = append(issues, textIssue(model.IssueLongH1s, p.URL, h1, n))
			}
		}

		if h1, ok := p.SingleH1(); ok {
			headings.add(h1, p.URL)
		}
	}
	return append(issues, headings.issues(model.IssueDuplicateH1s)...)
}

// wordCountRule flags thin pages.
type wordCountRule struct{}

func (wordCountRule) Name() string { return "word_count" }

func (wordCountRule) Evaluate(corpus model.Corpus, th model.Thresholds) []model.Issue {
	var issues []model.Issue
	for _, p := range corpus {
		if p.WordCount < th.WordCount {
			issue := model.NewIssue(model.IssueLowWordCount, p.URL)
			issue.Count = p.WordCount
			issues = append(issues, issue)
		}
	}
	return issues
}

// duplicateContentRule groups pages with identical visible text.
// Pages without any text are ignored; an empty page is reported as thin
// content instead.
type duplicateContentRule struct{}

func (duplicateContentRule) Name() string { return "duplicate_content" }

func (duplicateContentRule) Evaluate(corpus model.Corpus, _ model.Thresholds) []model.Issue {
	hashes := newDuplicateIndex()
	for _, p := range corpus {
		if p.WordCount == 0 || p.ContentHash == "" {
			continue
		}
		hashes.add(p.ContentHash, p.URL)
	}

	issues := hashes.issues(model.IssueDuplicateContent)
	for i := range issues {
		issues[i].Count = len(hashes.urls[issues[i].Value])
	}
	return issues
}

// imageAltRule flags images without alt text.
type imageAltRule struct{}

func (imageAltRule) Name() string { return "image_alt" }

func (imageAltRule) Evaluate(corpus model.Corpus, _ model.Thresholds) []model.Issue {
	var issues []model.Issue
	for _, p := range corpus {
		for _, img := range p.Images {
			if img.Alt == "" {
				issue := model.NewIssue(model.IssueImgMissingAlt, p.URL)
				issue.Value = img.Src
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

// canonicalRule flags canonicals pointing elsewhere and conflicting
// canonicals.
type canonicalRule struct{}

func (canonicalRule) Name() string { return "canonical" }

func (canonicalRule) Evaluate(corpus model.Corpus, _ model.Thresholds) []model.Issue {
	var issues []model.Issue
	for _, p := range corpus {
		switch len(p.Canonicals) {
		case 0:
		case 1:
			if p.Canonicals[0] != p.URL {
				issue := model.NewIssue(model.IssueNonSelfCanonicals, p.URL)
				issue.Value = p.Canonicals[0]
				issues = append(issues, issue)
			}
		default:
			issue := model.NewIssue(model.IssueMultipleCanonicals, p.URL)
			issue.Count = len(p.Canonicals)
			issues = append(issues, issue)
		}
	}
	return issues
}

// hreflangRule flags hreflang values that are not BCP 47 language tags.
type hreflangRule struct{}

func (hreflangRule) Name() string { return "hreflang" }

func (hreflangRule) Evaluate(corpus model.Corpus, _ model.Thresholds) []model.Issue {
	var issues []model.Issue
	for _, p := range corpus {
		for _, alt := range p.Hreflangs {
			if ValidHreflang(alt.Lang) {
				continue
			}
			issue := model.NewIssue(model.IssueInvalidHreflang, p.URL)
			issue.Value = alt.Lang
			issues = append(issues, issue)
		}
	}
	return issues
}

// ValidHreflang reports whether value is "x-default" or a well-formed
// language tag.
func ValidHreflang(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.EqualFold(value, "x-default") {
		return true
	}
	_, err := language.Parse(value)
	return err == nil
}

func textIssue(t model.IssueType, url, value string, n int) model.Issue {
	issue := model.NewIssue(t, url)
	issue.Value = value
	issue.Length = n
	return issue
}

// duplicateIndex groups page URLs by a text value in first-seen order.
type duplicateIndex struct {
	order []string
	urls  map[string][]string
}

func newDuplicateIndex() *duplicateIndex {
	return &duplicateIndex{urls: make(map[string][]string)}
}

// add records url under text. Empty text is ignored.
func (d *duplicateIndex) add(text, url string) {
	if text == "" {
		return
	}
	if _, ok := d.urls[text]; !ok {
		d.order = append(d.order, text)
	}
	d.urls[text] = append(d.urls[text], url)
}

// issues returns one issue per page for every text shared by two or more
// pages.
func (d *duplicateIndex) issues(t model.IssueType) []model.Issue {
	var issues []model.Issue
	for _, text := range d.order {
		urls := d.urls[text]
		if len(urls) < 2 {
			continue
		}
		for _, u := range urls {
			issue := model.NewIssue(t, u)
			issue.Value = text
			issues = append(issues, issue)
		}
	}
	return issues
}
