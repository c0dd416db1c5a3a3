package audit

import (
	"context"

	"github.com/nao1215/seoaudit/internal/model"
)

// Rule is one content check over the corpus.
//
// Design decision: We use an interface rather than a fixed list of functions
// because:
//  1. Allows for easy extension with new rules
//  2. Enables testing each rule in isolation
//  3. Lets callers disable rules by registering their own set
type Rule interface {
	// Name returns the rule name for logging.
	Name() string

	// Evaluate returns the issues found in corpus.
	Evaluate(corpus model.Corpus, th model.Thresholds) []model.Issue
}

// Auditor runs content rules over a corpus.
type Auditor struct {
	rules      []Rule
	thresholds model.Thresholds
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithThresholds overrides the default thresholds. Zero fields keep their
// default value.
func WithThresholds(th model.Thresholds) AuditorOption {
	return func(a *Auditor) {
		a.thresholds = th.Merge(model.DefaultThresholds())
	}
}

// WithRules replaces the built-in rules.
func WithRules(rules ...Rule) AuditorOption {
	return func(a *Auditor) {
		a.rules = rules
	}
}

// NewAuditor creates an Auditor with all built-in content rules registered.
func NewAuditor(opts ...AuditorOption) *Auditor {
	a := &Auditor{
		thresholds: model.DefaultThresholds(),
		rules: []Rule{
			titleRule{},
			metaDescriptionRule{},
			headingRule{},
			wordCountRule{},
			duplicateContentRule{},
			imageAltRule{},
			canonicalRule{},
			hreflangRule{},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds a rule.
func (a *Auditor) Register(rule Rule) {
	a.rules = append(a.rules, rule)
}

// Thresholds returns the thresholds the rules run with.
func (a *Auditor) Thresholds() model.Thresholds {
	return a.thresholds
}

// Run evaluates every rule. Issues come out in rule order, then corpus order,
// with exact duplicates removed.
func (a *Auditor) Run(ctx context.Context, corpus model.Corpus) ([]model.Issue, error) {
	issues := make([]model.Issue, 0)
	for _, rule := range a.rules {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		issues = append(issues, rule.Evaluate(corpus, a.thresholds)...)
	}
	return deduplicateIssues(issues), nil
}

// deduplicateIssues removes issues with the same key, keeping the first.
func deduplicateIssues(issues []model.Issue) []model.Issue {
	seen := make(map[string]bool, len(issues))
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}
	return out
}
