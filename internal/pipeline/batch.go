package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// DefaultBatchConcurrency is the number of sites audited at once when no
// concurrency is configured.
const DefaultBatchConcurrency = 2

// Factory creates the pipeline for one start URL. It is called once per
// site so that crawl state never leaks between audits.
type Factory func(startURL string) *Pipeline

// BatchProcessor handles concurrent audits of multiple sites.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-site execution
// 2. Each site gets its own pipeline, spider and visited set
type BatchProcessor struct {
	factory     Factory
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// NewReport creates the empty report for startURL.
func NewReport(startURL string) *model.AuditReport {
	startURL = strings.TrimSpace(startURL)
	return model.NewAuditReport(urlnorm.Host(startURL), startURL)
}

// Run audits a single site.
func (bp *BatchProcessor) Run(ctx context.Context, startURL string) (*model.AuditReport, error) {
	report := NewReport(startURL)
	err := bp.factory(startURL).Execute(ctx, report)
	return report, err
}

// ProcessBatch audits multiple sites concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
//
// Reports are returned in input order, including those of failed audits;
// the failure is recorded in the report. Sites never started because ctx
// ended have a nil report. The error is non-nil only when ctx ended.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.AuditReport, error) {
	reports := make([]*model.AuditReport, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(report *model.AuditReport, index int) {
		reports[index] = report
	})
	return reports, err
}

// ProcessBatchWithCallback audits multiple sites and calls callback for
// each completed audit. This is useful for streaming results.
//
// The callback receives the report and the index of the site in targets.
// It is called from the goroutine that completed the audit, so it must be
// safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(report *model.AuditReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_sites", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bp.logger.Info("auditing site",
				"url", target,
				"index", i+1,
				"total", len(targets),
			)

			report, err := bp.Run(gctx, target)
			if err != nil {
				// Recorded in the report; other sites keep going.
				bp.logger.Warn("audit failed", "url", target, "error", err)
			} else {
				bp.logger.Info("audit completed", "url", target, "issues", len(report.Issues))
			}
			callback(report, i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	bp.logger.Info("batch processing complete",
		"total_sites", len(targets),
		"elapsed", time.Since(startTime),
	)
	return err
}
