package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leadsift/peoplescan/internal/model"
)

// BatchProcessor scans many sites concurrently, one pipeline per site.
// Sites run in parallel while each site's pages stay sequential, so the
// per-host pacing of the shared fetcher is preserved.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency caps simultaneous site scans. Default is 4.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called once
// per site so step state never leaks between scans.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch scans every website and streams each result to the
// callback as it completes, tagged with the website's input index so
// callers can rebuild input order. A failed site still yields its
// partial result; the error return only reports cancellation. The
// callback runs on the scanning goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatch(
	ctx context.Context,
	websites []string,
	callback func(result *model.SiteScanResult, index int),
) error {
	bp.logger.Info("starting batch", "sites", len(websites), "concurrency", bp.concurrency)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, website := range websites {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("scanning site", "website", website, "index", i+1, "total", len(websites))

			result := model.NewSiteScanResult(website)
			if err := bp.pipelineFactory().Execute(ctx, result); err != nil {
				bp.logger.Warn("scan aborted", "website", website, "error", err)
			}
			callback(result, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete", "sites", len(websites), "elapsed", time.Since(start))
	return err
}
