package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// BatchOptions configures batch processing behavior.
type BatchOptions struct {
	Progress func()
	Workers  int
}

// DefaultBatchOptions returns sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Workers: 4,
	}
}

// BatchDocument is one input to a batch run.
type BatchDocument struct {
	Filename string
	Text     string
}

// batchResult carries one document's outcome through the worker pool.
type batchResult struct {
	err      error
	result   *DocumentResult
	filename string
}

// BatchSummary contains statistics about a batch run.
type BatchSummary struct {
	RunID          uuid.UUID
	Results        []DocumentResult
	Failures       []BatchFailure
	TotalDocuments int
	Accepted       int
	Unmatched      int
	Failed         int
	ProcessingTime time.Duration
}

// BatchFailure names a document that could not be processed.
type BatchFailure struct {
	Filename string
	Err      error
}

// ProcessBatch runs every document through the pipeline with parallel
// workers. A failed document is logged, recorded, and counted; it never
// aborts the rest of the batch.
func (e *Engine) ProcessBatch(ctx context.Context, docs []BatchDocument, opts BatchOptions) (*BatchSummary, error) {
	startTime := time.Now()

	if opts.Workers <= 0 {
		opts.Workers = DefaultBatchOptions().Workers
	}
	if opts.Workers > len(docs) && len(docs) > 0 {
		opts.Workers = len(docs)
	}

	summary := &BatchSummary{
		RunID:          uuid.New(),
		TotalDocuments: len(docs),
	}
	if len(docs) == 0 {
		slog.Info("No documents to process")
		return summary, nil
	}

	slog.Info("Starting batch run",
		"run_id", summary.RunID,
		"documents", len(docs),
		"workers", opts.Workers)

	workChan := make(chan BatchDocument, len(docs))
	for _, doc := range docs {
		workChan <- doc
	}
	close(workChan)

	resultsChan := make(chan batchResult, len(docs))

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer wg.Done()
			e.batchWorker(ctx, workChan, resultsChan, opts.Progress)
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for res := range resultsChan {
		if res.err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, BatchFailure{Filename: res.filename, Err: res.err})
			e.recordFailure(ctx, res.filename, res.err)
			slog.Warn("Failed to process document",
				"file", res.filename,
				"error", res.err)
			continue
		}

		summary.Results = append(summary.Results, *res.result)
		summary.Accepted += len(res.result.Updates)
		summary.Unmatched += len(res.result.Unmatched)
	}

	summary.ProcessingTime = time.Since(startTime)

	slog.Info("Batch run complete",
		"run_id", summary.RunID,
		"accepted", summary.Accepted,
		"unmatched", summary.Unmatched,
		"failed", summary.Failed,
		"duration", summary.ProcessingTime)

	return summary, nil
}

func (e *Engine) batchWorker(ctx context.Context, workChan <-chan BatchDocument, resultsChan chan<- batchResult, progress func()) {
	for doc := range workChan {
		select {
		case <-ctx.Done():
			resultsChan <- batchResult{filename: doc.Filename, err: ctx.Err()}
			continue
		default:
		}

		result, err := e.ProcessText(ctx, doc.Text, doc.Filename)
		resultsChan <- batchResult{
			filename: doc.Filename,
			result:   result,
			err:      err,
		}

		if progress != nil {
			progress()
		}
	}
}

// recordFailure writes a provenance row for a document that produced no
// updates so the run is still auditable.
func (e *Engine) recordFailure(ctx context.Context, filename string, failure error) {
	period, err := e.ledger.ActivePeriod(ctx)
	if err != nil {
		slog.Warn("Failed to resolve period for failure record", "error", err)
		return
	}

	if _, err := e.ledger.RecordDocument(ctx, &model.Document{
		PeriodID: period.ID,
		Filename: filename,
		Note:     failure.Error(),
	}); err != nil {
		slog.Warn("Failed to record failed document",
			"file", filename,
			"error", err)
	}
}
