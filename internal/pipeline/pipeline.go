// Package pipeline drives document generation and concurrent batch
// insertion. Batch failures are recorded and logged but never abort a
// run; only setup errors and context cancellation do.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/engine"
	"github.com/mongobench/tsgen/internal/logging"
	"github.com/mongobench/tsgen/internal/sink"
	"github.com/mongobench/tsgen/internal/stats"
)

// hostGroupSize is how many hosts a single time-range task covers.
const hostGroupSize = 10

// Config tunes pipeline batching and concurrency.
type Config struct {
	// BatchSize is the number of documents per insert.
	BatchSize int
	// MaxInFlight caps concurrently inserting batches. Non-positive
	// defaults to runtime.NumCPU().
	MaxInFlight int
}

// BatchPipeline connects a generation engine to a sink.
type BatchPipeline struct {
	engine    *engine.Engine
	sink      sink.Sink
	batchSize int
	limiter   *ConcurrencyLimiter
	collector *stats.BatchCollector
	stopped   atomic.Bool
}

// New creates a pipeline.
func New(eng *engine.Engine, snk sink.Sink, cfg Config, collector *stats.BatchCollector) *BatchPipeline {
	return &BatchPipeline{
		engine:    eng,
		sink:      snk,
		batchSize: cfg.BatchSize,
		limiter:   NewConcurrencyLimiter(cfg.MaxInFlight),
		collector: collector,
	}
}

// ProcessBatch inserts one batch and records the outcome. An empty
// batch succeeds without touching statistics.
func (p *BatchPipeline) ProcessBatch(ctx context.Context, docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var bytes int64
	for _, d := range docs {
		bytes += int64(d.SizeBytes)
	}

	start := time.Now()
	err := p.sink.InsertDocuments(ctx, docs)
	elapsed := time.Since(start)

	if err != nil {
		p.collector.RecordFailure(elapsed)
		batchesFailedTotal.Inc()
		logging.Error("batch insert failed", logging.F(
			"documents", len(docs),
			"error", err.Error(),
		))
		return err
	}

	p.collector.RecordSuccess(len(docs), bytes, elapsed)
	batchesProcessedTotal.Inc()
	documentsInsertedTotal.Add(float64(len(docs)))
	bytesInsertedTotal.Add(float64(bytes))
	logging.Debug("batch processed", logging.F(
		"documents", len(docs),
		"bytes", bytes,
		"elapsed_ms", elapsed.Milliseconds(),
	))
	return nil
}

// RunBatched generates totalDocuments in batches and inserts them with
// bounded concurrency. Generation is single-producer; inserts run in
// worker goroutines gated by the in-flight limiter. Returns early only
// on context cancellation; submitted batches are always drained.
func (p *BatchPipeline) RunBatched(ctx context.Context, totalDocuments int) error {
	logging.Info("starting batched run", logging.F(
		"total_documents", totalDocuments,
		"batch_size", p.batchSize,
		"max_in_flight", p.limiter.Limit(),
	))

	var wg sync.WaitGroup
	defer wg.Wait()

	submitted := 0
	batches := 0
	for submitted < totalDocuments && !p.stopped.Load() {
		n := min(p.batchSize, totalDocuments-submitted)
		docs := p.engine.GenerateBatch(n)
		if len(docs) == 0 {
			logging.Warn("generated empty batch, stopping run")
			break
		}
		// Skipped documents are not retried; count what was requested so
		// the run terminates.
		submitted += n

		if err := p.limiter.AcquireContext(ctx); err != nil {
			return err
		}
		wg.Add(1)
		inFlightBatches.Inc()
		go func(batch []*document.Document) {
			defer wg.Done()
			defer p.limiter.Release()
			defer inFlightBatches.Dec()
			_ = p.ProcessBatch(ctx, batch)
		}(docs)

		batches++
		if batches%10 == 0 {
			logging.Info("progress", logging.F(
				"documents_submitted", submitted,
				"total_documents", totalDocuments,
			))
		}
	}

	return nil
}

// RunTimeRange generates a dense series for hostCount hosts over
// [start, end], fanning out per host group. Each group generates its
// hosts' documents chronologically and inserts them in batch-size
// chunks. Group insert failures are recorded, not returned.
func (p *BatchPipeline) RunTimeRange(ctx context.Context, hostCount int, start, end time.Time) error {
	groups := (hostCount + hostGroupSize - 1) / hostGroupSize
	logging.Info("starting time-range run", logging.F(
		"hosts", hostCount,
		"host_groups", groups,
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339),
	))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limiter.Limit())

	done := 0
	for lo := 0; lo < hostCount; lo += hostGroupSize {
		if p.stopped.Load() {
			break
		}
		hi := min(lo+hostGroupSize, hostCount)
		hostIDs := make([]int, 0, hi-lo)
		for id := lo; id < hi; id++ {
			hostIDs = append(hostIDs, id)
		}

		g.Go(func() error {
			if p.stopped.Load() {
				return nil
			}
			docs := p.engine.GenerateTimeRangeBatch(hostIDs, start, end)
			for i := 0; i < len(docs); i += p.batchSize {
				if err := ctx.Err(); err != nil {
					return err
				}
				chunk := docs[i:min(i+p.batchSize, len(docs))]
				_ = p.ProcessBatch(ctx, chunk)
			}
			return nil
		})

		done++
		if done%5 == 0 {
			logging.Info("progress", logging.F(
				"host_groups_submitted", done,
				"host_groups_total", groups,
			))
		}
	}

	return g.Wait()
}

// Stop requests a cooperative halt: no new batches or host groups are
// submitted, already submitted work completes and is counted.
func (p *BatchPipeline) Stop() {
	p.stopped.Store(true)
	logging.Info("pipeline stop requested")
}

// Stats returns a snapshot of batch statistics.
func (p *BatchPipeline) Stats() stats.BatchSnapshot {
	return p.collector.Snapshot()
}
