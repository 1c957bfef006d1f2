// Package stats aggregates generation and insertion counters shared by
// concurrent workers. Counters are mutated under a mutex; derived rates
// are computed on read from snapshots so hot paths never divide.
package stats

import (
	"sync"
	"time"

	"github.com/axiomhq/hyperloglog"
)

// GenerationCollector tracks document synthesis progress.
type GenerationCollector struct {
	mu sync.Mutex

	documentsGenerated int64
	bytesGenerated     int64
	generationSkips    int64
	startTime          time.Time
	endTime            time.Time

	// series estimates unique (hostname, measurement) combinations in
	// fixed memory regardless of host count.
	series *hyperloglog.Sketch
}

// NewGenerationCollector creates an empty generation collector.
func NewGenerationCollector() *GenerationCollector {
	return &GenerationCollector{series: hyperloglog.New()}
}

// Start marks the beginning of the run window. Only the first call sets
// the start time so overlapping phases share one window.
func (c *GenerationCollector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime.IsZero() {
		c.startTime = time.Now()
	}
}

// Finish marks the end of the run window.
func (c *GenerationCollector) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
}

// RecordDocument accounts one generated document and its serialized
// size, and folds its series key into the cardinality sketch.
func (c *GenerationCollector) RecordDocument(seriesKey string, sizeBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documentsGenerated++
	c.bytesGenerated += int64(sizeBytes)
	c.series.Insert([]byte(seriesKey))
}

// RecordSkip accounts one document that failed to generate and was
// dropped from its batch.
func (c *GenerationCollector) RecordSkip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generationSkips++
}

// GenerationSnapshot is a point-in-time copy of generation counters.
type GenerationSnapshot struct {
	DocumentsGenerated int64
	BytesGenerated     int64
	GenerationSkips    int64
	UniqueSeries       uint64
	StartTime          time.Time
	EndTime            time.Time
}

// Snapshot returns a consistent copy of the collector state.
func (c *GenerationCollector) Snapshot() GenerationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GenerationSnapshot{
		DocumentsGenerated: c.documentsGenerated,
		BytesGenerated:     c.bytesGenerated,
		GenerationSkips:    c.generationSkips,
		UniqueSeries:       c.series.Estimate(),
		StartTime:          c.startTime,
		EndTime:            c.endTime,
	}
}

// Duration returns the covered wall-clock window, or zero when the run
// never started or finished.
func (s GenerationSnapshot) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// DocumentsPerSecond returns the generation rate over the run window.
func (s GenerationSnapshot) DocumentsPerSecond() float64 {
	d := s.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(s.DocumentsGenerated) / d
}

// MBPerSecond returns generation throughput in MB/s over the run window.
func (s GenerationSnapshot) MBPerSecond() float64 {
	d := s.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(s.BytesGenerated) / (1024 * 1024) / d
}

// AvgDocumentSize returns the mean serialized document size in bytes.
func (s GenerationSnapshot) AvgDocumentSize() float64 {
	if s.DocumentsGenerated == 0 {
		return 0
	}
	return float64(s.BytesGenerated) / float64(s.DocumentsGenerated)
}

// BatchCollector tracks insertion outcomes across pipeline workers.
type BatchCollector struct {
	mu sync.Mutex

	batchesProcessed    int64
	batchesFailed       int64
	documentsInserted   int64
	bytesInserted       int64
	totalProcessingTime time.Duration
}

// NewBatchCollector creates an empty batch collector.
func NewBatchCollector() *BatchCollector {
	return &BatchCollector{}
}

// RecordSuccess accounts one successfully inserted batch.
func (c *BatchCollector) RecordSuccess(documents int, bytes int64, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchesProcessed++
	c.documentsInserted += int64(documents)
	c.bytesInserted += bytes
	c.totalProcessingTime += elapsed
}

// RecordFailure accounts one batch whose insert failed.
func (c *BatchCollector) RecordFailure(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchesFailed++
	c.totalProcessingTime += elapsed
}

// BatchSnapshot is a point-in-time copy of batch counters.
type BatchSnapshot struct {
	BatchesProcessed    int64
	BatchesFailed       int64
	DocumentsInserted   int64
	BytesInserted       int64
	TotalProcessingTime time.Duration
}

// Snapshot returns a consistent copy of the collector state.
func (c *BatchCollector) Snapshot() BatchSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BatchSnapshot{
		BatchesProcessed:    c.batchesProcessed,
		BatchesFailed:       c.batchesFailed,
		DocumentsInserted:   c.documentsInserted,
		BytesInserted:       c.bytesInserted,
		TotalProcessingTime: c.totalProcessingTime,
	}
}

// SuccessRate returns the percentage of batches that succeeded, or 100
// when nothing ran yet.
func (s BatchSnapshot) SuccessRate() float64 {
	total := s.BatchesProcessed + s.BatchesFailed
	if total == 0 {
		return 100
	}
	return float64(s.BatchesProcessed) / float64(total) * 100
}

// AvgBatchTime returns the mean processing time per batch, failures
// included.
func (s BatchSnapshot) AvgBatchTime() time.Duration {
	total := s.BatchesProcessed + s.BatchesFailed
	if total == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(total)
}

// DocumentsPerSecond returns insertion throughput over accumulated
// processing time. With concurrent workers this is per-worker
// throughput, not wall-clock throughput.
func (s BatchSnapshot) DocumentsPerSecond() float64 {
	d := s.TotalProcessingTime.Seconds()
	if d <= 0 {
		return 0
	}
	return float64(s.DocumentsInserted) / d
}
