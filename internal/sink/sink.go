// Package sink writes generated document batches to MongoDB. The
// pipeline depends only on the Sink interface so tests can substitute
// an in-memory implementation.
package sink

import (
	"context"

	"github.com/mongobench/tsgen/internal/document"
)

// Sink accepts document batches for storage.
type Sink interface {
	// InsertDocuments stores a batch. Implementations must tolerate an
	// empty batch and return nil for it.
	InsertDocuments(ctx context.Context, docs []*document.Document) error
}

// Discard accepts and drops every batch. Used for dry runs that
// measure generation throughput without a MongoDB deployment.
type Discard struct{}

// InsertDocuments drops the batch.
func (Discard) InsertDocuments(context.Context, []*document.Document) error { return nil }

// CollectionStats summarizes the target collection after a run.
type CollectionStats struct {
	DocumentCount    int64
	SizeBytes        int64
	StorageSizeBytes int64
	AvgDocumentSize  int64
	IndexCount       int64
	IndexSizeBytes   int64
}
