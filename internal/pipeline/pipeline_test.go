package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/engine"
	"github.com/mongobench/tsgen/internal/stats"
)

// mockSink records batches under a mutex and optionally fails or calls
// a hook on every insert.
type mockSink struct {
	mu       sync.Mutex
	batches  [][]*document.Document
	err      error
	onInsert func()
}

func (m *mockSink) InsertDocuments(_ context.Context, docs []*document.Document) error {
	m.mu.Lock()
	m.batches = append(m.batches, docs)
	err := m.err
	cb := m.onInsert
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
	return err
}

func (m *mockSink) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func (m *mockSink) documentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func testPipeline(snk *mockSink, batchSize, maxInFlight int) *BatchPipeline {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	eng := engine.New(engine.Config{
		HostCount: 10,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Interval:  time.Minute,
	}, document.NewSizeController(1.0, 0.2), stats.NewGenerationCollector())

	return New(eng, snk, Config{
		BatchSize:   batchSize,
		MaxInFlight: maxInFlight,
	}, stats.NewBatchCollector())
}

func TestProcessBatchEmptyNoMutation(t *testing.T) {
	snk := &mockSink{}
	p := testPipeline(snk, 100, 2)

	if err := p.ProcessBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch returned error: %v", err)
	}

	s := p.Stats()
	if s.BatchesProcessed != 0 || s.BatchesFailed != 0 || s.TotalProcessingTime != 0 {
		t.Errorf("empty batch mutated stats: %+v", s)
	}
	if snk.batchCount() != 0 {
		t.Error("empty batch reached the sink")
	}
}

func TestProcessBatchAccounting(t *testing.T) {
	snk := &mockSink{}
	p := testPipeline(snk, 100, 2)

	docs := []*document.Document{
		{Measurement: "cpu", SizeBytes: 1000},
		{Measurement: "mem", SizeBytes: 1200},
	}
	if err := p.ProcessBatch(context.Background(), docs); err != nil {
		t.Fatalf("process: %v", err)
	}

	s := p.Stats()
	if s.BatchesProcessed != 1 || s.DocumentsInserted != 2 {
		t.Errorf("batches=%d documents=%d, want 1/2", s.BatchesProcessed, s.DocumentsInserted)
	}
	if s.BytesInserted != 2200 {
		t.Errorf("bytes = %d, want 2200", s.BytesInserted)
	}
}

func TestProcessBatchFailureRecorded(t *testing.T) {
	snk := &mockSink{err: errors.New("insert rejected")}
	p := testPipeline(snk, 100, 2)

	docs := []*document.Document{{Measurement: "cpu", SizeBytes: 500}}
	if err := p.ProcessBatch(context.Background(), docs); err == nil {
		t.Fatal("expected error from failing sink")
	}

	s := p.Stats()
	if s.BatchesFailed != 1 || s.BatchesProcessed != 0 {
		t.Errorf("batches=%d failed=%d, want 0/1", s.BatchesProcessed, s.BatchesFailed)
	}
	if s.DocumentsInserted != 0 || s.BytesInserted != 0 {
		t.Errorf("failed batch counted documents: %+v", s)
	}
}

func TestRunBatchedInsertsAll(t *testing.T) {
	snk := &mockSink{}
	p := testPipeline(snk, 100, 4)

	if err := p.RunBatched(context.Background(), 250); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := snk.documentCount(); got != 250 {
		t.Errorf("sink received %d documents, want 250", got)
	}
	if got := snk.batchCount(); got != 3 {
		t.Errorf("sink received %d batches, want 3", got)
	}

	s := p.Stats()
	if s.BatchesProcessed != 3 || s.DocumentsInserted != 250 {
		t.Errorf("stats: %+v", s)
	}
	if s.SuccessRate() != 100 {
		t.Errorf("success rate = %f, want 100", s.SuccessRate())
	}
}

func TestRunBatchedFailuresNotFatal(t *testing.T) {
	snk := &mockSink{err: errors.New("down")}
	p := testPipeline(snk, 100, 2)

	if err := p.RunBatched(context.Background(), 300); err != nil {
		t.Fatalf("run returned error on batch failures: %v", err)
	}

	s := p.Stats()
	if s.BatchesFailed != 3 || s.BatchesProcessed != 0 {
		t.Errorf("batches=%d failed=%d, want 0/3", s.BatchesProcessed, s.BatchesFailed)
	}
}

func TestStopBeforeRunSubmitsNothing(t *testing.T) {
	snk := &mockSink{}
	p := testPipeline(snk, 100, 2)

	p.Stop()
	if err := p.RunBatched(context.Background(), 1000); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := snk.batchCount(); got != 0 {
		t.Errorf("stopped pipeline submitted %d batches", got)
	}
}

func TestStopMidRunDrainsSubmitted(t *testing.T) {
	snk := &mockSink{}
	p := testPipeline(snk, 100, 2)
	snk.onInsert = p.Stop

	if err := p.RunBatched(context.Background(), 10000); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := snk.batchCount()
	if got < 1 {
		t.Fatal("no batches reached the sink")
	}
	if got >= 100 {
		t.Errorf("stop did not halt submissions: %d batches", got)
	}

	// Everything the sink saw is accounted for.
	s := p.Stats()
	if int(s.BatchesProcessed+s.BatchesFailed) != got {
		t.Errorf("stats count %d batches, sink saw %d",
			s.BatchesProcessed+s.BatchesFailed, got)
	}
}

func TestRunBatchedContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snk := &mockSink{}
	p := testPipeline(snk, 100, 1)

	if err := p.RunBatched(ctx, 1000); err == nil {
		t.Error("expected context error")
	}
	if got := snk.batchCount(); got != 0 {
		t.Errorf("canceled run submitted %d batches", got)
	}
}

func TestRunTimeRangeProcessesAllGroups(t *testing.T) {
	snk := &mockSink{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	eng := engine.New(engine.Config{
		HostCount: 25,
		StartTime: start,
		EndTime:   start,
		Interval:  time.Minute,
	}, document.NewSizeController(1.0, 0.2), stats.NewGenerationCollector())
	p := New(eng, snk, Config{BatchSize: 50, MaxInFlight: 4}, stats.NewBatchCollector())

	if err := p.RunTimeRange(context.Background(), 25, start, start); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 25 hosts x 13 measurements at a single step.
	if got := snk.documentCount(); got != 325 {
		t.Errorf("sink received %d documents, want 325", got)
	}
	if got := p.Stats().DocumentsInserted; got != 325 {
		t.Errorf("stats count %d documents, want 325", got)
	}
}

func TestRunTimeRangeFailuresRecordedNotReturned(t *testing.T) {
	snk := &mockSink{err: errors.New("down")}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	eng := engine.New(engine.Config{
		HostCount: 10,
		StartTime: start,
		EndTime:   start,
		Interval:  time.Minute,
	}, document.NewSizeController(1.0, 0.2), stats.NewGenerationCollector())
	p := New(eng, snk, Config{BatchSize: 1000, MaxInFlight: 2}, stats.NewBatchCollector())

	if err := p.RunTimeRange(context.Background(), 10, start, start); err != nil {
		t.Fatalf("run returned error on batch failures: %v", err)
	}
	if got := p.Stats().BatchesFailed; got != 1 {
		t.Errorf("failed batches = %d, want 1", got)
	}
}
