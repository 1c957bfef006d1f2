package engine

import (
	"testing"
	"time"

	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/stats"
	"github.com/mongobench/tsgen/internal/synth"
)

func testEngine(hostCount int) (*Engine, *stats.GenerationCollector) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	collector := stats.NewGenerationCollector()
	e := New(Config{
		HostCount: hostCount,
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
		Interval:  time.Minute,
	}, document.NewSizeController(4.0, 0.2), collector)
	return e, collector
}

func TestGenerateBatchCountAndShape(t *testing.T) {
	e, collector := testEngine(10)

	docs := e.GenerateBatch(200)
	if len(docs) != 200 {
		t.Fatalf("batch length = %d, want 200", len(docs))
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	valid := make(map[string]bool, len(synth.AllMetricTypes))
	for _, mt := range synth.AllMetricTypes {
		valid[string(mt)] = true
	}

	for i, doc := range docs {
		if doc.Timestamp.Before(start) || doc.Timestamp.After(end) {
			t.Errorf("doc %d: timestamp %v outside window", i, doc.Timestamp)
		}
		if !valid[doc.Measurement] {
			t.Errorf("doc %d: unknown measurement %q", i, doc.Measurement)
		}
		if doc.Metadata.Hostname == "" {
			t.Errorf("doc %d: empty hostname", i)
		}
		if doc.Fields == nil {
			t.Errorf("doc %d: nil fields", i)
		}
	}

	if got := collector.Snapshot().DocumentsGenerated; got != 200 {
		t.Errorf("collector counted %d documents, want 200", got)
	}
}

func TestGenerateBatchSizesWithinWindow(t *testing.T) {
	e, _ := testEngine(5)
	min, max := int(4096*0.8), int(4096*1.2)

	for _, doc := range e.GenerateBatch(50) {
		size, err := doc.Size()
		if err != nil {
			t.Fatalf("size: %v", err)
		}
		if size < min || size > max {
			t.Errorf("document size %d outside [%d, %d]", size, min, max)
		}
	}
}

func TestGenerateBatchMetadataStablePerHost(t *testing.T) {
	e, _ := testEngine(3)

	seen := make(map[string]synth.HostTags)
	for _, doc := range e.GenerateBatch(300) {
		prev, ok := seen[doc.Metadata.Hostname]
		if !ok {
			seen[doc.Metadata.Hostname] = doc.Metadata
			continue
		}
		if prev.Region != doc.Metadata.Region || prev.VPCID != doc.Metadata.VPCID {
			t.Fatalf("host %s: metadata changed between documents", doc.Metadata.Hostname)
		}
	}
	if len(seen) != 3 {
		t.Errorf("saw %d hosts in 300 samples, want 3", len(seen))
	}
}

func TestTimeRangeSingleHostSingleStep(t *testing.T) {
	e, _ := testEngine(10)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	docs := e.GenerateTimeRangeBatch([]int{4}, start, start)
	if len(docs) != len(synth.AllMetricTypes) {
		t.Fatalf("got %d documents, want %d", len(docs), len(synth.AllMetricTypes))
	}

	measurements := make(map[string]bool)
	for _, doc := range docs {
		measurements[doc.Measurement] = true
		if !doc.Timestamp.Equal(start) {
			t.Errorf("timestamp %v, want %v", doc.Timestamp, start)
		}
		if doc.Metadata.Hostname != docs[0].Metadata.Hostname {
			t.Error("documents for one host carry different metadata")
		}
	}
	if len(measurements) != len(synth.AllMetricTypes) {
		t.Errorf("got %d distinct measurements, want %d", len(measurements), len(synth.AllMetricTypes))
	}
}

func TestTimeRangeDenseWalk(t *testing.T) {
	e, collector := testEngine(10)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Minute) // 5 steps at 1m interval

	hosts := []int{0, 1, 2}
	docs := e.GenerateTimeRangeBatch(hosts, start, end)

	want := 5 * len(hosts) * len(synth.AllMetricTypes)
	if len(docs) != want {
		t.Fatalf("got %d documents, want %d", len(docs), want)
	}

	// Chronological order across steps.
	for i := 1; i < len(docs); i++ {
		if docs[i].Timestamp.Before(docs[i-1].Timestamp) {
			t.Fatalf("doc %d timestamp %v precedes doc %d timestamp %v",
				i, docs[i].Timestamp, i-1, docs[i-1].Timestamp)
		}
	}

	s := collector.Snapshot()
	if s.DocumentsGenerated != int64(want) {
		t.Errorf("collector counted %d, want %d", s.DocumentsGenerated, want)
	}
	if s.GenerationSkips != 0 {
		t.Errorf("unexpected skips: %d", s.GenerationSkips)
	}
}

func TestTimeRangeEmptyWhenEndBeforeStart(t *testing.T) {
	e, _ := testEngine(2)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if docs := e.GenerateTimeRangeBatch([]int{0}, start, start.Add(-time.Hour)); len(docs) != 0 {
		t.Errorf("got %d documents for inverted range, want 0", len(docs))
	}
}

func TestTimePointsFromWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := New(Config{
		HostCount: 1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Interval:  10 * time.Minute,
	}, document.NewSizeController(1.0, 0.1), stats.NewGenerationCollector())

	if got := e.TimePoints(); got != 7 {
		t.Errorf("time points = %d, want 7", got)
	}
}
