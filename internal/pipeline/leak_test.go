package pipeline

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

func TestLeakCheck_RunBatched(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	snk := &mockSink{}
	p := testPipeline(snk, 100, 4)
	if err := p.RunBatched(context.Background(), 500); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestLeakCheck_StopMidRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	snk := &mockSink{}
	p := testPipeline(snk, 100, 2)
	snk.onInsert = p.Stop
	if err := p.RunBatched(context.Background(), 10000); err != nil {
		t.Fatalf("run: %v", err)
	}
}
