package sink

import (
	"context"
	"testing"
	"time"

	"github.com/mongobench/tsgen/internal/document"
)

func TestUnconnectedSinkRejectsOperations(t *testing.T) {
	s := NewMongoSink(Config{URI: "mongodb://localhost:27017", Database: "db", Collection: "coll"})
	ctx := context.Background()

	if s.IsConnected() {
		t.Fatal("new sink reports connected")
	}

	docs := []*document.Document{{Timestamp: time.Now(), Measurement: "cpu"}}
	if err := s.InsertDocuments(ctx, docs); err == nil {
		t.Error("InsertDocuments on unconnected sink did not fail")
	}
	if err := s.CreateTimeSeriesCollection(ctx); err == nil {
		t.Error("CreateTimeSeriesCollection on unconnected sink did not fail")
	}
	if err := s.CreateIndexes(ctx); err == nil {
		t.Error("CreateIndexes on unconnected sink did not fail")
	}
	if err := s.SetupSharding(ctx); err == nil {
		t.Error("SetupSharding on unconnected sink did not fail")
	}
	if err := s.DropCollection(ctx); err == nil {
		t.Error("DropCollection on unconnected sink did not fail")
	}
	if _, err := s.Stats(ctx); err == nil {
		t.Error("Stats on unconnected sink did not fail")
	}
}

func TestEmptyBatchIsNoop(t *testing.T) {
	s := NewMongoSink(Config{})

	// Empty batches succeed even without a connection.
	if err := s.InsertDocuments(context.Background(), nil); err != nil {
		t.Errorf("empty batch returned error: %v", err)
	}
}

func TestDisconnectWithoutConnect(t *testing.T) {
	s := NewMongoSink(Config{})
	if err := s.Disconnect(context.Background()); err != nil {
		t.Errorf("disconnect on unconnected sink returned error: %v", err)
	}
}
