package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := ParseFlags("test", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri = %q", cfg.MongoURI)
	}
	if cfg.Database != "tsbs_benchmark" || cfg.Collection != "devops_metrics" {
		t.Errorf("database/collection = %q/%q", cfg.Database, cfg.Collection)
	}
	if cfg.TotalDocuments != 1_000_000 || cfg.BatchSize != 1000 || cfg.HostCount != 1000 {
		t.Errorf("volume defaults: %+v", cfg)
	}
	if cfg.Interval != 60*time.Second {
		t.Errorf("interval = %s, want 60s", cfg.Interval)
	}
	if !cfg.EnableSharding || !cfg.CreateIndexes {
		t.Error("setup toggles should default on")
	}
	if got := cfg.EffectiveMaxInFlight(); got != cfg.Workers {
		t.Errorf("effective max in flight = %d, want workers %d", got, cfg.Workers)
	}
}

func TestFlagOverrides(t *testing.T) {
	cfg, err := ParseFlags("test", []string{
		"-total-documents", "5000",
		"-batch-size", "250",
		"-workers", "8",
		"-max-in-flight", "16",
		"-document-size-kb", "4",
		"-interval", "30s",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.TotalDocuments != 5000 || cfg.BatchSize != 250 || cfg.Workers != 8 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if got := cfg.EffectiveMaxInFlight(); got != 16 {
		t.Errorf("effective max in flight = %d, want 16", got)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("interval = %s, want 30s", cfg.Interval)
	}
}

func TestValidateParsesTimes(t *testing.T) {
	cfg, err := ParseFlags("test", []string{
		"-start-time", "2024-06-01T00:00:00Z",
		"-end-time", "2024-06-02T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.StartTime != time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start time = %v", cfg.StartTime)
	}
	if cfg.EndTime.Sub(cfg.StartTime) != 24*time.Hour {
		t.Errorf("window = %s, want 24h", cfg.EndTime.Sub(cfg.StartTime))
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg, err := ParseFlags("test", []string{
		"-total-documents", "0",
		"-batch-size", "-5",
		"-document-size-variance", "1.5",
		"-start-time", "yesterday",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	verr := cfg.Validate()
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	for _, field := range []string{"total-documents", "batch-size", "document-size-variance", "start-time"} {
		if !strings.Contains(verr.Error(), field) {
			t.Errorf("validation error does not mention %s: %v", field, verr)
		}
	}
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	cfg, err := ParseFlags("test", []string{
		"-start-time", "2024-06-02T00:00:00Z",
		"-end-time", "2024-06-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if verr := cfg.Validate(); verr == nil || !strings.Contains(verr.Error(), "end-time") {
		t.Errorf("inverted window not rejected: %v", verr)
	}
}

func TestUnknownFlagFails(t *testing.T) {
	if _, err := ParseFlags("test", []string{"-no-such-flag"}); err == nil {
		t.Error("unknown flag accepted")
	}
}
