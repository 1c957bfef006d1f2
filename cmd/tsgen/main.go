// tsgen generates synthetic infrastructure telemetry and loads it into
// a MongoDB time-series collection.
//
// Usage:
//
//	tsgen generate  [flags]   batched random sampling run (-dry-run to skip inserts)
//	tsgen timerange [flags]   dense per-host series over a time window
//	tsgen stats     [flags]   print collection statistics
//	tsgen drop      [flags]   drop the collection (requires -yes)
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mongobench/tsgen/internal/config"
	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/engine"
	"github.com/mongobench/tsgen/internal/logging"
	"github.com/mongobench/tsgen/internal/pipeline"
	"github.com/mongobench/tsgen/internal/sink"
	"github.com/mongobench/tsgen/internal/stats"
)

// version is set at build time via ldflags.
var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <generate|timerange|stats|drop> [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "run '%s <mode> -h' for mode flags\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	mode := os.Args[1]

	cfg, err := config.ParseFlags("tsgen "+mode, os.Args[2:])
	if err != nil {
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	logging.SetResource(map[string]string{
		"service.name":    "tsgen",
		"service.version": version,
	})
	logging.SetDebug(cfg.Debug)

	if limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(cfg.MemoryLimitRatio),
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	); err == nil {
		logging.Info("GOMEMLIMIT set", logging.F(
			"limit_bytes", limit,
			"ratio", cfg.MemoryLimitRatio,
		))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch mode {
	case "generate":
		err = runGenerate(ctx, cfg)
	case "timerange":
		err = runTimeRange(ctx, cfg)
	case "stats":
		err = runStats(ctx, cfg)
	case "drop":
		err = runDrop(ctx, cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Fatal("run failed", logging.F("mode", mode, "error", err.Error()))
	}
}

// connectSink connects, prepares the collection and returns the sink.
func connectSink(ctx context.Context, cfg *config.Config, setup bool) (*sink.MongoSink, error) {
	ms := sink.NewMongoSink(sink.Config{
		URI:        cfg.MongoURI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := ms.Connect(connectCtx); err != nil {
		return nil, err
	}

	if setup {
		if err := ms.CreateTimeSeriesCollection(ctx); err != nil {
			_ = ms.Disconnect(ctx)
			return nil, err
		}
		if cfg.CreateIndexes {
			if err := ms.CreateIndexes(ctx); err != nil {
				_ = ms.Disconnect(ctx)
				return nil, err
			}
		}
		if cfg.EnableSharding {
			if err := ms.SetupSharding(ctx); err != nil {
				_ = ms.Disconnect(ctx)
				return nil, err
			}
		}
	}
	return ms, nil
}

// startMetricsServer serves Prometheus metrics until the process exits.
func startMetricsServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logging.Info("metrics endpoint started", logging.F("addr", addr, "path", "/metrics"))
		if err := (&http.Server{Addr: addr, Handler: mux}).ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("metrics server error", logging.F("error", err.Error()))
		}
	}()
}

// stopOnSignal stops the pipeline on the first SIGINT/SIGTERM and exits
// on the second.
func stopOnSignal(p *pipeline.BatchPipeline) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logging.Info("signal received, draining in-flight batches")
		p.Stop()
		<-sigChan
		logging.Fatal("second signal received, exiting")
	}()
}

func buildPipeline(cfg *config.Config, snk sink.Sink, collector *stats.GenerationCollector) (*engine.Engine, *pipeline.BatchPipeline) {
	sizer := document.NewSizeController(cfg.DocumentSizeKB, cfg.DocumentSizeVariance)
	eng := engine.New(engine.Config{
		HostCount: cfg.HostCount,
		StartTime: cfg.StartTime,
		EndTime:   cfg.EndTime,
		Interval:  cfg.Interval,
	}, sizer, collector)
	p := pipeline.New(eng, snk, pipeline.Config{
		BatchSize:   cfg.BatchSize,
		MaxInFlight: cfg.EffectiveMaxInFlight(),
	}, stats.NewBatchCollector())
	return eng, p
}

func runGenerate(ctx context.Context, cfg *config.Config) error {
	startMetricsServer(cfg.StatsAddr)

	var snk sink.Sink = sink.Discard{}
	var ms *sink.MongoSink
	if cfg.DryRun {
		logging.Info("dry run: documents will be generated and discarded")
	} else {
		var err error
		ms, err = connectSink(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = ms.Disconnect(ctx) }()
		snk = ms
	}

	collector := stats.NewGenerationCollector()
	eng, p := buildPipeline(cfg, snk, collector)
	stopOnSignal(p)

	logging.Info("configuration", logging.F(
		"total_documents", cfg.TotalDocuments,
		"batch_size", cfg.BatchSize,
		"hosts", cfg.HostCount,
		"time_points", eng.TimePoints(),
		"document_size_kb", cfg.DocumentSizeKB,
		"workers", cfg.EffectiveMaxInFlight(),
		"dry_run", cfg.DryRun,
	))

	collector.Start()
	err := p.RunBatched(ctx, cfg.TotalDocuments)
	collector.Finish()
	report(ctx, collector.Snapshot(), p.Stats(), ms)
	return err
}

func runTimeRange(ctx context.Context, cfg *config.Config) error {
	startMetricsServer(cfg.StatsAddr)

	var snk sink.Sink = sink.Discard{}
	var ms *sink.MongoSink
	if cfg.DryRun {
		logging.Info("dry run: documents will be generated and discarded")
	} else {
		var err error
		ms, err = connectSink(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = ms.Disconnect(ctx) }()
		snk = ms
	}

	collector := stats.NewGenerationCollector()
	_, p := buildPipeline(cfg, snk, collector)
	stopOnSignal(p)

	end := cfg.StartTime.Add(time.Duration(cfg.TimeRangeHours) * time.Hour)
	logging.Info("configuration", logging.F(
		"hosts", cfg.HostCount,
		"time_range_hours", cfg.TimeRangeHours,
		"interval", cfg.Interval.String(),
		"batch_size", cfg.BatchSize,
		"workers", cfg.EffectiveMaxInFlight(),
		"dry_run", cfg.DryRun,
	))

	collector.Start()
	err := p.RunTimeRange(ctx, cfg.HostCount, cfg.StartTime, end)
	collector.Finish()
	report(ctx, collector.Snapshot(), p.Stats(), ms)
	return err
}

func runStats(ctx context.Context, cfg *config.Config) error {
	ms, err := connectSink(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = ms.Disconnect(ctx) }()

	cs, err := ms.Stats(ctx)
	if err != nil {
		return err
	}
	logging.Info("collection statistics", logging.F(
		"collection", cfg.Collection,
		"documents", cs.DocumentCount,
		"data_size", formatBytes(cs.SizeBytes),
		"storage_size", formatBytes(cs.StorageSizeBytes),
		"avg_document_size", formatBytes(cs.AvgDocumentSize),
		"indexes", cs.IndexCount,
		"index_size", formatBytes(cs.IndexSizeBytes),
	))
	return nil
}

func runDrop(ctx context.Context, cfg *config.Config) error {
	if !cfg.Yes {
		return fmt.Errorf("refusing to drop %s.%s without -yes", cfg.Database, cfg.Collection)
	}

	ms, err := connectSink(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = ms.Disconnect(ctx) }()

	return ms.DropCollection(ctx)
}

// report logs the end-of-run summary and, when a sink is connected, the
// resulting collection statistics.
func report(ctx context.Context, gen stats.GenerationSnapshot, batch stats.BatchSnapshot, ms *sink.MongoSink) {
	logging.Info("generation summary", logging.F(
		"documents_generated", gen.DocumentsGenerated,
		"bytes_generated", formatBytes(gen.BytesGenerated),
		"generation_skips", gen.GenerationSkips,
		"unique_series_estimate", gen.UniqueSeries,
		"avg_document_size", formatBytes(int64(gen.AvgDocumentSize())),
		"duration", gen.Duration().Round(time.Millisecond).String(),
		"docs_per_sec", fmt.Sprintf("%.1f", gen.DocumentsPerSecond()),
		"mb_per_sec", fmt.Sprintf("%.2f", gen.MBPerSecond()),
	))

	logging.Info("insertion summary", logging.F(
		"batches_processed", batch.BatchesProcessed,
		"batches_failed", batch.BatchesFailed,
		"documents_inserted", batch.DocumentsInserted,
		"bytes_inserted", formatBytes(batch.BytesInserted),
		"success_rate", fmt.Sprintf("%.1f%%", batch.SuccessRate()),
		"avg_batch_time", batch.AvgBatchTime().Round(time.Millisecond).String(),
		"docs_per_sec_per_worker", fmt.Sprintf("%.1f", batch.DocumentsPerSecond()),
	))

	if ms != nil && ms.IsConnected() {
		if cs, err := ms.Stats(ctx); err == nil {
			logging.Info("collection statistics", logging.F(
				"documents", cs.DocumentCount,
				"data_size", formatBytes(cs.SizeBytes),
				"storage_size", formatBytes(cs.StorageSizeBytes),
				"avg_document_size", formatBytes(cs.AvgDocumentSize),
				"indexes", cs.IndexCount,
				"index_size", formatBytes(cs.IndexSizeBytes),
			))
		}
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
