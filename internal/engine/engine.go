// Package engine turns per-host metric generators into batches of
// sink-ready documents.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/logging"
	"github.com/mongobench/tsgen/internal/stats"
	"github.com/mongobench/tsgen/internal/synth"
)

// Config holds the generation parameters the engine needs.
type Config struct {
	HostCount int
	StartTime time.Time
	EndTime   time.Time
	Interval  time.Duration
}

// hostBundle is the lazily built set of generators for one host. All
// generators share the host id seed, so a bundle reproduces the same
// sequence on every run.
type hostBundle struct {
	tags synth.HostTags
	cpu  *synth.CPUGenerator
	mem  *synth.MemGenerator
	disk *synth.DiskGenerator
	net  *synth.NetGenerator
	app  *synth.AppGenerator
}

// Engine produces document batches by sampling the configured host and
// time space. Batch generation is single-producer; time-range
// generation may run per host group concurrently because groups never
// share a host bundle.
type Engine struct {
	hostCount  int
	startTime  time.Time
	interval   time.Duration
	timePoints int

	sizer     *document.SizeController
	collector *stats.GenerationCollector
	tagGen    *synth.HostTagGenerator

	mu    sync.Mutex
	hosts map[int]*hostBundle
}

// New creates an engine for the given generation window.
func New(cfg Config, sizer *document.SizeController, collector *stats.GenerationCollector) *Engine {
	points := int(cfg.EndTime.Sub(cfg.StartTime)/cfg.Interval) + 1
	if points < 1 {
		points = 1
	}
	return &Engine{
		hostCount:  cfg.HostCount,
		startTime:  cfg.StartTime,
		interval:   cfg.Interval,
		timePoints: points,
		sizer:      sizer,
		collector:  collector,
		tagGen:     synth.NewHostTagGenerator(),
		hosts:      make(map[int]*hostBundle),
	}
}

// TimePoints reports how many timestamps the configured window covers.
func (e *Engine) TimePoints() int {
	return e.timePoints
}

func (e *Engine) bundle(hostID int) *hostBundle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.hosts[hostID]; ok {
		return b
	}
	b := &hostBundle{
		tags: e.tagGen.Generate(hostID),
		cpu:  synth.NewCPUGenerator(hostID, e.startTime),
		mem:  synth.NewMemGenerator(hostID, e.startTime),
		disk: synth.NewDiskGenerator(hostID, e.startTime),
		net:  synth.NewNetGenerator(hostID, e.startTime),
		app:  synth.NewAppGenerator(hostID, e.startTime),
	}
	e.hosts[hostID] = b
	return b
}

func (b *hostBundle) sample(mt synth.MetricType, ts time.Time) (synth.Sample, error) {
	switch mt {
	case synth.MetricCPU:
		return b.cpu.Generate(ts), nil
	case synth.MetricMem:
		return b.mem.Generate(ts), nil
	case synth.MetricDisk:
		return b.disk.Generate(ts), nil
	case synth.MetricNet:
		return b.net.Generate(ts), nil
	case synth.MetricDiskIO:
		return b.app.DiskIO(ts), nil
	case synth.MetricKernel:
		return b.app.Kernel(ts), nil
	case synth.MetricNginx:
		return b.app.Nginx(ts), nil
	case synth.MetricPostgreSQL:
		return b.app.PostgreSQL(ts), nil
	case synth.MetricRedis:
		return b.app.Redis(ts), nil
	case synth.MetricProcess:
		return b.app.Process(ts), nil
	case synth.MetricFilesystem:
		return b.app.Filesystem(ts), nil
	case synth.MetricSystem:
		return b.app.System(ts), nil
	case synth.MetricDocker:
		return b.app.Docker(ts), nil
	default:
		return nil, fmt.Errorf("unknown metric type %q", mt)
	}
}

// generate builds one padded document and records it in the generation
// statistics.
func (e *Engine) generate(hostID int, ts time.Time, mt synth.MetricType) (*document.Document, error) {
	b := e.bundle(hostID)

	sample, err := b.sample(mt, ts)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{
		Timestamp:   ts,
		Metadata:    b.tags,
		Measurement: string(mt),
		Fields:      sample,
	}
	size, err := e.sizer.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("size document: %w", err)
	}

	e.collector.RecordDocument(b.tags.Hostname+":"+string(mt), size)
	return doc, nil
}

// GenerateBatch produces count documents by uniform sampling over
// hosts, time points and metric types. Documents that fail to generate
// are logged and skipped, so the result may be shorter than count.
func (e *Engine) GenerateBatch(count int) []*document.Document {
	docs := make([]*document.Document, 0, count)
	for i := 0; i < count; i++ {
		hostID := rand.Intn(e.hostCount)
		ts := e.startTime.Add(time.Duration(rand.Intn(e.timePoints)) * e.interval)
		mt := synth.AllMetricTypes[rand.Intn(len(synth.AllMetricTypes))]

		doc, err := e.generate(hostID, ts, mt)
		if err != nil {
			logging.Warn("skipping document", logging.F(
				"host_id", hostID,
				"measurement", string(mt),
				"error", err.Error(),
			))
			e.collector.RecordSkip()
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// GenerateTimeRangeBatch produces a dense series for the given hosts:
// one document per host per metric type at every interval step from
// start through end, in chronological order. Chronological order keeps
// the stateful generators' cumulative counters realistic.
func (e *Engine) GenerateTimeRangeBatch(hostIDs []int, start, end time.Time) []*document.Document {
	steps := int(end.Sub(start)/e.interval) + 1
	if steps < 1 {
		return nil
	}
	docs := make([]*document.Document, 0, steps*len(hostIDs)*len(synth.AllMetricTypes))

	for step := 0; step < steps; step++ {
		ts := start.Add(time.Duration(step) * e.interval)
		for _, hostID := range hostIDs {
			for _, mt := range synth.AllMetricTypes {
				doc, err := e.generate(hostID, ts, mt)
				if err != nil {
					logging.Warn("skipping document", logging.F(
						"host_id", hostID,
						"measurement", string(mt),
						"error", err.Error(),
					))
					e.collector.RecordSkip()
					continue
				}
				docs = append(docs, doc)
			}
		}
	}
	return docs
}
