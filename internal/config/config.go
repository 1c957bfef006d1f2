// Package config holds the flat application configuration. Values come
// from defaults, then an optional YAML file, then explicitly set flags,
// in increasing precedence.
package config

import (
	"flag"
	"fmt"
	"time"
)

// Config holds the application configuration.
type Config struct {
	// MongoDB settings
	MongoURI   string
	Database   string
	Collection string

	// Generation settings
	TotalDocuments       int
	DocumentSizeKB       float64
	DocumentSizeVariance float64
	HostCount            int
	StartTimeRaw         string
	EndTimeRaw           string
	Interval             time.Duration

	// Pipeline settings
	BatchSize   int
	Workers     int
	MaxInFlight int // 0 = Workers

	// Time-range mode settings
	TimeRangeHours int

	// Setup toggles
	EnableSharding bool
	CreateIndexes  bool

	// Operational settings
	StatsAddr        string
	MemoryLimitRatio float64
	Debug            bool
	DryRun           bool
	Yes              bool

	// Parsed by Validate from the raw flag values.
	StartTime time.Time
	EndTime   time.Time
}

// ParseFlags parses the given arguments (without the program name) into
// a Config. A -config YAML file is applied over the defaults; flags set
// explicitly on the command line win over the file.
func ParseFlags(name string, args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var configFile string
	fs.StringVar(&configFile, "config", "", "Path to YAML configuration file")

	// MongoDB settings
	fs.StringVar(&cfg.MongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
	fs.StringVar(&cfg.Database, "database", "tsbs_benchmark", "Database name")
	fs.StringVar(&cfg.Collection, "collection", "devops_metrics", "Time-series collection name")

	// Generation settings
	fs.IntVar(&cfg.TotalDocuments, "total-documents", 1_000_000, "Total number of documents to generate")
	fs.Float64Var(&cfg.DocumentSizeKB, "document-size-kb", 1.0, "Target document size in KB")
	fs.Float64Var(&cfg.DocumentSizeVariance, "document-size-variance", 0.2, "Document size variance fraction (0.0-1.0)")
	fs.IntVar(&cfg.HostCount, "host-count", 1000, "Number of simulated hosts")
	fs.StringVar(&cfg.StartTimeRaw, "start-time", "2024-01-01T00:00:00Z", "Series start time (RFC3339)")
	fs.StringVar(&cfg.EndTimeRaw, "end-time", "2024-12-31T23:59:59Z", "Series end time (RFC3339)")
	fs.DurationVar(&cfg.Interval, "interval", 60*time.Second, "Time between measurements")

	// Pipeline settings
	fs.IntVar(&cfg.BatchSize, "batch-size", 1000, "Documents per insert batch")
	fs.IntVar(&cfg.Workers, "workers", 4, "Parallel insert workers")
	fs.IntVar(&cfg.MaxInFlight, "max-in-flight", 0, "Cap on concurrently inserting batches (0 = workers)")

	// Time-range mode settings
	fs.IntVar(&cfg.TimeRangeHours, "time-range-hours", 24, "Hours of dense per-host series in timerange mode")

	// Setup toggles
	fs.BoolVar(&cfg.EnableSharding, "enable-sharding", true, "Shard the collection on hashed hostname + timestamp")
	fs.BoolVar(&cfg.CreateIndexes, "create-indexes", true, "Create the recommended indexes")

	// Operational settings
	fs.StringVar(&cfg.StatsAddr, "stats-addr", ":8888", "Prometheus metrics listen address (empty = disabled)")
	fs.Float64Var(&cfg.MemoryLimitRatio, "memory-limit-ratio", 0.8, "Fraction of container memory for GOMEMLIMIT")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Generate without inserting")
	fs.BoolVar(&cfg.Yes, "yes", false, "Skip confirmation for destructive commands")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

		yamlCfg, err := LoadYAML(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		if err := yamlCfg.apply(cfg, explicit); err != nil {
			return nil, fmt.Errorf("apply config file: %w", err)
		}
	}

	return cfg, nil
}

// EffectiveMaxInFlight resolves the in-flight batch cap.
func (c *Config) EffectiveMaxInFlight() int {
	if c.MaxInFlight > 0 {
		return c.MaxInFlight
	}
	return c.Workers
}
