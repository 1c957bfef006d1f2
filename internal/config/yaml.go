package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is the configuration file structure. Pointer fields
// distinguish "absent" from zero values so the overlay never clobbers a
// default with an unset key.
type YAMLConfig struct {
	Mongo struct {
		URI        *string `yaml:"uri"`
		Database   *string `yaml:"database"`
		Collection *string `yaml:"collection"`
	} `yaml:"mongo"`

	Generation struct {
		TotalDocuments       *int     `yaml:"total_documents"`
		DocumentSizeKB       *float64 `yaml:"document_size_kb"`
		DocumentSizeVariance *float64 `yaml:"document_size_variance"`
		HostCount            *int     `yaml:"host_count"`
		StartTime            *string  `yaml:"start_time"`
		EndTime              *string  `yaml:"end_time"`
		Interval             *string  `yaml:"interval"`
	} `yaml:"generation"`

	Pipeline struct {
		BatchSize      *int `yaml:"batch_size"`
		Workers        *int `yaml:"workers"`
		MaxInFlight    *int `yaml:"max_in_flight"`
		TimeRangeHours *int `yaml:"time_range_hours"`
	} `yaml:"pipeline"`

	App struct {
		EnableSharding   *bool    `yaml:"enable_sharding"`
		CreateIndexes    *bool    `yaml:"create_indexes"`
		StatsAddr        *string  `yaml:"stats_addr"`
		MemoryLimitRatio *float64 `yaml:"memory_limit_ratio"`
		Debug            *bool    `yaml:"debug"`
	} `yaml:"app"`
}

// LoadYAML reads and parses a YAML configuration file.
func LoadYAML(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// apply overlays present file values onto cfg, skipping any field whose
// flag was set explicitly on the command line.
func (y *YAMLConfig) apply(cfg *Config, explicit map[string]bool) error {
	setString := func(flagName string, dst *string, src *string) {
		if src != nil && !explicit[flagName] {
			*dst = *src
		}
	}
	setInt := func(flagName string, dst *int, src *int) {
		if src != nil && !explicit[flagName] {
			*dst = *src
		}
	}
	setFloat := func(flagName string, dst *float64, src *float64) {
		if src != nil && !explicit[flagName] {
			*dst = *src
		}
	}
	setBool := func(flagName string, dst *bool, src *bool) {
		if src != nil && !explicit[flagName] {
			*dst = *src
		}
	}

	setString("mongo-uri", &cfg.MongoURI, y.Mongo.URI)
	setString("database", &cfg.Database, y.Mongo.Database)
	setString("collection", &cfg.Collection, y.Mongo.Collection)

	setInt("total-documents", &cfg.TotalDocuments, y.Generation.TotalDocuments)
	setFloat("document-size-kb", &cfg.DocumentSizeKB, y.Generation.DocumentSizeKB)
	setFloat("document-size-variance", &cfg.DocumentSizeVariance, y.Generation.DocumentSizeVariance)
	setInt("host-count", &cfg.HostCount, y.Generation.HostCount)
	setString("start-time", &cfg.StartTimeRaw, y.Generation.StartTime)
	setString("end-time", &cfg.EndTimeRaw, y.Generation.EndTime)
	if y.Generation.Interval != nil && !explicit["interval"] {
		d, err := time.ParseDuration(*y.Generation.Interval)
		if err != nil {
			return fmt.Errorf("generation.interval: %w", err)
		}
		cfg.Interval = d
	}

	setInt("batch-size", &cfg.BatchSize, y.Pipeline.BatchSize)
	setInt("workers", &cfg.Workers, y.Pipeline.Workers)
	setInt("max-in-flight", &cfg.MaxInFlight, y.Pipeline.MaxInFlight)
	setInt("time-range-hours", &cfg.TimeRangeHours, y.Pipeline.TimeRangeHours)

	setBool("enable-sharding", &cfg.EnableSharding, y.App.EnableSharding)
	setBool("create-indexes", &cfg.CreateIndexes, y.App.CreateIndexes)
	setString("stats-addr", &cfg.StatsAddr, y.App.StatsAddr)
	setFloat("memory-limit-ratio", &cfg.MemoryLimitRatio, y.App.MemoryLimitRatio)
	setBool("debug", &cfg.Debug, y.App.Debug)
	return nil
}
