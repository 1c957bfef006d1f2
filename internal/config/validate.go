package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks the configuration and parses the raw time fields.
// All problems are reported together, each labelled with its field.
func (c *Config) Validate() error {
	var errs []error

	fail := func(field, format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	if c.MongoURI == "" {
		fail("mongo-uri", "must not be empty")
	}
	if c.Database == "" {
		fail("database", "must not be empty")
	}
	if c.Collection == "" {
		fail("collection", "must not be empty")
	}

	if c.TotalDocuments <= 0 {
		fail("total-documents", "must be positive, got %d", c.TotalDocuments)
	}
	if c.DocumentSizeKB <= 0 {
		fail("document-size-kb", "must be positive, got %g", c.DocumentSizeKB)
	}
	if c.DocumentSizeVariance < 0 || c.DocumentSizeVariance >= 1 {
		fail("document-size-variance", "must be in [0, 1), got %g", c.DocumentSizeVariance)
	}
	if c.HostCount <= 0 {
		fail("host-count", "must be positive, got %d", c.HostCount)
	}
	if c.Interval <= 0 {
		fail("interval", "must be positive, got %s", c.Interval)
	}

	if c.BatchSize <= 0 {
		fail("batch-size", "must be positive, got %d", c.BatchSize)
	}
	if c.Workers <= 0 {
		fail("workers", "must be positive, got %d", c.Workers)
	}
	if c.MaxInFlight < 0 {
		fail("max-in-flight", "must not be negative, got %d", c.MaxInFlight)
	}
	if c.TimeRangeHours <= 0 {
		fail("time-range-hours", "must be positive, got %d", c.TimeRangeHours)
	}

	if c.MemoryLimitRatio <= 0 || c.MemoryLimitRatio > 1 {
		fail("memory-limit-ratio", "must be in (0, 1], got %g", c.MemoryLimitRatio)
	}

	start, err := time.Parse(time.RFC3339, c.StartTimeRaw)
	if err != nil {
		fail("start-time", "not RFC3339: %v", err)
	} else {
		c.StartTime = start
	}
	end, err := time.Parse(time.RFC3339, c.EndTimeRaw)
	if err != nil {
		fail("end-time", "not RFC3339: %v", err)
	} else {
		c.EndTime = end
	}
	if !c.StartTime.IsZero() && !c.EndTime.IsZero() && !c.StartTime.Before(c.EndTime) {
		fail("end-time", "must be after start-time")
	}

	return errors.Join(errs...)
}
