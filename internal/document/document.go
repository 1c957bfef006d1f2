// Package document defines the time-series document shape written to
// the storage sink and the controller that pads documents to a target
// serialized size.
package document

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongobench/tsgen/internal/synth"
)

// Document is one measurement for one host at one timestamp, shaped for
// a MongoDB time-series collection (timeField=timestamp,
// metaField=metadata).
type Document struct {
	Timestamp   time.Time      `bson:"timestamp"`
	Metadata    synth.HostTags `bson:"metadata"`
	Measurement string         `bson:"measurement"`
	Fields      synth.Sample   `bson:"fields"`
	Padding     string         `bson:"padding,omitempty"`

	// SizeBytes is the serialized size recorded when the size controller
	// padded the document. Not part of the stored document.
	SizeBytes int `bson:"-"`
}

// Size returns the document's BSON-serialized length in bytes.
func (d *Document) Size() (int, error) {
	data, err := bson.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}
	return len(data), nil
}
