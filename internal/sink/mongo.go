package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/mongobench/tsgen/internal/document"
	"github.com/mongobench/tsgen/internal/logging"
)

// Config identifies the target deployment and collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// MongoSink writes batches into a MongoDB time-series collection. A
// circuit breaker around inserts stops hammering a deployment that is
// rejecting writes; tripped-breaker errors surface as failed batches
// like any other insert error.
type MongoSink struct {
	cfg     Config
	client  *mongo.Client
	db      *mongo.Database
	coll    *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

// NewMongoSink creates an unconnected sink. Call Connect before use.
func NewMongoSink(cfg Config) *MongoSink {
	return &MongoSink{
		cfg: cfg,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mongo-sink",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn("circuit breaker state changed", logging.F(
					"name", name,
					"from", from.String(),
					"to", to.String(),
				))
			},
		}),
	}
}

// Connect establishes the client with pool and timeout settings tuned
// for sustained bulk inserts, and verifies the deployment with a ping.
func (s *MongoSink) Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(s.cfg.URI).
		SetMaxPoolSize(50).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetConnectTimeout(20 * time.Second).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping: %w", err)
	}

	s.client = client
	s.db = client.Database(s.cfg.Database)
	s.coll = s.db.Collection(s.cfg.Collection)

	logging.Info("connected to mongodb", logging.F(
		"database", s.cfg.Database,
		"collection", s.cfg.Collection,
	))
	return nil
}

// Disconnect closes the client. Safe to call on an unconnected sink.
func (s *MongoSink) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.db, s.coll = nil, nil, nil
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	logging.Info("disconnected from mongodb")
	return nil
}

// IsConnected reports whether Connect succeeded and Disconnect has not
// been called.
func (s *MongoSink) IsConnected() bool {
	return s.client != nil
}

// InsertDocuments stores a batch with an unordered insert so one bad
// document does not abort the rest. A partial result is treated as
// success with a warning; the driver reports per-document errors
// separately.
func (s *MongoSink) InsertDocuments(ctx context.Context, docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if !s.IsConnected() {
		return fmt.Errorf("sink not connected")
	}

	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		res, err := s.coll.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
		if err != nil {
			return nil, err
		}
		if len(res.InsertedIDs) != len(docs) {
			logging.Warn("partial batch insert", logging.F(
				"expected", len(docs),
				"inserted", len(res.InsertedIDs),
			))
		}
		return res, nil
	})
	if err != nil {
		return fmt.Errorf("insert %d documents: %w", len(docs), err)
	}
	return nil
}

// CreateTimeSeriesCollection creates the target collection with
// minute-granularity time-series options. Existing collections are left
// untouched.
func (s *MongoSink) CreateTimeSeriesCollection(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("sink not connected")
	}

	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": s.cfg.Collection})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) > 0 {
		logging.Info("collection already exists", logging.F("collection", s.cfg.Collection))
		return nil
	}

	tsOpts := options.TimeSeries().
		SetTimeField("timestamp").
		SetMetaField("metadata").
		SetGranularity("minutes")

	if err := s.db.CreateCollection(ctx, s.cfg.Collection,
		options.CreateCollection().SetTimeSeriesOptions(tsOpts)); err != nil {
		return fmt.Errorf("create time-series collection: %w", err)
	}

	logging.Info("created time-series collection", logging.F(
		"collection", s.cfg.Collection,
		"time_field", "timestamp",
		"meta_field", "metadata",
		"granularity", "minutes",
	))
	return nil
}

// CreateIndexes builds the compound indexes that back the common query
// shapes: per-host, per-location, per-service, per-measurement and raw
// time-range scans.
func (s *MongoSink) CreateIndexes(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("sink not connected")
	}

	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "metadata.hostname", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("hostname_timestamp_idx"),
		},
		{
			Keys: bson.D{
				{Key: "metadata.region", Value: 1},
				{Key: "metadata.datacenter", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("region_datacenter_timestamp_idx"),
		},
		{
			Keys: bson.D{
				{Key: "metadata.service", Value: 1},
				{Key: "metadata.service_environment", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("service_environment_timestamp_idx"),
		},
		{
			Keys: bson.D{
				{Key: "measurement", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("measurement_timestamp_idx"),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("timestamp_idx"),
		},
	}

	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	logging.Info("created indexes", logging.F("count", len(models)))
	return nil
}

// SetupSharding enables sharding on the database and shards the
// collection on a hashed hostname plus timestamp key. Both steps
// tolerate having already been applied; sharding being unavailable
// (standalone or replica set deployments) is a warning, not an error.
func (s *MongoSink) SetupSharding(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("sink not connected")
	}

	admin := s.client.Database("admin")

	err := admin.RunCommand(ctx, bson.D{
		{Key: "enableSharding", Value: s.cfg.Database},
	}).Err()
	if err != nil && !strings.Contains(err.Error(), "already enabled") {
		logging.Warn("sharding unavailable", logging.F("error", err.Error()))
		return nil
	}

	err = admin.RunCommand(ctx, bson.D{
		{Key: "shardCollection", Value: s.cfg.Database + "." + s.cfg.Collection},
		{Key: "key", Value: bson.D{
			{Key: "metadata.hostname", Value: "hashed"},
			{Key: "timestamp", Value: 1},
		}},
	}).Err()
	if err != nil {
		if strings.Contains(err.Error(), "already sharded") {
			logging.Info("collection already sharded")
			return nil
		}
		logging.Warn("shard collection failed", logging.F("error", err.Error()))
		return nil
	}

	logging.Info("sharding configured", logging.F(
		"shard_key", "metadata.hostname (hashed), timestamp",
	))
	return nil
}

// DropCollection drops the target collection.
func (s *MongoSink) DropCollection(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("sink not connected")
	}
	if err := s.coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	logging.Info("dropped collection", logging.F("collection", s.cfg.Collection))
	return nil
}

// Stats returns collection statistics via collStats.
func (s *MongoSink) Stats(ctx context.Context) (CollectionStats, error) {
	if !s.IsConnected() {
		return CollectionStats{}, fmt.Errorf("sink not connected")
	}

	var raw struct {
		Count          int64 `bson:"count"`
		Size           int64 `bson:"size"`
		StorageSize    int64 `bson:"storageSize"`
		AvgObjSize     int64 `bson:"avgObjSize"`
		NIndexes       int64 `bson:"nindexes"`
		TotalIndexSize int64 `bson:"totalIndexSize"`
	}
	err := s.db.RunCommand(ctx, bson.D{
		{Key: "collStats", Value: s.cfg.Collection},
	}).Decode(&raw)
	if err != nil {
		return CollectionStats{}, fmt.Errorf("collStats: %w", err)
	}

	return CollectionStats{
		DocumentCount:    raw.Count,
		SizeBytes:        raw.Size,
		StorageSizeBytes: raw.StorageSize,
		AvgDocumentSize:  raw.AvgObjSize,
		IndexCount:       raw.NIndexes,
		IndexSizeBytes:   raw.TotalIndexSize,
	}, nil
}
