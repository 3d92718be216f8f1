// Package mongo implements audit.Store on top of MongoDB, for deployments
// that want queryable solve history shared across orchestrator instances
// rather than per-host JSON-line files.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hierarchytrix/solver/pkg/audit"
)

// Store audits solve requests into a single MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Config configures a mongo-backed audit store.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// New connects to MongoDB and returns a Store backed by cfg.Collection in
// cfg.Database. Database and Collection default to "hierarchytrix" and
// "audit" respectively when empty.
func New(ctx context.Context, cfg Config) (*Store, error) {
	database := cfg.Database
	if database == "" {
		database = "hierarchytrix"
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "audit"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Append(ctx context.Context, rec audit.Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (s *Store) Recent(ctx context.Context, instanceID string, limit int) ([]audit.Record, error) {
	filter := bson.M{}
	if instanceID != "" {
		filter["instance_id"] = instanceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit records: %w", err)
	}
	defer cur.Close(ctx)

	var records []audit.Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode audit records: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ audit.Store = (*Store)(nil)
