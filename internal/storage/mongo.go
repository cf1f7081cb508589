package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// MongoStore keeps messages in one MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ MessageStore = (*MongoStore)(nil)

// MongoOptions selects the deployment and collection.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// OpenMongo connects, verifies the primary is reachable and ensures the
// timestamp index exists.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(config.MongoConnect).
		SetServerSelectionTimeout(config.MongoConnect))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.MongoConnect)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(pingCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetName("idx_messages_timestamp"),
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to create timestamp index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Backend() string {
	return config.BackendMongo
}

func (s *MongoStore) Save(ctx context.Context, m Message) error {
	_, err := s.coll.InsertOne(ctx, m)
	return domerrors.NewStoreError(s.Backend(), "save", err)
}

func (s *MongoStore) List(ctx context.Context) ([]Message, error) {
	// _id is an ObjectID whose prefix is the insert time, so it breaks
	// timestamp ties in submission order.
	cur, err := s.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domerrors.NewStoreError(s.Backend(), "list", err)
	}

	msgs := make([]Message, 0)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, domerrors.NewStoreError(s.Backend(), "list", err)
	}
	return msgs, nil
}

func (s *MongoStore) DeleteByTimestamp(ctx context.Context, ts string) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "timestamp", Value: ts}})
	if err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "delete", err)
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "count", err)
	}
	return int(n), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return domerrors.NewStoreError(s.Backend(), "ping", s.client.Ping(ctx, readpref.Primary()))
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
