package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"crudapi/internal/config"
)

var mongoConnect = mongo.Connect

// NewMongo connects a MongoDB client, verifies it with a ping and returns the
// configured database handle. The client is owned by the caller and must be
// disconnected on shutdown.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if c.URI == "" || c.Database == "" {
		return nil, nil, fmt.Errorf("invalid mongo config: uri and database are required")
	}

	timeout := time.Duration(c.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(c.MaxPoolSize))
	}

	client, err := mongoConnect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(c.Database), nil
}
