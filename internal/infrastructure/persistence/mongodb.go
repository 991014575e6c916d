package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions selects the server, credentials and database
type MongoOptions struct {
	URI      string
	Database string
	Username string
	Password string
	// ServerSelectionTimeout defaults to 5s
	ServerSelectionTimeout time.Duration
}

// NewMongoClient connects, pings the server and returns the client with the selected database
func NewMongoClient(ctx context.Context, opts MongoOptions) (*mongo.Client, *mongo.Database, error) {
	if opts.Database == "" {
		return nil, nil, fmt.Errorf("mongodb database name is empty")
	}
	timeout := opts.ServerSelectionTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	clientOptions := options.Client().
		ApplyURI(opts.URI).
		SetAppName("uas-projects-service").
		SetServerSelectionTimeout(timeout)

	if opts.Username != "" && opts.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}

	// Set connection timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping %s: %w", opts.Database, err)
	}

	return client, client.Database(opts.Database), nil
}
