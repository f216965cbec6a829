package connection

import (
	"context"
	"fmt"

	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/featurestore"
	"facegate.io/infrastructure/env"
)

// ConnectToDatabase opens the configured store backend.
func ConnectToDatabase(ctx context.Context, cfg *env.Config) (featurestore.Persister, error) {
	switch cfg.StoreBackend {
	case "mongo":
		client, collection, err := datastore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		return featurestore.NewMongoPersister(client, collection), nil
	case "postgres":
		conn, err := datastore.ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return featurestore.NewPostgresPersister(conn), nil
	default:
		return featurestore.NewFilePersister(cfg.StorePath), nil
	}
}
