package database

import (
	"context"

	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/database/connection"
	"facegate.io/infrastructure/database/featurestore"
	"facegate.io/infrastructure/env"
)

// SetUpDatabase connects the configured backend and loads every stored
// descriptor into memory.
func SetUpDatabase(ctx context.Context, cfg *env.Config, scorer types.SimilarityScorer) (*featurestore.Store, error) {
	persister, err := connection.ConnectToDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := featurestore.Open(ctx, persister, scorer, cfg.MatchThreshold)
	if err != nil {
		persister.Close(ctx)
		return nil, err
	}
	return store, nil
}
