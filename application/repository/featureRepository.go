package repository

import (
	"context"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/featurestore"
)

// FeatureRepository is the enrolled-face collection the recognition flow
// reads and writes. *featurestore.Store implements it.
type FeatureRepository interface {
	Save(ctx context.Context, label string, features entities.FaceFeatures) error
	BestMatch(candidate *entities.FaceFeatures) featurestore.Match
	Labels() []string
	Len() int
	Reset(ctx context.Context) error
}

var _ FeatureRepository = (*featurestore.Store)(nil)
