package featurestore

import (
	"context"
	"fmt"
	"time"

	"facegate.io/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type faceDocument struct {
	Label     string                `bson:"_id"`
	Features  entities.FaceFeatures `bson:"features"`
	CreatedAt time.Time             `bson:"created_at"`
	UpdatedAt time.Time             `bson:"updated_at"`
}

// MongoPersister stores one document per label. Only the changed record is
// written on save.
type MongoPersister struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoPersister(client *mongo.Client, collection *mongo.Collection) *MongoPersister {
	return &MongoPersister{client: client, collection: collection}
}

func (p *MongoPersister) Load(ctx context.Context) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := p.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query face documents: %w", err)
	}
	var docs []faceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	records := make([]Record, len(docs))
	for i, doc := range docs {
		records[i] = Record{Label: doc.Label, Features: doc.Features}
	}
	return records, nil
}

func (p *MongoPersister) Save(ctx context.Context, snapshot []Record, changed Record) error {
	now := time.Now().UTC()
	_, err := p.collection.UpdateOne(ctx,
		bson.M{"_id": changed.Label},
		bson.M{
			"$set":         bson.M{"features": changed.Features, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (p *MongoPersister) Clear(ctx context.Context) error {
	_, err := p.collection.DeleteMany(ctx, bson.D{})
	return err
}

func (p *MongoPersister) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}
