package datastore

import (
	"context"
	"time"

	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo dials the cluster, checks it answers and returns the
// collection descriptors are kept in.
func ConnectMongo(ctx context.Context, uri string, database string, collection string) (*mongo.Client, *mongo.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	model := client.Database(database).Collection(collection)
	setUpIndexes(ctx, model)

	logger.Info("connected to mongodb successfully")
	return client, model, nil
}

// Set up the indexes for the face collection
func setUpIndexes(ctx context.Context, model *mongo.Collection) {
	_, err := model.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index(),
	}})
	if err != nil {
		logger.Warning("could not create mongodb indexes", logger.LoggerOptions{Key: "error", Data: err})
		return
	}
	logger.Info("mongodb indexes set up successfully")
}
