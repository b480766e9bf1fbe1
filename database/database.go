// database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"invtrack/config"
	"invtrack/store"
)

// Connect opens and verifies the Mongo connection configured in config.
func Connect(ctx context.Context) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(config.MongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetMaxPoolSize(50)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	defer cancelPing()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Successfully connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the unique indexes backing the application-level
// uniqueness checks. The advisory checks and the eventual write are not
// atomic; these indexes close that window at the storage layer.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string][]string{
		store.ColAssetTypes: {"name"},
		store.ColAssets:     {"serialNumber"},
		store.ColUsers:      {"username", "email"},
	}

	for col, fields := range unique {
		for _, field := range fields {
			_, err := db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
			if err != nil {
				return fmt.Errorf("create unique index %s.%s: %w", col, field, err)
			}
		}
	}
	return nil
}

func Disconnect(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect warning: %v", err)
	}
}
